package commands

import (
	"context"
	"fmt"

	"kunstgalerie/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Sign in and store the session token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := a.session.SignIn(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Signed in as %s\n", args[0])
	return nil
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and sign in" }
func (registerCmd) Usage() string {
	return "register <email> <password> [first-name] [last-name]"
}

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 4 {
		return ErrUsage
	}
	var first, last string
	if len(args) > 2 {
		first = args[2]
	}
	if len(args) > 3 {
		last = args[3]
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := a.session.SignUp(ctx, args[0], args[1], first, last); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered and signed in as %s\n", args[0])
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Sign out and clear the stored token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := a.session.SignOut(ctx); err != nil {
		// Local state is already cleared; the revocation failure is still
		// worth reporting.
		return err
	}
	fmt.Fprintln(Out, "Signed out")
	return nil
}

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the current session and role" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	sess := a.session.Current()
	if sess == nil {
		fmt.Fprintln(Out, "Not signed in")
		return nil
	}
	role := "user"
	if a.gate.IsAdmin(ctx) {
		role = "admin"
	}
	fmt.Fprintf(Out, "%s (%s), role: %s\n", sess.Email, sess.UserID, role)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(registerCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(whoamiCmd{})
}
