package commands

import (
	"context"
	"flag"
	"fmt"

	"kunstgalerie/internal/config"
	"kunstgalerie/internal/model"
)

type adminUsersCmd struct{}

func (adminUsersCmd) Name() string        { return "admin-users" }
func (adminUsersCmd) Description() string { return "List registered users and their roles (admin)" }
func (adminUsersCmd) Usage() string       { return "admin-users" }

func (adminUsersCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := a.gate.Require(ctx); err != nil {
		return err
	}
	users, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		name := u.FirstName
		if u.LastName != "" {
			name += " " + u.LastName
		}
		fmt.Fprintf(Out, "- %s  %s <%s> [%s]\n", u.ID, name, u.Email, u.Role)
	}
	fmt.Fprintf(Out, "%d user(s)\n", len(users))
	return nil
}

type adminRoleCmd struct{}

func (adminRoleCmd) Name() string        { return "admin-role" }
func (adminRoleCmd) Description() string { return "Assign a role to a user (admin)" }
func (adminRoleCmd) Usage() string       { return "admin-role <user-id> admin|user" }

func (adminRoleCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := a.gate.Require(ctx); err != nil {
		return err
	}
	if err := a.users.AssignRole(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "User %s is now %s\n", args[0], args[1])
	return nil
}

type adminProductAddCmd struct{}

func (adminProductAddCmd) Name() string { return "admin-product-add" }
func (adminProductAddCmd) Description() string {
	return "Add an artwork to the catalog (admin)"
}
func (adminProductAddCmd) Usage() string {
	return "admin-product-add --title T --artist A --price N [--description D] [--year Y] [--dimensions D] [--technique T] [--category C] [--sold]"
}

func (adminProductAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("admin-product-add", flag.ContinueOnError)
	fs.SetOutput(Out)
	var in model.ProductInput
	fs.StringVar(&in.Title, "title", "", "artwork title")
	fs.StringVar(&in.Artist, "artist", "", "artist name")
	fs.Float64Var(&in.Price, "price", 0, "price in EUR")
	fs.StringVar(&in.Description, "description", "", "short description")
	fs.StringVar(&in.LongDescription, "long-description", "", "full description")
	year := fs.Int("year", 0, "year of creation")
	fs.StringVar(&in.Dimensions, "dimensions", "", "physical dimensions")
	fs.StringVar(&in.Technique, "technique", "", "technique")
	fs.StringVar(&in.Category, "category", "", "category")
	sold := fs.Bool("sold", false, "mark as sold")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *year != 0 {
		in.Year = year
	}
	in.InStock = !*sold

	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := a.gate.Require(ctx); err != nil {
		return err
	}
	p, err := a.products.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created %s  %q by %s\n", p.ID, p.Title, p.Artist)
	return nil
}

type adminProductDelCmd struct{}

func (adminProductDelCmd) Name() string { return "admin-product-del" }
func (adminProductDelCmd) Description() string {
	return "Remove an artwork from the catalog (admin)"
}
func (adminProductDelCmd) Usage() string { return "admin-product-del <product-id>" }

func (adminProductDelCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := a.gate.Require(ctx); err != nil {
		return err
	}
	if err := a.products.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted %s\n", args[0])
	return nil
}

func init() {
	RegisterCmd(adminUsersCmd{})
	RegisterCmd(adminRoleCmd{})
	RegisterCmd(adminProductAddCmd{})
	RegisterCmd(adminProductDelCmd{})
}
