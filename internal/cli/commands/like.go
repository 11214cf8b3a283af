package commands

import (
	"context"
	"fmt"

	"kunstgalerie/internal/config"
)

type likeCmd struct{}

func (likeCmd) Name() string        { return "like" }
func (likeCmd) Description() string { return "Toggle your like on an artwork" }
func (likeCmd) Usage() string       { return "like <product-id>" }

func (likeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	liked, err := a.likes.Toggle(ctx, args[0])
	if err != nil {
		return err
	}
	if liked {
		fmt.Fprintln(Out, "Liked")
	} else {
		fmt.Fprintln(Out, "Like removed")
	}
	return nil
}

type likesCmd struct{}

func (likesCmd) Name() string        { return "likes" }
func (likesCmd) Description() string { return "Show the like count of an artwork" }
func (likesCmd) Usage() string       { return "likes <product-id>" }

func (likesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	st, err := a.likes.Status(ctx, args[0])
	if err != nil {
		return err
	}
	suffix := ""
	if st.LikedBy {
		suffix = " (including you)"
	}
	fmt.Fprintf(Out, "%d like(s)%s\n", st.Total, suffix)
	return nil
}

func init() {
	RegisterCmd(likeCmd{})
	RegisterCmd(likesCmd{})
}
