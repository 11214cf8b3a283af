package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"kunstgalerie/internal/config"
	"kunstgalerie/internal/store"
)

type cartCmd struct{}

func (cartCmd) Name() string        { return "cart" }
func (cartCmd) Description() string { return "Show your cart" }
func (cartCmd) Usage() string       { return "cart" }

func (cartCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if a.session.Identity() == "" {
		fmt.Fprintln(Out, "Not signed in. Use `galerie login` first.")
		return nil
	}
	items, err := a.cart.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(Out, "Your cart is empty")
		return nil
	}
	var total float64
	for _, it := range items {
		title, price := it.ProductID, 0.0
		if it.Product != nil {
			title, price = it.Product.Title, it.Product.Price
		}
		line := price * float64(it.Quantity)
		total += line
		fmt.Fprintf(Out, "- %s  %q x%d, %.2f EUR\n", it.ID, title, it.Quantity, line)
	}
	fmt.Fprintf(Out, "Total: %.2f EUR\n", total)
	return nil
}

type cartAddCmd struct{}

func (cartAddCmd) Name() string        { return "cart-add" }
func (cartAddCmd) Description() string { return "Add an artwork to your cart" }
func (cartAddCmd) Usage() string       { return "cart-add <product-id> [quantity]" }

func (cartAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	quantity := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return ErrUsage
		}
		quantity = n
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if _, err := a.cart.Add(ctx, args[0], quantity); err != nil {
		if errors.Is(err, store.ErrOutOfStock) {
			fmt.Fprintln(Out, "This artwork is sold and cannot be added to the cart")
			return err
		}
		return err
	}
	fmt.Fprintln(Out, "Added to cart")
	return nil
}

type cartSetCmd struct{}

func (cartSetCmd) Name() string        { return "cart-set" }
func (cartSetCmd) Description() string { return "Change the quantity of a cart line" }
func (cartSetCmd) Usage() string       { return "cart-set <item-id> <quantity>" }

func (cartSetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := a.cart.SetQuantity(ctx, args[0], quantity); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Quantity updated")
	return nil
}

type cartRemoveCmd struct{}

func (cartRemoveCmd) Name() string        { return "cart-remove" }
func (cartRemoveCmd) Description() string { return "Remove a line from your cart" }
func (cartRemoveCmd) Usage() string       { return "cart-remove <item-id>" }

func (cartRemoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := a.cart.Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Removed from cart")
	return nil
}

func init() {
	RegisterCmd(cartCmd{})
	RegisterCmd(cartAddCmd{})
	RegisterCmd(cartSetCmd{})
	RegisterCmd(cartRemoveCmd{})
}
