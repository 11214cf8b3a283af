package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"kunstgalerie/internal/catalog"
	"kunstgalerie/internal/config"
	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
)

type productsCmd struct{}

func (productsCmd) Name() string        { return "products" }
func (productsCmd) Description() string { return "List the gallery, with filters and sorting" }
func (productsCmd) Usage() string {
	return "products [--category C] [--min-price N] [--max-price N] [--in-stock] [--sort title|price-asc|price-desc|year-desc]"
}

func (productsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(Out)
	var f catalog.Filter
	sortFlag := fs.String("sort", "", "sort key")
	fs.StringVar(&f.Category, "category", "", "exact category match")
	fs.StringVar(&f.MinPrice, "min-price", "", "inclusive lower price bound")
	fs.StringVar(&f.MaxPrice, "max-price", "", "inclusive upper price bound")
	fs.BoolVar(&f.InStockOnly, "in-stock", false, "only purchasable works")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	sortKey, err := catalog.ParseSortKey(*sortFlag)
	if err != nil {
		return err
	}

	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	products, err := a.products.List(ctx)
	if err != nil {
		// Degrade to the last synced catalog when the gateway is down.
		var de *gateway.DataError
		if errors.As(err, &de) && a.snap != nil {
			if cached, cerr := a.products.ListOffline(); cerr == nil && len(cached) > 0 {
				fmt.Fprintln(Out, "(gateway unreachable, showing last synced catalog)")
				products = cached
			} else {
				return err
			}
		} else {
			return err
		}
	}

	filtered, err := f.Apply(products)
	if err != nil {
		return err
	}
	sorted := catalog.Sort(filtered, sortKey)

	if len(sorted) == 0 {
		fmt.Fprintln(Out, "No artworks match")
		return nil
	}
	for _, p := range sorted {
		printProductLine(p)
	}
	fmt.Fprintf(Out, "%d artwork(s)\n", len(sorted))
	return nil
}

func printProductLine(p model.Product) {
	stock := "in stock"
	if !p.InStock {
		stock = "sold"
	}
	yr := ""
	if p.Year != nil {
		yr = fmt.Sprintf(", %d", *p.Year)
	}
	fmt.Fprintf(Out, "- %s  %q by %s%s, %.2f EUR [%s] (%s)\n",
		p.ID, p.Title, p.Artist, yr, p.Price, p.Category, stock)
}

type productCmd struct{}

func (productCmd) Name() string        { return "product" }
func (productCmd) Description() string { return "Show one artwork in detail" }
func (productCmd) Usage() string       { return "product <id>" }

func (productCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	a, done, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	p, err := a.products.Get(ctx, args[0])
	var nf *gateway.NotFoundError
	if errors.As(err, &nf) {
		// Not-found renders a state with a way back, not a crash. The
		// error still propagates so the process exits non-zero.
		fmt.Fprintf(Out, "Artwork %q not found. See `galerie products` for the gallery.\n", args[0])
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(Out, "%s\nby %s\n%.2f EUR\n\n%s\n", p.Title, p.Artist, p.Price, p.Description)
	if p.LongDescription != "" {
		fmt.Fprintf(Out, "\n%s\n", p.LongDescription)
	}
	if p.Year != nil {
		fmt.Fprintf(Out, "Year:       %d\n", *p.Year)
	}
	if p.Dimensions != "" {
		fmt.Fprintf(Out, "Dimensions: %s\n", p.Dimensions)
	}
	if p.Technique != "" {
		fmt.Fprintf(Out, "Technique:  %s\n", p.Technique)
	}
	if p.Category != "" {
		fmt.Fprintf(Out, "Category:   %s\n", p.Category)
	}
	if img, ok := p.PrimaryImage(); ok {
		fmt.Fprintf(Out, "Image:      %s\n", img.ImageRef)
	}
	if !p.InStock {
		fmt.Fprintln(Out, "Currently sold")
	}

	if st, err := a.likes.Status(ctx, p.ID); err == nil {
		liked := ""
		if st.LikedBy {
			liked = " (including you)"
		}
		fmt.Fprintf(Out, "Likes:      %d%s\n", st.Total, liked)
	}
	return nil
}

func init() {
	RegisterCmd(productsCmd{})
	RegisterCmd(productCmd{})
}
