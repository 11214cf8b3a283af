package gateway

import (
	"context"
	"net/http"
	"net/url"

	"kunstgalerie/internal/model"
)

// Products fetches the whole catalog with embedded images. The catalog is
// small by design; filtering and sorting happen client-side.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	q := url.Values{
		"select": {"*,product_images(*)"},
		"order":  {"created_at.desc"},
	}
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/rest/v1/products", q, nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single catalog row by id. An empty result maps to
// NotFoundError rather than an empty product.
func (c *Client) Product(ctx context.Context, id string) (model.Product, error) {
	q := url.Values{
		"select": {"*,product_images(*)"},
		"id":     {"eq." + id},
	}
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/rest/v1/products", q, nil, "", &out); err != nil {
		return model.Product{}, err
	}
	if len(out) == 0 {
		return model.Product{}, &NotFoundError{Resource: "product", ID: id}
	}
	return out[0], nil
}

// InsertProduct creates a catalog row. Authorization is enforced by the
// gateway's policy on the table, not here.
func (c *Client) InsertProduct(ctx context.Context, token string, in model.ProductInput) (model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodPost, "/rest/v1/products", nil, in, token, &out); err != nil {
		return model.Product{}, err
	}
	if len(out) == 0 {
		return model.Product{}, &DataError{Message: "insert returned no row"}
	}
	return out[0], nil
}

// DeleteProduct removes a catalog row by id.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	q := url.Values{"id": {"eq." + id}}
	return c.do(ctx, http.MethodDelete, "/rest/v1/products", q, nil, token, nil)
}
