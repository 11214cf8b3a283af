package gateway

import (
	"context"
	"net/http"
	"net/url"

	"kunstgalerie/internal/model"
)

// CartItems returns the signed-in user's cart, newest first, with the
// product and its images embedded. Row security scopes the result to the
// token's identity; user_id is passed so the request is explicit about whose
// rows it wants.
func (c *Client) CartItems(ctx context.Context, token, userID string) ([]model.CartItem, error) {
	q := url.Values{
		"select":  {"*,product:products(*,product_images(*))"},
		"user_id": {"eq." + userID},
		"order":   {"created_at.desc"},
	}
	var out []model.CartItem
	if err := c.do(ctx, http.MethodGet, "/rest/v1/cart_items", q, nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type addToCartArgs struct {
	ProductID string `json:"_product_id"`
	Quantity  int    `json:"_quantity"`
}

// AddToCart performs the atomic insert-or-increment for (user, product) in a
// single gateway call. The user is the token's identity. Doing this as one
// remote procedure closes the lost-update window a read-then-write sequence
// would have under concurrent adds.
func (c *Client) AddToCart(ctx context.Context, token, productID string, quantity int) (model.CartItem, error) {
	var out model.CartItem
	err := c.rpc(ctx, "add_to_cart", addToCartArgs{ProductID: productID, Quantity: quantity}, token, &out)
	if err != nil {
		return model.CartItem{}, err
	}
	return out, nil
}

// UpdateCartItem sets the absolute quantity of one cart row.
func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error {
	q := url.Values{"id": {"eq." + itemID}}
	payload := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, "/rest/v1/cart_items", q, payload, token, nil)
}

// DeleteCartItem removes one cart row.
func (c *Client) DeleteCartItem(ctx context.Context, token, itemID string) error {
	q := url.Values{"id": {"eq." + itemID}}
	return c.do(ctx, http.MethodDelete, "/rest/v1/cart_items", q, nil, token, nil)
}
