package gateway

import (
	"context"
	"net/http"
	"net/url"

	"kunstgalerie/internal/model"
)

// Likes returns all like rows for a product. Readable anonymously; the
// caller derives the total and whether the current identity is among them.
func (c *Client) Likes(ctx context.Context, productID string) ([]model.Like, error) {
	q := url.Values{"product_id": {"eq." + productID}}
	var out []model.Like
	if err := c.do(ctx, http.MethodGet, "/rest/v1/product_likes", q, nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindLike returns the like row for (user, product), or nil when absent.
func (c *Client) FindLike(ctx context.Context, token, userID, productID string) (*model.Like, error) {
	q := url.Values{
		"user_id":    {"eq." + userID},
		"product_id": {"eq." + productID},
	}
	var out []model.Like
	if err := c.do(ctx, http.MethodGet, "/rest/v1/product_likes", q, nil, token, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// InsertLike creates the like row for (user, product).
func (c *Client) InsertLike(ctx context.Context, token, userID, productID string) error {
	payload := map[string]string{"user_id": userID, "product_id": productID}
	return c.do(ctx, http.MethodPost, "/rest/v1/product_likes", nil, payload, token, nil)
}

// DeleteLike removes a like row by id.
func (c *Client) DeleteLike(ctx context.Context, token, likeID string) error {
	q := url.Values{"id": {"eq." + likeID}}
	return c.do(ctx, http.MethodDelete, "/rest/v1/product_likes", q, nil, token, nil)
}
