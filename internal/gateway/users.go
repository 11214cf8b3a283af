package gateway

import (
	"context"
	"net/http"
	"net/url"

	"kunstgalerie/internal/model"
)

// Profiles lists registered users. The gateway's policy restricts this to
// privileged tokens.
func (c *Client) Profiles(ctx context.Context, token string) ([]model.Profile, error) {
	q := url.Values{"order": {"created_at.desc"}}
	var out []model.Profile
	if err := c.do(ctx, http.MethodGet, "/rest/v1/profiles", q, nil, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type hasRoleArgs struct {
	UserID string `json:"_user_id"`
	Role   string `json:"_role"`
}

// HasRole asks the gateway's role-check procedure whether userID holds role.
// This is the authoritative check; callers must not infer roles from cached
// client state.
func (c *Client) HasRole(ctx context.Context, token, userID, role string) (bool, error) {
	var out bool
	if err := c.rpc(ctx, "has_role", hasRoleArgs{UserID: userID, Role: role}, token, &out); err != nil {
		return false, err
	}
	return out, nil
}

// UpsertAdminRole grants the admin role to a user. Idempotent on the
// (user_id, role) uniqueness constraint.
func (c *Client) UpsertAdminRole(ctx context.Context, token, userID string) error {
	payload := map[string]string{"user_id": userID, "role": model.RoleAdmin}
	return c.do(ctx, http.MethodPost, "/rest/v1/user_roles", nil, payload, token, nil)
}

// DeleteAdminRole removes the admin role row, demoting the user to the
// implicit default role.
func (c *Client) DeleteAdminRole(ctx context.Context, token, userID string) error {
	q := url.Values{
		"user_id": {"eq." + userID},
		"role":    {"eq." + model.RoleAdmin},
	}
	return c.do(ctx, http.MethodDelete, "/rest/v1/user_roles", q, nil, token, nil)
}
