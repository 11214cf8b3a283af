package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"kunstgalerie/internal/model"
)

// asAuthError coerces any failure on the auth endpoints into the AuthError
// class. Invalid credentials, duplicate registration and transport failures
// all surface to the caller the same way: the session could not be changed.
func asAuthError(err error) error {
	if err == nil {
		return nil
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return err
	}
	var de *DataError
	if errors.As(err, &de) {
		return &AuthError{Reason: de.Message}
	}
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		return &AuthError{Reason: fe.Reason}
	}
	return &AuthError{Reason: err.Error()}
}

type credentials struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (r authResponse) session() model.Session {
	s := model.Session{
		UserID:      r.User.ID,
		Email:       r.User.Email,
		AccessToken: r.AccessToken,
	}
	if r.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return s
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	q := url.Values{"grant_type": {"password"}}
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token", q, credentials{Email: email, Password: password}, "", &resp)
	if err != nil {
		return model.Session{}, asAuthError(err)
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return model.Session{}, &AuthError{Reason: "gateway returned no session"}
	}
	return resp.session(), nil
}

// SignUp registers a new account with profile fields and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password, firstName, lastName string) (model.Session, error) {
	payload := credentials{
		Email:    email,
		Password: password,
		Data:     map[string]string{"first_name": firstName, "last_name": lastName},
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, payload, "", &resp); err != nil {
		return model.Session{}, asAuthError(err)
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return model.Session{}, &AuthError{Reason: "gateway returned no session"}
	}
	return resp.session(), nil
}

// SignOut revokes the token server-side. A failed revocation is still an
// error; the caller decides whether to clear local state regardless.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return asAuthError(c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, struct{}{}, token, nil))
}
