package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is the typed request client for the hosted table store. It owns no
// state beyond connection settings: persistence, authentication and row
// security all live server-side.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.SugaredLogger
}

// New builds a client for the gateway at baseURL. Both the URL and the
// public API key are required; without them no data-dependent operation can
// run.
func New(baseURL, apiKey string, log *zap.SugaredLogger) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("gateway URL and API key must be configured")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}, nil
}

// do sends one JSON request. token may be empty for anonymous reads. out may
// be nil when the caller does not need the body. Non-2xx statuses map to the
// error taxonomy: 401 -> AuthError, 403 -> ForbiddenError, everything
// else -> DataError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, token string, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return &DataError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		body = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &DataError{Message: err.Error()}
	}
	req.Header.Set("apikey", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &DataError{Message: err.Error()}
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Reason: gatewayMessage(raw, resp.StatusCode)}
	}
	if resp.StatusCode == http.StatusForbidden {
		return &ForbiddenError{Reason: gatewayMessage(raw, resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debugw("gateway request failed", "method", method, "path", path, "status", resp.StatusCode)
		return &DataError{Status: resp.StatusCode, Message: gatewayMessage(raw, resp.StatusCode)}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &DataError{Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// gatewayMessage extracts the error text the gateway returns, falling back to
// the HTTP status text.
func gatewayMessage(raw []byte, status int) string {
	var e struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		for _, m := range []string{e.Message, e.Msg, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" && len(s) < 200 {
		return s
	}
	return http.StatusText(status)
}

// rpc invokes a remote procedure on the gateway.
func (c *Client) rpc(ctx context.Context, name string, args any, token string, out any) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+name, nil, args, token, out)
}
