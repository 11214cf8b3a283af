// Package rolegate decides admin-level access. The decision is fail-closed:
// no identity, a failed role check, or any ambiguity all mean "not admin".
// The gate is a UX convenience on top of the gateway's own policy, which
// remains the authoritative boundary on every mutation endpoint.
package rolegate

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"kunstgalerie/internal/model"
	"kunstgalerie/internal/querycache"
)

// ErrForbidden is returned by Require when the current identity is not an
// admin.
var ErrForbidden = errors.New("admin privileges required")

// RoleChecker is the slice of the gateway the gate needs.
type RoleChecker interface {
	HasRole(ctx context.Context, token, userID, role string) (bool, error)
}

// SessionSource yields the current session, nil when anonymous.
type SessionSource interface {
	Current() *model.Session
}

// Gate computes "is the current user an admin" with per-identity caching.
type Gate struct {
	gw      RoleChecker
	cache   *querycache.Cache
	session SessionSource
	log     *zap.SugaredLogger
}

// New builds a gate.
func New(gw RoleChecker, cache *querycache.Cache, session SessionSource, log *zap.SugaredLogger) *Gate {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Gate{gw: gw, cache: cache, session: session, log: log}
}

// IsAdmin reports whether the current identity holds the admin role.
// Anonymous or erroring checks return false. A positive or negative answer
// is cached per identity; an errored check is not, so a transient gateway
// failure does not stick beyond the next call.
func (g *Gate) IsAdmin(ctx context.Context) bool {
	sess := g.session.Current()
	if sess == nil {
		return false
	}
	key := querycache.Key{Entity: "role", Params: model.RoleAdmin, Identity: sess.UserID}
	if v, ok := g.cache.Get(key); ok {
		return v.(bool)
	}
	isAdmin, err := g.gw.HasRole(ctx, sess.AccessToken, sess.UserID, model.RoleAdmin)
	if err != nil {
		g.log.Debugw("role check failed, treating as non-admin", "err", err)
		return false
	}
	g.cache.Set(key, isAdmin)
	return isAdmin
}

// Require returns ErrForbidden unless the current identity is an admin.
// Admin operations call this themselves before mutating; being reachable
// through gated navigation proves nothing.
func (g *Gate) Require(ctx context.Context) error {
	if !g.IsAdmin(ctx) {
		return ErrForbidden
	}
	return nil
}
