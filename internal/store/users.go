package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
	"kunstgalerie/internal/querycache"
	"kunstgalerie/internal/rolegate"
)

const entityUsers = "users"

// UserStore serves the admin dashboard's user list and role assignment.
type UserStore struct {
	gw      *gateway.Client
	cache   *querycache.Cache
	session rolegate.SessionSource
	log     *zap.SugaredLogger
}

// NewUserStore builds a user store.
func NewUserStore(gw *gateway.Client, cache *querycache.Cache, session rolegate.SessionSource, log *zap.SugaredLogger) *UserStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UserStore{gw: gw, cache: cache, session: session, log: log}
}

// List returns all registered users with their effective role. A failed role
// check degrades that row to the default role instead of failing the whole
// list; the row still renders, just without elevated standing.
func (s *UserStore) List(ctx context.Context) ([]model.UserWithRole, error) {
	sess := s.session.Current()
	if sess == nil {
		return nil, &gateway.AuthError{Reason: "sign in required"}
	}
	key := querycache.Key{Entity: entityUsers, Params: "all", Identity: sess.UserID}
	if v, ok := s.cache.Get(key); ok {
		return v.([]model.UserWithRole), nil
	}
	profiles, err := s.gw.Profiles(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	users := make([]model.UserWithRole, 0, len(profiles))
	for _, p := range profiles {
		role := model.RoleUser
		isAdmin, err := s.gw.HasRole(ctx, sess.AccessToken, p.ID, model.RoleAdmin)
		if err != nil {
			s.log.Debugw("role check for user list failed", "user", p.ID, "err", err)
		} else if isAdmin {
			role = model.RoleAdmin
		}
		users = append(users, model.UserWithRole{Profile: p, Role: role})
	}
	s.cache.Set(key, users)
	return users, nil
}

// AssignRole grants or revokes the admin role. Granting upserts the admin
// row (idempotent on the user+role constraint); assigning "user" deletes it,
// since absence of the row is the default role.
func (s *UserStore) AssignRole(ctx context.Context, userID, role string) error {
	sess := s.session.Current()
	if sess == nil {
		return &gateway.AuthError{Reason: "sign in required"}
	}
	switch role {
	case model.RoleAdmin:
		if err := s.gw.UpsertAdminRole(ctx, sess.AccessToken, userID); err != nil {
			return err
		}
	case model.RoleUser:
		if err := s.gw.DeleteAdminRole(ctx, sess.AccessToken, userID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	s.cache.InvalidateEntity(entityUsers)
	// The target's own gate answer changed as well.
	s.cache.Invalidate(querycache.Key{Entity: "role", Params: model.RoleAdmin, Identity: userID})
	return nil
}
