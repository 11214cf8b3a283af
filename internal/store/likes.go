package store

import (
	"context"

	"go.uber.org/zap"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/querycache"
	"kunstgalerie/internal/rolegate"
)

const entityLikes = "likes"

// LikeStatus is what a product view renders: the total and whether the
// current identity is among the likers.
type LikeStatus struct {
	Total   int
	LikedBy bool
}

// LikeStore serves like totals and the like/unlike toggle.
type LikeStore struct {
	gw      *gateway.Client
	cache   *querycache.Cache
	session rolegate.SessionSource
	log     *zap.SugaredLogger
}

// NewLikeStore builds a like store.
func NewLikeStore(gw *gateway.Client, cache *querycache.Cache, session rolegate.SessionSource, log *zap.SugaredLogger) *LikeStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LikeStore{gw: gw, cache: cache, session: session, log: log}
}

// Status returns the like status of a product for the current identity.
// Works anonymously; LikedBy is then always false. Cached per identity
// because the answer depends on who is asking.
func (s *LikeStore) Status(ctx context.Context, productID string) (LikeStatus, error) {
	identity := ""
	if sess := s.session.Current(); sess != nil {
		identity = sess.UserID
	}
	key := querycache.Key{Entity: entityLikes, Params: productID, Identity: identity}
	if v, ok := s.cache.Get(key); ok {
		return v.(LikeStatus), nil
	}
	likes, err := s.gw.Likes(ctx, productID)
	if err != nil {
		return LikeStatus{}, err
	}
	st := LikeStatus{Total: len(likes)}
	for _, l := range likes {
		if identity != "" && l.UserID == identity {
			st.LikedBy = true
			break
		}
	}
	s.cache.Set(key, st)
	return st, nil
}

// Toggle likes the product when no like row exists for (user, product) and
// unlikes it otherwise, returning the resulting state so the view can render
// without a second fetch. Presence of the row is the whole state, which
// makes the toggle idempotent per direction and involutive overall.
func (s *LikeStore) Toggle(ctx context.Context, productID string) (liked bool, err error) {
	sess := s.session.Current()
	if sess == nil {
		return false, &gateway.AuthError{Reason: "sign in to like products"}
	}
	existing, err := s.gw.FindLike(ctx, sess.AccessToken, sess.UserID, productID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.gw.DeleteLike(ctx, sess.AccessToken, existing.ID); err != nil {
			return false, err
		}
		liked = false
	} else {
		if err := s.gw.InsertLike(ctx, sess.AccessToken, sess.UserID, productID); err != nil {
			return false, err
		}
		liked = true
	}
	// The total changed for everyone looking at this product, not just the
	// toggling identity.
	s.cache.InvalidateEntityParams(entityLikes, productID)
	return liked, nil
}
