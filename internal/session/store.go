// Package session owns the process-wide authenticated identity. Exactly one
// session (or none) exists per running client; it changes only through
// SignIn, SignUp and SignOut. Dependent stores subscribe instead of polling.
package session

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
	"kunstgalerie/internal/querycache"
)

// Store holds the current session and notifies subscribers on every identity
// change. On a change it also flushes all cache scopes of the identities
// involved: user-scoped keys carry the identity, so a stale identity must
// never resolve another user's rows.
type Store struct {
	mu    sync.Mutex
	gw    *gateway.Client
	cache *querycache.Cache
	files TokenFS
	log   *zap.SugaredLogger

	cur  *model.Session
	subs []func(identity string)
}

// New builds a session store. tokenPath may be empty to use the default
// location.
func New(gw *gateway.Client, cache *querycache.Cache, tokenPath string, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{gw: gw, cache: cache, files: TokenFS{Path: tokenPath}, log: log}
}

// Current returns a copy of the active session, or nil when anonymous.
func (s *Store) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil
	}
	cp := *s.cur
	return &cp
}

// Identity returns the active user id, empty when anonymous.
func (s *Store) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.UserID
}

// Subscribe registers a callback invoked with the new identity (empty on
// sign-out) after every change. Callbacks run synchronously under the event
// that caused the change.
func (s *Store) Subscribe(fn func(identity string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SignIn authenticates against the gateway and installs the session.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.install(&sess)
	return nil
}

// SignUp registers a new account and installs the resulting session.
func (s *Store) SignUp(ctx context.Context, email, password, firstName, lastName string) error {
	sess, err := s.gw.SignUp(ctx, email, password, firstName, lastName)
	if err != nil {
		return err
	}
	s.install(&sess)
	return nil
}

// SignOut revokes the token and clears the session. Local state is cleared
// even when revocation fails; the token is gone from this client either way.
func (s *Store) SignOut(ctx context.Context) error {
	cur := s.Current()
	var revokeErr error
	if cur != nil {
		revokeErr = s.gw.SignOut(ctx, cur.AccessToken)
	}
	s.install(nil)
	return revokeErr
}

// Restore loads a persisted token and re-installs the session it encodes.
// An expired or unreadable token leaves the client anonymous. The token's
// claims are only parsed, not verified: verification is the gateway's job on
// every request this token accompanies.
func (s *Store) Restore() {
	token, err := s.files.Load()
	if err != nil {
		return
	}
	sess, err := sessionFromToken(token)
	if err != nil || sess.Expired() {
		s.log.Debugw("stored token unusable, staying anonymous", "err", err)
		_ = s.files.Clear()
		return
	}
	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
}

// install swaps the session, persists or clears the token file, flushes the
// affected cache scopes and notifies subscribers.
func (s *Store) install(next *model.Session) {
	s.mu.Lock()
	prev := s.cur
	s.cur = next
	subs := make([]func(string), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if prev != nil && s.cache != nil {
		s.cache.InvalidateIdentity(prev.UserID)
	}
	identity := ""
	if next != nil {
		identity = next.UserID
		if s.cache != nil {
			// A fresh sign-in must not see leftovers either, e.g. from a
			// previous run of the same account in this process.
			s.cache.InvalidateIdentity(identity)
		}
		if err := s.files.Save(next.AccessToken); err != nil {
			s.log.Warnw("persist token", "err", err)
		}
	} else {
		if err := s.files.Clear(); err != nil {
			s.log.Warnw("clear token", "err", err)
		}
	}
	for _, fn := range subs {
		fn(identity)
	}
}

// sessionFromToken rebuilds a session from a stored JWT's claims.
func sessionFromToken(token string) (model.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.Session{}, err
	}
	sess := model.Session{AccessToken: token}
	if sub, err := claims.GetSubject(); err == nil {
		sess.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	if sess.UserID == "" {
		return model.Session{}, &gateway.AuthError{Reason: "token has no subject"}
	}
	return sess, nil
}
