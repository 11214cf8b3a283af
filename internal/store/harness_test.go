package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/gatewaytest"
	"kunstgalerie/internal/offline"
	"kunstgalerie/internal/querycache"
	"kunstgalerie/internal/session"
	"kunstgalerie/internal/store"
)

// env wires a full client stack against one fake gateway.
type env struct {
	srv      *gatewaytest.Server
	gw       *gateway.Client
	cache    *querycache.Cache
	sess     *session.Store
	snap     *offline.Snapshot
	products *store.ProductStore
	cart     *store.CartStore
	likes    *store.LikeStore
	users    *store.UserStore
}

func setup(t *testing.T) *env {
	t.Helper()
	srv := gatewaytest.New(t)
	gw, err := gateway.New(srv.URL, gatewaytest.APIKey, nil)
	require.NoError(t, err)

	cache := querycache.New(0)
	sess := session.New(gw, cache, filepath.Join(t.TempDir(), "auth_token"), nil)
	snap, err := offline.Open(filepath.Join(t.TempDir(), "catalog.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })

	products := store.NewProductStore(gw, cache, sess, snap, nil)
	return &env{
		srv:      srv,
		gw:       gw,
		cache:    cache,
		sess:     sess,
		snap:     snap,
		products: products,
		cart:     store.NewCartStore(gw, cache, sess, products, nil),
		likes:    store.NewLikeStore(gw, cache, sess, nil),
		users:    store.NewUserStore(gw, cache, sess, nil),
	}
}

// signInAs registers-or-uses the seeded account and signs the stack in.
func (e *env) signInAs(t *testing.T, email, password string) string {
	t.Helper()
	require.NoError(t, e.sess.SignIn(context.Background(), email, password))
	return e.sess.Identity()
}

func (e *env) signOut(t *testing.T) {
	t.Helper()
	require.NoError(t, e.sess.SignOut(context.Background()))
}
