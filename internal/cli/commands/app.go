package commands

import (
	"go.uber.org/zap"

	"kunstgalerie/internal/config"
	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/offline"
	"kunstgalerie/internal/querycache"
	"kunstgalerie/internal/rolegate"
	"kunstgalerie/internal/session"
	"kunstgalerie/internal/store"
)

// app wires the client layers together for one command invocation: gateway
// client, query cache, session, entity stores and the role gate.
type app struct {
	log      *zap.SugaredLogger
	cache    *querycache.Cache
	session  *session.Store
	gate     *rolegate.Gate
	products *store.ProductStore
	cart     *store.CartStore
	likes    *store.LikeStore
	users    *store.UserStore
	snap     *offline.Snapshot
}

// newApp builds the wiring. The returned cleanup must be called when the
// command is done. Fails when the gateway endpoint is not configured.
func newApp(cfg *config.Config) (*app, func(), error) {
	if err := cfg.RequireGateway(); err != nil {
		return nil, nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}
	log := logger.Sugar()

	gw, err := gateway.New(cfg.GatewayURL, cfg.GatewayKey, log)
	if err != nil {
		return nil, nil, err
	}
	cache := querycache.New(cfg.CacheTTL)
	sess := session.New(gw, cache, cfg.TokenFile, log)
	sess.Restore()

	// Snapshot is best-effort: browsing must work even when the local
	// catalog file cannot be opened.
	snap, err := offline.Open(cfg.SnapshotPath)
	if err != nil {
		log.Debugw("offline snapshot unavailable", "path", cfg.SnapshotPath, "err", err)
		snap = nil
	}

	products := store.NewProductStore(gw, cache, sess, snap, log)
	a := &app{
		log:      log,
		cache:    cache,
		session:  sess,
		gate:     rolegate.New(gw, cache, sess, log),
		products: products,
		cart:     store.NewCartStore(gw, cache, sess, products, log),
		likes:    store.NewLikeStore(gw, cache, sess, log),
		users:    store.NewUserStore(gw, cache, sess, log),
		snap:     snap,
	}
	cleanup := func() {
		if snap != nil {
			_ = snap.Close()
		}
		_ = logger.Sync()
	}
	return a, cleanup, nil
}
