// Package store contains the entity stores mediating between the views and
// the gateway: each pairs cache keys with a read query and its mutations.
// Reads resolve from the cache when fresh; mutations go straight to the
// gateway and, on success only, invalidate the scopes they could have
// changed. A failed mutation leaves the cache untouched.
package store

import (
	"context"

	"go.uber.org/zap"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
	"kunstgalerie/internal/offline"
	"kunstgalerie/internal/querycache"
	"kunstgalerie/internal/rolegate"
)

const entityProducts = "products"

// ProductStore serves the catalog.
type ProductStore struct {
	gw      *gateway.Client
	cache   *querycache.Cache
	session rolegate.SessionSource
	snap    *offline.Snapshot
	log     *zap.SugaredLogger
}

// NewProductStore builds a product store. snap may be nil to disable the
// offline snapshot.
func NewProductStore(gw *gateway.Client, cache *querycache.Cache, session rolegate.SessionSource, snap *offline.Snapshot, log *zap.SugaredLogger) *ProductStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ProductStore{gw: gw, cache: cache, session: session, snap: snap, log: log}
}

func listKey() querycache.Key {
	return querycache.Key{Entity: entityProducts, Params: "all"}
}

// List returns the full catalog, cached under a non-user-scoped key. After a
// successful fetch the offline snapshot is refreshed best-effort.
func (s *ProductStore) List(ctx context.Context) ([]model.Product, error) {
	if v, ok := s.cache.Get(listKey()); ok {
		return v.([]model.Product), nil
	}
	products, err := s.gw.Products(ctx)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateProducts(products); err != nil {
		return nil, &gateway.DataError{Message: "catalog row failed validation: " + err.Error()}
	}
	s.cache.Set(listKey(), products)
	if s.snap != nil {
		if err := s.snap.SaveProducts(products); err != nil {
			s.log.Debugw("refresh offline snapshot", "err", err)
		}
	}
	return products, nil
}

// ListOffline serves the last synced catalog from the local snapshot. Used
// by views as a degraded read when the gateway is unreachable.
func (s *ProductStore) ListOffline() ([]model.Product, error) {
	if s.snap == nil {
		return nil, nil
	}
	return s.snap.LoadProducts()
}

// Get returns one product by id. A missing id is a NotFoundError the view
// renders as a not-found state, not a crash.
func (s *ProductStore) Get(ctx context.Context, id string) (model.Product, error) {
	key := querycache.Key{Entity: entityProducts, Params: "id=" + id}
	if v, ok := s.cache.Get(key); ok {
		return v.(model.Product), nil
	}
	p, err := s.gw.Product(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if err := model.Validate(&p); err != nil {
		return model.Product{}, &gateway.DataError{Message: "product failed validation: " + err.Error()}
	}
	s.cache.Set(key, p)
	return p, nil
}

// Create inserts a new product. Admin-only; the caller re-verifies the role
// gate and the gateway enforces its own policy regardless.
func (s *ProductStore) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	sess := s.session.Current()
	if sess == nil {
		return model.Product{}, &gateway.AuthError{Reason: "sign in required"}
	}
	if err := model.Validate(&in); err != nil {
		return model.Product{}, &gateway.DataError{Message: "invalid product: " + err.Error()}
	}
	p, err := s.gw.InsertProduct(ctx, sess.AccessToken, in)
	if err != nil {
		return model.Product{}, err
	}
	s.cache.InvalidateEntity(entityProducts)
	return p, nil
}

// Delete removes a product by id.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	sess := s.session.Current()
	if sess == nil {
		return &gateway.AuthError{Reason: "sign in required"}
	}
	if err := s.gw.DeleteProduct(ctx, sess.AccessToken, id); err != nil {
		return err
	}
	s.cache.InvalidateEntity(entityProducts)
	return nil
}
