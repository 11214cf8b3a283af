package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
	"kunstgalerie/internal/querycache"
	"kunstgalerie/internal/rolegate"
)

const entityCart = "cart"

// ErrOutOfStock is returned by Add before any request is issued when the
// target product is not purchasable.
var ErrOutOfStock = errors.New("product is out of stock")

// ErrBadQuantity guards the quantity >= 1 invariant on adds and updates.
var ErrBadQuantity = errors.New("quantity must be at least 1")

// CartStore serves the signed-in user's cart.
type CartStore struct {
	gw       *gateway.Client
	cache    *querycache.Cache
	session  rolegate.SessionSource
	products *ProductStore
	log      *zap.SugaredLogger
}

// NewCartStore builds a cart store. products is consulted for the stock gate
// on Add.
func NewCartStore(gw *gateway.Client, cache *querycache.Cache, session rolegate.SessionSource, products *ProductStore, log *zap.SugaredLogger) *CartStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CartStore{gw: gw, cache: cache, session: session, products: products, log: log}
}

func cartKey(identity string) querycache.Key {
	return querycache.Key{Entity: entityCart, Identity: identity}
}

// Items returns the current user's cart, newest first. With no signed-in
// identity the query is skipped entirely: no data, no error, no request.
func (s *CartStore) Items(ctx context.Context) ([]model.CartItem, error) {
	sess := s.session.Current()
	if sess == nil {
		return nil, nil
	}
	key := cartKey(sess.UserID)
	if v, ok := s.cache.Get(key); ok {
		return v.([]model.CartItem), nil
	}
	items, err := s.gw.CartItems(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, items)
	return items, nil
}

// Add puts quantity units of a product into the cart. Adding a product that
// is already there increments the existing row; the gateway performs the
// insert-or-increment atomically in one call. Refused client-side, without a
// request, when anonymous, when quantity is below one, or when the product
// is out of stock.
func (s *CartStore) Add(ctx context.Context, productID string, quantity int) (model.CartItem, error) {
	sess := s.session.Current()
	if sess == nil {
		return model.CartItem{}, &gateway.AuthError{Reason: "sign in to add items to the cart"}
	}
	if quantity < 1 {
		return model.CartItem{}, ErrBadQuantity
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return model.CartItem{}, err
	}
	if !p.InStock {
		return model.CartItem{}, ErrOutOfStock
	}
	item, err := s.gw.AddToCart(ctx, sess.AccessToken, productID, quantity)
	if err != nil {
		return model.CartItem{}, err
	}
	s.cache.Invalidate(cartKey(sess.UserID))
	return item, nil
}

// SetQuantity sets the absolute quantity of a cart row. Quantities below one
// are rejected; removal is an explicit Remove.
func (s *CartStore) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	sess := s.session.Current()
	if sess == nil {
		return &gateway.AuthError{Reason: "sign in required"}
	}
	if quantity < 1 {
		return ErrBadQuantity
	}
	if err := s.gw.UpdateCartItem(ctx, sess.AccessToken, itemID, quantity); err != nil {
		return err
	}
	s.cache.Invalidate(cartKey(sess.UserID))
	return nil
}

// Remove deletes a cart row.
func (s *CartStore) Remove(ctx context.Context, itemID string) error {
	sess := s.session.Current()
	if sess == nil {
		return &gateway.AuthError{Reason: "sign in required"}
	}
	if err := s.gw.DeleteCartItem(ctx, sess.AccessToken, itemID); err != nil {
		return err
	}
	s.cache.Invalidate(cartKey(sess.UserID))
	return nil
}
