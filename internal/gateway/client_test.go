package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/gatewaytest"
	"kunstgalerie/internal/model"
)

func newClient(t *testing.T) (*gateway.Client, *gatewaytest.Server) {
	t.Helper()
	srv := gatewaytest.New(t)
	gw, err := gateway.New(srv.URL, gatewaytest.APIKey, nil)
	require.NoError(t, err)
	return gw, srv
}

func TestNew_RequiresURLAndKey(t *testing.T) {
	_, err := gateway.New("", "key", nil)
	assert.Error(t, err)
	_, err = gateway.New("http://localhost", "", nil)
	assert.Error(t, err)
}

func TestClient_WrongAPIKeyIsAuthError(t *testing.T) {
	srv := gatewaytest.New(t)
	gw, err := gateway.New(srv.URL, "not-the-key", nil)
	require.NoError(t, err)

	_, err = gw.Products(context.Background())
	var ae *gateway.AuthError
	require.ErrorAs(t, err, &ae)
}

func TestClient_AuthFlow(t *testing.T) {
	gw, _ := newClient(t)
	ctx := context.Background()

	sess, err := gw.SignUp(ctx, "kurt@example.org", "geheim123", "Kurt", "Weber")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.UserID)
	assert.Equal(t, "kurt@example.org", sess.Email)
	assert.NotEmpty(t, sess.AccessToken)
	assert.False(t, sess.Expired())

	t.Run("duplicate signup is an auth error", func(t *testing.T) {
		_, err := gw.SignUp(ctx, "kurt@example.org", "geheim123", "", "")
		var ae *gateway.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, ae.Reason, "already registered")
	})

	t.Run("sign in with wrong password is an auth error", func(t *testing.T) {
		_, err := gw.SignIn(ctx, "kurt@example.org", "falsch")
		var ae *gateway.AuthError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, ae.Reason, "Invalid login credentials")
	})

	t.Run("sign in returns a fresh session", func(t *testing.T) {
		again, err := gw.SignIn(ctx, "kurt@example.org", "geheim123")
		require.NoError(t, err)
		assert.Equal(t, sess.UserID, again.UserID)
	})

	require.NoError(t, gw.SignOut(ctx, sess.AccessToken))
}

func TestClient_AuthTransportFailureIsAuthError(t *testing.T) {
	srv := gatewaytest.New(t)
	gw, err := gateway.New(srv.URL, gatewaytest.APIKey, nil)
	require.NoError(t, err)
	// a dead endpoint: the session cannot be changed, whatever the cause
	srv.Close()

	_, err = gw.SignIn(context.Background(), "kurt@example.org", "geheim123")
	var ae *gateway.AuthError
	require.ErrorAs(t, err, &ae)

	_, err = gw.SignUp(context.Background(), "kurt@example.org", "geheim123", "", "")
	require.ErrorAs(t, err, &ae)
}

func TestClient_ForbiddenIsDistinctFromAuth(t *testing.T) {
	gw, srv := newClient(t)
	ctx := context.Background()
	srv.MustCreateUser(t, "kunde@example.org", "geheim", "Kunde", "")

	sess, err := gw.SignIn(ctx, "kunde@example.org", "geheim")
	require.NoError(t, err)

	// signed in but unprivileged: 403 carries its own type
	_, err = gw.InsertProduct(ctx, sess.AccessToken, model.ProductInput{Title: "Neu", Artist: "X", Price: 1})
	var fe *gateway.ForbiddenError
	require.ErrorAs(t, err, &fe)
	var ae *gateway.AuthError
	assert.False(t, errors.As(err, &ae))

	// no token at all stays an auth error
	_, err = gw.InsertProduct(ctx, "", model.ProductInput{Title: "Neu", Artist: "X", Price: 1})
	require.ErrorAs(t, err, &ae)
}

func TestClient_ProductsNewestFirstWithImages(t *testing.T) {
	gw, srv := newClient(t)
	ctx := context.Background()

	older := srv.MustSeedProduct(t, model.Product{Title: "Alt", InStock: true})
	newer := srv.MustSeedProduct(t, model.Product{
		Title: "Neu", InStock: true,
		Images: []model.ProductImage{
			{ImageRef: "neu-side.jpg"},
			{ImageRef: "neu-front.jpg", IsPrimary: true},
		},
	})

	products, err := gw.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, newer.ID, products[0].ID)
	assert.Equal(t, older.ID, products[1].ID)

	require.Len(t, products[0].Images, 2)
	img, ok := products[0].PrimaryImage()
	require.True(t, ok)
	assert.Equal(t, "neu-front.jpg", img.ImageRef)
}

func TestClient_ProductByID(t *testing.T) {
	gw, srv := newClient(t)
	ctx := context.Background()
	seeded := srv.MustSeedProduct(t, model.Product{Title: "Brigade", Price: 890, InStock: true})

	p, err := gw.Product(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brigade", p.Title)

	_, err = gw.Product(ctx, "no-such-id")
	var nf *gateway.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "no-such-id", nf.ID)
}

func TestClient_MutationsRequireToken(t *testing.T) {
	gw, srv := newClient(t)
	ctx := context.Background()
	p := srv.MustSeedProduct(t, model.Product{Title: "Neu", InStock: true})

	_, err := gw.AddToCart(ctx, "", p.ID, 1)
	var ae *gateway.AuthError
	require.ErrorAs(t, err, &ae)

	err = gw.InsertLike(ctx, "", "someone", p.ID)
	require.ErrorAs(t, err, &ae)
}

func TestClient_HasRole(t *testing.T) {
	gw, srv := newClient(t)
	ctx := context.Background()
	id := srv.MustCreateUser(t, "a@example.org", "pw", "A", "")

	isAdmin, err := gw.HasRole(ctx, "", id, model.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	srv.MustMakeAdmin(t, id)
	isAdmin, err = gw.HasRole(ctx, "", id, model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}
