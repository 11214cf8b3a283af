package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
)

func TestLikeStore_AnonymousStatus(t *testing.T) {
	e := setup(t)
	p := e.srv.MustSeedProduct(t, model.Product{Title: "Brigade", Price: 890, InStock: true})

	st, err := e.likes.Status(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)
	assert.False(t, st.LikedBy)
}

func TestLikeStore_AnonymousToggleIsRefused(t *testing.T) {
	e := setup(t)
	p := e.srv.MustSeedProduct(t, model.Product{Title: "Brigade", Price: 890, InStock: true})

	_, err := e.likes.Toggle(context.Background(), p.ID)
	var ae *gateway.AuthError
	require.ErrorAs(t, err, &ae)
}

func TestLikeStore_ToggleIsAnInvolution(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.srv.MustSeedProduct(t, model.Product{Title: "Brigade", Price: 890, InStock: true})
	e.srv.MustCreateUser(t, "anna@example.org", "geheim", "Anna", "")
	e.signInAs(t, "anna@example.org", "geheim")

	liked, err := e.likes.Toggle(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	st, err := e.likes.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
	assert.True(t, st.LikedBy)

	liked, err = e.likes.Toggle(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	st, err = e.likes.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)
	assert.False(t, st.LikedBy)
}

func TestLikeStore_AtMostOneRowPerUserAndProduct(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.srv.MustSeedProduct(t, model.Product{Title: "Brigade", Price: 890, InStock: true})
	e.srv.MustCreateUser(t, "anna@example.org", "geheim", "Anna", "")
	e.signInAs(t, "anna@example.org", "geheim")

	for i := 0; i < 4; i++ {
		_, err := e.likes.Toggle(ctx, p.ID)
		require.NoError(t, err)
	}
	// even number of toggles lands back at zero
	st, err := e.likes.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)

	_, err = e.likes.Toggle(ctx, p.ID)
	require.NoError(t, err)
	st, err = e.likes.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
}

func TestLikeStore_ToggleInvalidatesOtherIdentities(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	p := e.srv.MustSeedProduct(t, model.Product{Title: "Brigade", Price: 890, InStock: true})
	e.srv.MustCreateUser(t, "anna@example.org", "geheim", "Anna", "")

	// anonymous view caches a zero total first
	st, err := e.likes.Status(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, st.Total)

	e.signInAs(t, "anna@example.org", "geheim")
	_, err = e.likes.Toggle(ctx, p.ID)
	require.NoError(t, err)
	e.signOut(t)

	st, err = e.likes.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total, "anonymous cached total was flushed by the toggle")
	assert.False(t, st.LikedBy)
}
