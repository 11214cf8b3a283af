package offline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kunstgalerie/internal/model"
)

func openTemp(t *testing.T) *Snapshot {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshot_SaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	yr := 1974
	in := []model.Product{
		{
			ID: "p1", Title: "Werktätige", Artist: "Heinz M.", Price: 420.50,
			Description: "Öl auf Leinwand", Year: &yr, Dimensions: "80x60",
			Technique: "Öl", Category: "Malerei", InStock: true,
			Images: []model.ProductImage{
				{ID: "i1", ProductID: "p1", ImageRef: "front.jpg", IsPrimary: true},
				{ID: "i2", ProductID: "p1", ImageRef: "detail.jpg"},
			},
		},
		{ID: "p2", Title: "Ohne Titel", Price: 60, InStock: false},
	}

	require.NoError(t, s.SaveProducts(in))
	out, err := s.LoadProducts()
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "p1", out[0].ID, "saved order is preserved")
	assert.Equal(t, 420.50, out[0].Price)
	require.NotNil(t, out[0].Year)
	assert.Equal(t, 1974, *out[0].Year)
	require.Len(t, out[0].Images, 2)
	assert.Equal(t, "front.jpg", out[0].Images[0].ImageRef)
	assert.True(t, out[0].Images[0].IsPrimary)

	assert.Equal(t, "p2", out[1].ID)
	assert.Nil(t, out[1].Year)
	assert.False(t, out[1].InStock)
	assert.Empty(t, out[1].Images)
}

func TestSnapshot_SaveReplacesPreviousCatalog(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SaveProducts([]model.Product{
		{ID: "old", Title: "Alt", Price: 1, Images: []model.ProductImage{{ID: "oi", ProductID: "old", ImageRef: "x.jpg"}}},
	}))
	require.NoError(t, s.SaveProducts([]model.Product{
		{ID: "new", Title: "Neu", Price: 2},
	}))

	out, err := s.LoadProducts()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].ID)
}

func TestSnapshot_SyncedAt(t *testing.T) {
	s := openTemp(t)

	ts, err := s.SyncedAt()
	require.NoError(t, err)
	assert.True(t, ts.IsZero(), "empty snapshot has no sync time")

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.SaveProducts(nil))
	ts, err = s.SyncedAt()
	require.NoError(t, err)
	assert.True(t, ts.After(before))
}

func TestSnapshot_EmptyCatalogLoadsEmpty(t *testing.T) {
	s := openTemp(t)
	out, err := s.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
