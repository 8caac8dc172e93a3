package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/category"
	"github.com/MrJamesThe3rd/folio/internal/category/store"
	"github.com/MrJamesThe3rd/folio/internal/database/dbtest"
)

func TestStore_CreateAndList(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	for _, name := range []string{"kite", "coin", "DCX"} {
		require.NoError(t, s.CreateCategory(ctx, &category.Category{Name: name}))
	}

	got, err := s.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Postgres collation decides the order; it must at least be stable by name.
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.ElementsMatch(t, []string{"kite", "coin", "DCX"}, names)

	for _, c := range got {
		assert.True(t, c.Active)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Empty(t, c.Description)
	}
}

func TestStore_DuplicateNameIncludesInactive(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)
	ctx := context.Background()

	coin := &category.Category{Name: "coin", Description: "x"}
	require.NoError(t, s.CreateCategory(ctx, coin))

	err := s.CreateCategory(ctx, &category.Category{Name: "coin", Description: "y"})
	assert.ErrorIs(t, err, category.ErrDuplicateName)

	require.NoError(t, s.Deactivate(ctx, coin.ID))

	err = s.CreateCategory(ctx, &category.Category{Name: "coin"})
	assert.ErrorIs(t, err, category.ErrDuplicateName)

	// Case-sensitive: a different spelling is a different category.
	assert.NoError(t, s.CreateCategory(ctx, &category.Category{Name: "Coin"}))

	active, err := s.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Coin", active[0].Name)
}

func TestStore_DeactivateUnknownIsNoop(t *testing.T) {
	db := dbtest.Open(t)
	s := store.New(db)

	assert.NoError(t, s.Deactivate(context.Background(), 9999))
}
