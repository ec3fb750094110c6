package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuelife/portal/internal/store"
)

func newSeeded(t *testing.T) *Service {
	t.Helper()
	s := NewService(store.NewMemory(), nil)
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func TestSeed(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	p, ok, err := s.Get(ctx, "prod1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "PH Alkaline Water Filter", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("199.99")))
	assert.True(t, p.CommissionRate.Equal(decimal.NewFromInt(15)))

	// Seeding again must not clobber.
	require.NoError(t, s.Seed(ctx))
	all, err = s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestActiveFiltersDisabled(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	p, ok, err := s.Get(ctx, "prod2")
	require.NoError(t, err)
	require.True(t, ok)
	p.Active = false
	_, err = s.Update(ctx, p)
	require.NoError(t, err)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, p := range active {
		assert.NotEqual(t, "prod2", p.ID)
	}
}

func TestAdd(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	p, err := s.Add(ctx, Product{
		Name:           "Herbal Tea Pack",
		Price:          decimal.RequireFromString("49.50"),
		CommissionRate: decimal.NewFromInt(10),
		Active:         true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedDate.IsZero())

	got, ok, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("49.50")))

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := s.Add(ctx, Product{Price: decimal.NewFromInt(10)})
		assert.Error(t, err)
	})
	t.Run("rejects non-positive price", func(t *testing.T) {
		_, err := s.Add(ctx, Product{Name: "Free Stuff", Price: decimal.Zero})
		assert.Error(t, err)
	})
}

func TestUpdateUnknownProduct(t *testing.T) {
	s := newSeeded(t)
	_, err := s.Update(context.Background(), Product{ID: "ghost", Name: "X", Price: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	s := newSeeded(t)
	ctx := context.Background()

	deleted, err := s.Delete(ctx, "prod3")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok, err := s.Get(ctx, "prod3")
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err = s.Delete(ctx, "prod3")
	require.NoError(t, err)
	assert.False(t, deleted)
}
