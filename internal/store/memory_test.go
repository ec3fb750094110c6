package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissingKey(t *testing.T) {
	m := NewMemory()

	_, version, ok, err := m.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, version)
}

func TestMemory_PutAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", []byte(`{"a":1}`), 0))

	data, version, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, version)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestMemory_VersionConflict(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", []byte(`1`), 0))

	t.Run("stale version rejected", func(t *testing.T) {
		err := m.Put(ctx, "k", []byte(`2`), 0)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("current version accepted", func(t *testing.T) {
		require.NoError(t, m.Put(ctx, "k", []byte(`2`), 1))
		data, version, ok, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 2, version)
		assert.Equal(t, "2", string(data))
	})

	t.Run("two writers from the same read", func(t *testing.T) {
		_, version, _, err := m.Get(ctx, "k")
		require.NoError(t, err)

		require.NoError(t, m.Put(ctx, "k", []byte(`3`), version))
		// The second writer read the same version; its write must lose
		// loudly instead of silently overwriting.
		err = m.Put(ctx, "k", []byte(`4`), version)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})
}

func TestJSONHelpers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type rec struct {
		Name string `json:"name"`
	}

	missing, _, ok, err := GetJSON[rec](ctx, m, "r")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, missing)

	require.NoError(t, PutJSON(ctx, m, "r", rec{Name: "asha"}, 0))
	got, version, ok, err := GetJSON[rec](ctx, m, "r")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, version)
	assert.Equal(t, "asha", got.Name)
}
