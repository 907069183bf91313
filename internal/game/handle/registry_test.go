package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_ZeroIsInvalid(t *testing.T) {
	var h Handle
	assert.False(t, h.IsValid())
	assert.Equal(t, Invalid, h)
	assert.Equal(t, "handle(invalid)", h.String())
}

func TestRegistry_NewIsUnique(t *testing.T) {
	r := NewRegistry()

	seen := make(map[Handle]bool)
	for range 100 {
		h := r.New()
		require.True(t, h.IsValid())
		require.False(t, seen[h], "duplicate handle %s", h)
		seen[h] = true
	}
	assert.Equal(t, 100, r.Len())
}

func TestRegistry_ReleaseIsIdempotent(t *testing.T) {
	r := NewRegistry()
	h := r.New()

	assert.True(t, r.Alive(h))
	assert.True(t, r.Release(h))
	assert.False(t, r.Alive(h))
	assert.False(t, r.Release(h), "second release must be a no-op")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReusedSlotDoesNotReviveStaleHandle(t *testing.T) {
	r := NewRegistry()
	old := r.New()
	require.True(t, r.Release(old))

	fresh := r.New()
	assert.NotEqual(t, old, fresh)
	assert.True(t, r.Alive(fresh))
	assert.False(t, r.Alive(old))

	// Releasing the stale handle must not free the slot now owned by fresh.
	assert.False(t, r.Release(old))
	assert.True(t, r.Alive(fresh))
}

func TestRegistry_ForeignHandle(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	for range 3 {
		a.New()
	}
	h := a.New()

	assert.False(t, b.Alive(h))
	assert.False(t, b.Release(h))
	assert.False(t, b.Alive(Invalid))
}
