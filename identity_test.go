package pokejournal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIdentity(t *testing.T) {
	f, store := newFixture(t)

	u1 := f.user("one@example.com")
	u2 := f.user("two@example.com")

	ash1 := f.player(u1, "Ash")
	ash2 := f.player(u2, "Ash")
	lower := f.player(u2, "ash")
	spaced := f.player(u1, "Ash ")
	misty := f.player(u1, "Misty")
	gone := f.player(u2, "Ash")
	f.softDelete(gone)

	t.Run("aliases across accounts", func(t *testing.T) {
		id, err := store.ResolveIdentity(bg, ash1.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ash", id.Name)
		assert.Equal(t, []int64{ash1.ID, ash2.ID}, id.IDs)
		assert.True(t, id.Contains(ash1.ID))
		assert.False(t, id.Contains(lower.ID))
		assert.False(t, id.Contains(spaced.ID))
		assert.False(t, id.Contains(gone.ID))
	})

	t.Run("symmetric", func(t *testing.T) {
		a, err := store.ResolveIdentity(bg, ash1.ID)
		require.NoError(t, err)
		b, err := store.ResolveIdentity(bg, ash2.ID)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("unique name", func(t *testing.T) {
		id, err := store.ResolveIdentity(bg, misty.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{misty.ID}, id.IDs)
	})

	t.Run("missing player", func(t *testing.T) {
		id, err := store.ResolveIdentity(bg, 999)
		require.NoError(t, err)
		assert.True(t, id.Empty())
	})

	t.Run("deleted player", func(t *testing.T) {
		id, err := store.ResolveIdentity(bg, gone.ID)
		require.NoError(t, err)
		assert.True(t, id.Empty())

		_, err = store.identityFor(bg, gone.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
