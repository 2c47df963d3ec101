package pokejournal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowdownInputValidate(t *testing.T) {
	valid := ShowdownInput{
		GameID: 1, Player1ID: 2, Player2ID: 3, WinnerID: 2,
		Player1EventIDs: EventIDs{10}, Player2EventIDs: EventIDs{20, 21},
	}
	require.NoError(t, valid.validate())

	tests := map[string]func(in *ShowdownInput){
		"missing game":     func(in *ShowdownInput) { in.GameID = 0 },
		"missing winner":   func(in *ShowdownInput) { in.WinnerID = 0 },
		"missing team":     func(in *ShowdownInput) { in.Player2EventIDs = nil },
		"empty team":       func(in *ShowdownInput) { in.Player1EventIDs = EventIDs{} },
		"team of seven":    func(in *ShowdownInput) { in.Player1EventIDs = EventIDs{1, 2, 3, 4, 5, 6, 7} },
		"same players":     func(in *ShowdownInput) { in.Player2ID = in.Player1ID },
		"outside winner":   func(in *ShowdownInput) { in.WinnerID = 99 },
		"mvp not on teams": func(in *ShowdownInput) { in.MvpEventID = ptr(int64(30)) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			err := in.validate()
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	six := valid
	six.Player1EventIDs = EventIDs{1, 2, 3, 4, 5, 6}
	six.MvpEventID = ptr(int64(6))
	assert.NoError(t, six.validate())
}

func TestShowdownLifecycle(t *testing.T) {
	w := newMatchupWorld(t)
	ea := w.f.event(w.a, w.game, w.pk, StatusCaught, 0)
	eb := w.f.event(w.b, w.game, w.pk, StatusCaught, 0)
	eb2 := w.f.event(w.b, w.game, w.pk, StatusCaught, 0)

	in := ShowdownInput{
		GameID:          w.game.ID,
		Player1ID:       w.a.ID,
		Player2ID:       w.b.ID,
		WinnerID:        w.b.ID,
		Player1EventIDs: EventIDs{ea.ID},
		Player2EventIDs: EventIDs{eb.ID},
		MvpEventID:      &eb.ID,
	}

	sd, err := w.store.CreateShowdown(bg, w.owner.ID, in)
	require.NoError(t, err)
	assert.Equal(t, EventIDs{ea.ID}.String(), sd.Player1EventIDs)
	require.NotNil(t, sd.MvpEvent)
	require.NotNil(t, sd.MvpEvent.Pokemon)
	assert.Equal(t, "Pikachu", sd.MvpEvent.Pokemon.Name)
	require.NotNil(t, sd.Player1)
	assert.Equal(t, "A", sd.Player1.Name)

	t.Run("foreign game", func(t *testing.T) {
		other := w.f.user("other@example.com")
		_, err := w.store.CreateShowdown(bg, other.ID, in)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = w.store.UpdateShowdown(bg, other.ID, sd.ID, ShowdownPatch{WinnerID: &w.a.ID})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, w.store.DeleteShowdown(bg, other.ID, sd.ID), ErrNotFound)
	})

	t.Run("unknown player", func(t *testing.T) {
		bad := in
		bad.Player2ID = 999
		bad.WinnerID = 999
		_, err := w.store.CreateShowdown(bg, w.owner.ID, bad)
		assert.True(t, IsValidation(err))
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := w.store.UpdateShowdown(bg, w.owner.ID, sd.ID, ShowdownPatch{
			WinnerID:        &w.a.ID,
			Player2EventIDs: EventIDs{eb.ID, eb2.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, w.a.ID, updated.WinnerID)
		assert.Equal(t, EventIDs{eb.ID, eb2.ID}.String(), updated.Player2EventIDs)
		require.NotNil(t, updated.MvpEventID)
		assert.Equal(t, eb.ID, *updated.MvpEventID)
	})

	t.Run("winner must stay in pair", func(t *testing.T) {
		_, err := w.store.UpdateShowdown(bg, w.owner.ID, sd.ID, ShowdownPatch{WinnerID: ptr(int64(999))})
		assert.True(t, IsValidation(err))
	})

	t.Run("clear mvp", func(t *testing.T) {
		updated, err := w.store.UpdateShowdown(bg, w.owner.ID, sd.ID, ShowdownPatch{ClearMvp: true})
		require.NoError(t, err)
		assert.Nil(t, updated.MvpEventID)
		assert.Nil(t, updated.MvpEvent)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, w.store.DeleteShowdown(bg, w.owner.ID, sd.ID))
		assert.ErrorIs(t, w.store.DeleteShowdown(bg, w.owner.ID, sd.ID), ErrNotFound)

		board, err := w.store.BuildMatchups(bg, w.game.ID, w.owner.ID)
		require.NoError(t, err)
		assert.Empty(t, board.Matchups[0].Showdowns)
	})
}
