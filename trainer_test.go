package pokejournal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainerStats(t *testing.T) {
	w := newStatsWorld(t)
	starter := w.f.pokemon("Bulbasaur", "Grass", ptr("Poison"))
	require.NoError(t, w.f.db.Model(w.ash5).Update("pokemon_id", starter.ID).Error)

	charizard := w.f.pokemon("Charizard", "Fire", ptr("Flying"))
	weird := w.f.pokemon("Missingno", "Bird", ptr("???"))

	w.f.event(w.ash5, w.g1, w.pikachu, StatusCaught, 1)
	w.f.event(w.ash5, w.g1, charizard, StatusDefeated, 0)
	w.f.event(w.ash9, w.g2, charizard, StatusRunAway, 1)
	w.f.event(w.ash9, w.g2, weird, StatusCaught, 0)
	w.f.event(w.gary, w.g1, w.eevee, StatusCaught, 0)

	stats, err := w.store.TrainerStatsFor(bg, w.ash9.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "Ash", stats.PlayerName)
	require.NotNil(t, stats.Pokemon)
	assert.Equal(t, "Bulbasaur", stats.Pokemon.Name)
	assert.Equal(t, 2, stats.Caught)
	assert.Equal(t, 1, stats.Runaway)
	assert.Equal(t, 1, stats.Defeated)
	assert.Equal(t, 2, stats.Shiny)

	assert.Len(t, stats.TypeCounts, len(PokemonTypes))
	assert.Equal(t, 1, stats.TypeCounts["Electric"])
	assert.Equal(t, 2, stats.TypeCounts["Fire"])
	assert.Equal(t, 2, stats.TypeCounts["Flying"])
	assert.Equal(t, 0, stats.TypeCounts["Normal"])
	assert.NotContains(t, stats.TypeCounts, "Bird")

	byGame, err := w.store.TrainerStatsFor(bg, w.ash5.ID, &w.g1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, byGame.Caught)
	assert.Equal(t, 1, byGame.Defeated)
	assert.Equal(t, 0, byGame.Runaway)
	assert.Equal(t, 1, byGame.Shiny)

	_, err = w.store.TrainerStatsFor(bg, 999, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
