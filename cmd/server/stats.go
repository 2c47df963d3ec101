package main

import (
	"net/http"

	"github.com/icco/pokejournal"
)

// @Summary Trainer statistics
// @Description Capture outcome and type counts of a trainer, merged across every player with the same name
// @Tags stats
// @Produce json
// @Security CookieAuth
// @Param playerId path int true "Player id"
// @Param gameId query int false "Only this game"
// @Success 200 {object} pokejournal.TrainerStats
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/players/stats/{playerId} [get]
func (a *api) trainerStatsHandler(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(r, "playerId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	gameID, ok := queryID(r, "gameId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	stats, err := a.store.TrainerStatsFor(r.Context(), playerID, gameID)
	if err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Player not found")
			return
		}
		renderStoreError(w, r, err, "Failed to fetch player stats")
		return
	}
	renderJSON(w, http.StatusOK, stats)
}

// @Summary Per-Pokemon statistics
// @Description One entry per species the trainer has encountered, with showdown battles, wins and MVP counts
// @Tags stats
// @Produce json
// @Security CookieAuth
// @Param playerId path int true "Player id"
// @Success 200 {array} pokejournal.PokemonStat
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/players/stats/pokemon/{playerId} [get]
func (a *api) pokemonStatsHandler(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(r, "playerId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	stats, err := a.store.PokemonStatsFor(r.Context(), playerID)
	recordPokemonStats(r.Context(), "list", err)
	if err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Player not found")
			return
		}
		renderStoreError(w, r, err, "Failed to fetch pokemon stats")
		return
	}
	renderJSON(w, http.StatusOK, stats)
}

// @Summary Pokemon detail for a trainer
// @Description Showdown record, league wins, outcomes and per-game events of one species for a trainer
// @Tags stats
// @Produce json
// @Security CookieAuth
// @Param playerId path int true "Player id"
// @Param pokemonId path int true "Pokemon id"
// @Success 200 {object} pokejournal.PokemonDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/players/{playerId}/pokemon/{pokemonId}/detail [get]
func (a *api) pokemonDetailHandler(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(r, "playerId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	pokemonID, ok := pathID(r, "pokemonId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	detail, err := a.store.PokemonDetailFor(r.Context(), playerID, pokemonID)
	recordPokemonStats(r.Context(), "detail", err)
	if err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Pokemon not found for this player")
			return
		}
		renderStoreError(w, r, err, "Failed to fetch pokemon detail")
		return
	}
	renderJSON(w, http.StatusOK, detail)
}

// DatabaseStatsResponse wraps the row counts.
type DatabaseStatsResponse struct {
	Message string                     `json:"message"`
	Stats   *pokejournal.DatabaseStats `json:"stats"`
}

// @Summary Database statistics
// @Description Counts of active records per table
// @Tags utils
// @Produce json
// @Security CookieAuth
// @Success 200 {object} DatabaseStatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/utils/stats [get]
func (a *api) databaseStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := a.store.Stats(r.Context())
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch database statistics")
		return
	}
	renderJSON(w, http.StatusOK, DatabaseStatsResponse{Message: "Database statistics retrieved successfully", Stats: stats})
}
