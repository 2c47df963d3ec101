package main

import (
	"net/http"

	"github.com/icco/pokejournal"
)

// GameRequest is the body of game create and update calls.
type GameRequest struct {
	Name        string `json:"name" example:"Kanto Nuzlocke"`
	PlayerCount int    `json:"playerCount" example:"2"`
}

func (req GameRequest) input() pokejournal.GameInput {
	return pokejournal.GameInput{Name: req.Name, PlayerCount: req.PlayerCount}
}

// GameResponse wraps a single game.
type GameResponse struct {
	Message string            `json:"message,omitempty"`
	Game    *pokejournal.Game `json:"game"`
}

// GamesResponse wraps a list of games.
type GamesResponse struct {
	Games []pokejournal.Game `json:"games"`
}

// @Summary List games
// @Description Returns your active games with their active players, newest first
// @Tags games
// @Produce json
// @Security CookieAuth
// @Success 200 {object} GamesResponse
// @Failure 401 {object} MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/games [get]
func (a *api) listGamesHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	games, err := a.store.ListGames(r.Context(), user.ID)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch games")
		return
	}
	renderJSON(w, http.StatusOK, GamesResponse{Games: games})
}

// @Summary Create a game
// @Tags games
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param game body GameRequest true "Game"
// @Success 201 {object} GameResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/games [post]
func (a *api) createGameHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	var req GameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	game, err := a.store.CreateGame(r.Context(), user.ID, req.input())
	if err != nil {
		renderStoreError(w, r, err, "Failed to create game")
		return
	}
	renderJSON(w, http.StatusCreated, GameResponse{Message: "Game created successfully", Game: game})
}

// @Summary Get a game
// @Tags games
// @Produce json
// @Security CookieAuth
// @Param id path int true "Game id"
// @Success 200 {object} GameResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/games/{id} [get]
func (a *api) getGameHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	game, err := a.store.GetGame(r.Context(), user.ID, id)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch game")
		return
	}
	renderJSON(w, http.StatusOK, GameResponse{Game: game})
}

// @Summary Update a game
// @Tags games
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Game id"
// @Param game body GameRequest true "Game"
// @Success 200 {object} GameResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/games/{id} [put]
func (a *api) updateGameHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var req GameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	game, err := a.store.UpdateGame(r.Context(), user.ID, id, req.input())
	if err != nil {
		renderStoreError(w, r, err, "Failed to update game")
		return
	}
	renderJSON(w, http.StatusOK, GameResponse{Message: "Game updated successfully", Game: game})
}

// @Summary Delete a game
// @Description Soft-deletes a game; it can be restored later
// @Tags games
// @Produce json
// @Security CookieAuth
// @Param id path int true "Game id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/games/{id} [delete]
func (a *api) deleteGameHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := a.store.DeleteGame(r.Context(), user.ID, id); err != nil {
		renderStoreError(w, r, err, "Failed to delete game")
		return
	}
	renderMessage(w, http.StatusOK, "Game deleted successfully")
}

// @Summary Restore a game
// @Tags games
// @Produce json
// @Security CookieAuth
// @Param id path int true "Game id"
// @Success 200 {object} GameResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/games/{id}/restore [post]
func (a *api) restoreGameHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	game, err := a.store.RestoreGame(r.Context(), user.ID, id)
	if err != nil {
		renderStoreError(w, r, err, "Failed to restore game")
		return
	}
	renderJSON(w, http.StatusOK, GameResponse{Message: "Game restored successfully", Game: game})
}
