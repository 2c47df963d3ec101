package main

import (
	"net/http"

	"github.com/icco/pokejournal"
)

// PlayerRequest is the body of player create and update calls.
type PlayerRequest struct {
	Name      string `json:"name" example:"Ash"`
	PokemonID *int64 `json:"pokemonId" example:"25"`
}

func (req PlayerRequest) input() pokejournal.PlayerInput {
	return pokejournal.PlayerInput{Name: req.Name, PokemonID: req.PokemonID}
}

// PlayerResponse wraps a single player.
type PlayerResponse struct {
	Message string              `json:"message,omitempty"`
	Player  *pokejournal.Player `json:"player"`
}

// @Summary List players
// @Description With scope=account returns your own players. Otherwise returns every active player, one per name.
// @Tags players
// @Produce json
// @Security CookieAuth
// @Param scope query string false "account"
// @Success 200 {array} pokejournal.Player
// @Failure 500 {object} ErrorResponse
// @Router /api/players [get]
func (a *api) listPlayersHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	accountOnly := ugcPolicy.Sanitize(r.URL.Query().Get("scope")) == "account"

	players, err := a.store.ListPlayers(r.Context(), user.ID, accountOnly)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch players")
		return
	}
	renderJSON(w, http.StatusOK, players)
}

// @Summary Create a player
// @Tags players
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param player body PlayerRequest true "Player"
// @Success 201 {object} PlayerResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/players [post]
func (a *api) createPlayerHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	var req PlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, err := a.store.CreatePlayer(r.Context(), user.ID, req.input())
	if err != nil {
		renderStoreError(w, r, err, "Failed to create player")
		return
	}
	renderJSON(w, http.StatusCreated, PlayerResponse{Message: "Player created successfully", Player: player})
}

// @Summary Update a player
// @Tags players
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Player id"
// @Param player body PlayerRequest true "Player"
// @Success 200 {object} PlayerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/players/{id} [put]
func (a *api) updatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var req PlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, err := a.store.UpdatePlayer(r.Context(), user.ID, id, req.input())
	if err != nil {
		renderStoreError(w, r, err, "Failed to update player")
		return
	}
	renderJSON(w, http.StatusOK, PlayerResponse{Message: "Player updated successfully", Player: player})
}

// @Summary Delete a player
// @Tags players
// @Produce json
// @Security CookieAuth
// @Param id path int true "Player id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/players/{id} [delete]
func (a *api) deletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := a.store.DeletePlayer(r.Context(), user.ID, id); err != nil {
		renderStoreError(w, r, err, "Failed to delete player")
		return
	}
	renderMessage(w, http.StatusOK, "Player deleted successfully")
}

// @Summary Restore a player
// @Tags players
// @Produce json
// @Security CookieAuth
// @Param id path int true "Player id"
// @Success 200 {object} PlayerResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/players/{id}/restore [post]
func (a *api) restorePlayerHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	player, err := a.store.RestorePlayer(r.Context(), user.ID, id)
	if err != nil {
		renderStoreError(w, r, err, "Failed to restore player")
		return
	}
	renderJSON(w, http.StatusOK, PlayerResponse{Message: "Player restored successfully", Player: player})
}

// PlayerGameRequest links a player to a game.
type PlayerGameRequest struct {
	PlayerID int64 `json:"playerId" example:"1"`
	GameID   int64 `json:"gameId" example:"1"`
}

// PlayerGameResponse wraps a new link.
type PlayerGameResponse struct {
	Message    string                  `json:"message"`
	PlayerGame *pokejournal.PlayerGame `json:"playerGame"`
}

// GamePlayersResponse lists the players of a game.
type GamePlayersResponse struct {
	Players []pokejournal.PlayerGame `json:"players"`
}

// @Summary Link a player to a game
// @Tags player-games
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param link body PlayerGameRequest true "Link"
// @Success 201 {object} PlayerGameResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/player-games [post]
func (a *api) linkPlayerHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	var req PlayerGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PlayerID <= 0 || req.GameID <= 0 {
		renderError(w, http.StatusBadRequest, "playerId and gameId are required")
		return
	}
	pg, err := a.store.LinkPlayer(r.Context(), user.ID, req.PlayerID, req.GameID)
	if err != nil {
		renderStoreError(w, r, err, "Failed to link player to game")
		return
	}
	renderJSON(w, http.StatusCreated, PlayerGameResponse{Message: "Player linked to game successfully", PlayerGame: pg})
}

// @Summary Players of a game
// @Tags player-games
// @Produce json
// @Security CookieAuth
// @Param gameId path int true "Game id"
// @Success 200 {object} GamePlayersResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/player-games/{gameId} [get]
func (a *api) gamePlayersHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	gameID, ok := pathID(r, "gameId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	links, err := a.store.GamePlayers(r.Context(), user.ID, gameID)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch players of game")
		return
	}
	renderJSON(w, http.StatusOK, GamePlayersResponse{Players: links})
}

// @Summary Remove a player from a game
// @Tags player-games
// @Produce json
// @Security CookieAuth
// @Param playerId path int true "Player id"
// @Param gameId path int true "Game id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/player-games/{playerId}/{gameId} [delete]
func (a *api) unlinkPlayerHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	playerID, ok := pathID(r, "playerId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	gameID, ok := pathID(r, "gameId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := a.store.UnlinkPlayer(r.Context(), user.ID, playerID, gameID); err != nil {
		renderStoreError(w, r, err, "Failed to remove player from game")
		return
	}
	renderMessage(w, http.StatusOK, "Player removed from game successfully")
}
