package main

import (
	"encoding/json"
	"net/http"

	"github.com/icco/pokejournal"
)

// ShowdownRequest creates a showdown. Event id lists may be sent as arrays
// or as strings holding a serialized array.
type ShowdownRequest struct {
	GameID          int64                    `json:"gameId" example:"1"`
	Player1ID       int64                    `json:"player1Id" example:"1"`
	Player2ID       int64                    `json:"player2Id" example:"2"`
	WinnerID        int64                    `json:"winnerId" example:"1"`
	Player1EventIDs *pokejournal.EventIDList `json:"player1EventIds" swaggertype:"array,integer"`
	Player2EventIDs *pokejournal.EventIDList `json:"player2EventIds" swaggertype:"array,integer"`
	MvpEventID      *int64                   `json:"mvpEventId" example:"3"`
}

// ShowdownUpdateRequest changes the fields that are present. An explicit
// null mvpEventId removes the MVP.
type ShowdownUpdateRequest struct {
	Player1ID       *int64                   `json:"player1Id"`
	Player2ID       *int64                   `json:"player2Id"`
	WinnerID        *int64                   `json:"winnerId"`
	Player1EventIDs *pokejournal.EventIDList `json:"player1EventIds" swaggertype:"array,integer"`
	Player2EventIDs *pokejournal.EventIDList `json:"player2EventIds" swaggertype:"array,integer"`
	MvpEventID      nullableID               `json:"mvpEventId" swaggertype:"integer"`
}

// nullableID tells an absent field apart from an explicit null.
type nullableID struct {
	Set   bool
	Value *int64
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func idsOf(l *pokejournal.EventIDList) pokejournal.EventIDs {
	if l == nil {
		return nil
	}
	if l.IDs == nil {
		return pokejournal.EventIDs{}
	}
	return l.IDs
}

func (req ShowdownUpdateRequest) patch() pokejournal.ShowdownPatch {
	p := pokejournal.ShowdownPatch{
		Player1ID:       req.Player1ID,
		Player2ID:       req.Player2ID,
		WinnerID:        req.WinnerID,
		Player1EventIDs: idsOf(req.Player1EventIDs),
		Player2EventIDs: idsOf(req.Player2EventIDs),
	}
	if req.MvpEventID.Set {
		if req.MvpEventID.Value == nil {
			p.ClearMvp = true
		} else {
			p.MvpEventID = req.MvpEventID.Value
		}
	}
	return p
}

// ShowdownResponse wraps a single showdown.
type ShowdownResponse struct {
	Message  string                `json:"message"`
	Showdown *pokejournal.Showdown `json:"showdown,omitempty"`
}

// @Summary Matchup board of a game
// @Description Every pair of players in the game with points (defeated penalty plus win bonus) and their showdowns, newest first
// @Tags showdowns
// @Produce json
// @Security CookieAuth
// @Param gameId path int true "Game id"
// @Success 200 {object} pokejournal.MatchupBoard
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/showdowns/game/{gameId} [get]
func (a *api) listShowdownsHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	gameID, ok := pathID(r, "gameId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	board, err := a.store.BuildMatchups(r.Context(), gameID, user.ID)
	recordMatchups(r.Context(), err)
	if err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Game not found")
			return
		}
		renderStoreError(w, r, err, "Failed to fetch showdowns")
		return
	}
	renderJSON(w, http.StatusOK, board)
}

// @Summary Record a showdown
// @Tags showdowns
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param showdown body ShowdownRequest true "Showdown"
// @Success 201 {object} ShowdownResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/showdowns [post]
func (a *api) createShowdownHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	var req ShowdownRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sd, err := a.store.CreateShowdown(r.Context(), user.ID, pokejournal.ShowdownInput{
		GameID:          req.GameID,
		Player1ID:       req.Player1ID,
		Player2ID:       req.Player2ID,
		WinnerID:        req.WinnerID,
		Player1EventIDs: idsOf(req.Player1EventIDs),
		Player2EventIDs: idsOf(req.Player2EventIDs),
		MvpEventID:      req.MvpEventID,
	})
	if err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Game not found")
			return
		}
		renderStoreError(w, r, err, "Failed to create showdown")
		return
	}
	renderJSON(w, http.StatusCreated, ShowdownResponse{Message: "Showdown created", Showdown: sd})
}

// @Summary Update a showdown
// @Tags showdowns
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Showdown id"
// @Param showdown body ShowdownUpdateRequest true "Fields to change"
// @Success 200 {object} ShowdownResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/showdowns/{id} [put]
func (a *api) updateShowdownHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var req ShowdownUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sd, err := a.store.UpdateShowdown(r.Context(), user.ID, id, req.patch())
	if err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Showdown not found")
			return
		}
		renderStoreError(w, r, err, "Failed to update showdown")
		return
	}
	renderJSON(w, http.StatusOK, ShowdownResponse{Message: "Showdown updated", Showdown: sd})
}

// @Summary Delete a showdown
// @Tags showdowns
// @Produce json
// @Security CookieAuth
// @Param id path int true "Showdown id"
// @Success 200 {object} ShowdownResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/showdowns/{id} [delete]
func (a *api) deleteShowdownHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := a.store.DeleteShowdown(r.Context(), user.ID, id); err != nil {
		if pokejournal.IsNotFound(err) {
			renderError(w, http.StatusNotFound, "Showdown not found")
			return
		}
		renderStoreError(w, r, err, "Failed to delete showdown")
		return
	}
	renderJSON(w, http.StatusOK, ShowdownResponse{Message: "Showdown deleted"})
}
