package main

import (
	"net/http"

	"github.com/icco/pokejournal"
)

// EventRequest records a capture attempt.
type EventRequest struct {
	PlayerID  int64  `json:"playerId" example:"1"`
	GameID    int64  `json:"gameId" example:"1"`
	PokemonID int64  `json:"pokemonId" example:"25"`
	Route     string `json:"route" example:"Route 1"`
	Nickname  string `json:"nickname" example:"Sparky"`
	Status    string `json:"status" example:"Catched"`
	IsShiny   int    `json:"isShiny" example:"0"`
	IsChamp   int    `json:"isChamp" example:"0"`
}

// EventStatusRequest changes an event's status.
type EventStatusRequest struct {
	Status string `json:"status" example:"Defeated"`
}

// EventAttributesRequest changes an event's flags. Both must be 0 or 1.
type EventAttributesRequest struct {
	IsShiny *int `json:"isShiny" example:"1"`
	IsChamp *int `json:"isChamp" example:"0"`
}

// EventResponse wraps a single event.
type EventResponse struct {
	Message string             `json:"message,omitempty"`
	Event   *pokejournal.Event `json:"event"`
}

// EventsResponse wraps a list of events.
type EventsResponse struct {
	Events []pokejournal.Event `json:"events"`
}

// @Summary List events
// @Description Events of your active games, newest first
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param gameId query int false "Only this game"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/events [get]
func (a *api) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	gameID, ok := queryID(r, "gameId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	events, err := a.store.ListEvents(r.Context(), user.ID, gameID)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch events")
		return
	}
	renderJSON(w, http.StatusOK, EventsResponse{Events: events})
}

// @Summary Record an event
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param event body EventRequest true "Event"
// @Success 201 {object} EventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/events [post]
func (a *api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	var req EventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	event, err := a.store.CreateEvent(r.Context(), user.ID, pokejournal.EventInput{
		PlayerID:  req.PlayerID,
		GameID:    req.GameID,
		PokemonID: req.PokemonID,
		Route:     req.Route,
		Nickname:  req.Nickname,
		Status:    req.Status,
		IsShiny:   req.IsShiny,
		IsChamp:   req.IsChamp,
	})
	if err != nil {
		renderStoreError(w, r, err, "Failed to create event")
		return
	}
	renderJSON(w, http.StatusCreated, EventResponse{Message: "Event created successfully", Event: event})
}

// @Summary Events of a game
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param gameId path int true "Game id"
// @Success 200 {object} EventsResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/events/game/{gameId} [get]
func (a *api) gameEventsHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	gameID, ok := pathID(r, "gameId")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	events, err := a.store.GameEvents(r.Context(), user.ID, gameID)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch events")
		return
	}
	renderJSON(w, http.StatusOK, EventsResponse{Events: events})
}

// @Summary Update event status
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event id"
// @Param status body EventStatusRequest true "Status"
// @Success 200 {object} EventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/events/{id}/status [put]
func (a *api) updateEventStatusHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var req EventStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	event, err := a.store.UpdateEventStatus(r.Context(), user.ID, id, req.Status)
	if err != nil {
		renderStoreError(w, r, err, "Failed to update event status")
		return
	}
	renderJSON(w, http.StatusOK, EventResponse{Message: "Status updated successfully", Event: event})
}

// @Summary Update event flags
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event id"
// @Param attributes body EventAttributesRequest true "Flags"
// @Success 200 {object} EventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/events/{id}/attributes [put]
func (a *api) updateEventAttributesHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var req EventAttributesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IsShiny == nil || req.IsChamp == nil {
		renderError(w, http.StatusBadRequest, "Invalid input. 'isShiny' and 'isChamp' must be numbers.")
		return
	}
	event, err := a.store.UpdateEventAttributes(r.Context(), user.ID, id, *req.IsShiny, *req.IsChamp)
	if err != nil {
		renderStoreError(w, r, err, "Failed to update event attributes")
		return
	}
	renderJSON(w, http.StatusOK, EventResponse{Message: "Event attributes updated successfully", Event: event})
}

// @Summary Delete an event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/events/{id} [delete]
func (a *api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := a.store.DeleteEvent(r.Context(), user.ID, id); err != nil {
		renderStoreError(w, r, err, "Failed to delete event")
		return
	}
	renderMessage(w, http.StatusOK, "Event successfully deleted.")
}

// @Summary Restore an event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event id"
// @Success 200 {object} EventResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/events/{id}/restore [post]
func (a *api) restoreEventHandler(w http.ResponseWriter, r *http.Request) {
	user := getMustUserFromContext(r)
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	event, err := a.store.RestoreEvent(r.Context(), user.ID, id)
	if err != nil {
		renderStoreError(w, r, err, "Failed to restore event")
		return
	}
	renderJSON(w, http.StatusOK, EventResponse{Message: "Event restored successfully", Event: event})
}
