package main

import (
	"net/http"
	"strings"

	"github.com/icco/pokejournal"
)

// PokemonRequest is a catalog entry. Total and image keys are derived.
type PokemonRequest struct {
	NationalDex    int     `json:"nationalDex" example:"25"`
	Name           string  `json:"name" example:"Pikachu"`
	Form           string  `json:"form" example:""`
	Type1          string  `json:"type1" example:"Electric"`
	Type2          *string `json:"type2"`
	HP             int     `json:"hp" example:"35"`
	Attack         int     `json:"attack" example:"55"`
	Defense        int     `json:"defense" example:"40"`
	SpecialAttack  int     `json:"specialAttack" example:"50"`
	SpecialDefense int     `json:"specialDefense" example:"50"`
	Speed          int     `json:"speed" example:"90"`
	Generation     int     `json:"generation" example:"1"`
}

func (req PokemonRequest) input() pokejournal.PokemonInput {
	return pokejournal.PokemonInput{
		NationalDex:    req.NationalDex,
		Name:           req.Name,
		Form:           req.Form,
		Type1:          req.Type1,
		Type2:          req.Type2,
		HP:             req.HP,
		Attack:         req.Attack,
		Defense:        req.Defense,
		SpecialAttack:  req.SpecialAttack,
		SpecialDefense: req.SpecialDefense,
		Speed:          req.Speed,
		Generation:     req.Generation,
	}
}

// PokemonResponse wraps a catalog entry.
type PokemonResponse struct {
	Message string               `json:"message,omitempty"`
	Pokemon *pokejournal.Pokemon `json:"pokemon"`
}

// PokemonListResponse wraps the catalog.
type PokemonListResponse struct {
	Pokemons []pokejournal.Pokemon `json:"pokemons"`
}

// @Summary Pokemon catalog
// @Description Active species in national dex order
// @Tags pokemon
// @Produce json
// @Success 200 {object} PokemonListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/pokemon [get]
func (a *api) listPokemonHandler(w http.ResponseWriter, r *http.Request) {
	pokemons, err := a.store.ListPokemon(r.Context())
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch pokemons")
		return
	}
	renderJSON(w, http.StatusOK, PokemonListResponse{Pokemons: pokemons})
}

// @Summary Search the catalog
// @Description Case-insensitive name substring search
// @Tags pokemon
// @Produce json
// @Param searchTerm query string true "Part of the name"
// @Success 200 {array} pokejournal.PokemonMatch
// @Failure 400 {object} ErrorResponse
// @Router /api/pokemon/search [get]
func (a *api) searchPokemonHandler(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("searchTerm"))
	if term == "" {
		renderError(w, http.StatusBadRequest, "searchTerm is required")
		return
	}
	matches, err := a.store.SearchPokemon(r.Context(), term)
	if err != nil {
		renderStoreError(w, r, err, "Failed to search pokemons")
		return
	}
	renderJSON(w, http.StatusOK, matches)
}

// @Summary Get a catalog entry
// @Tags pokemon
// @Produce json
// @Param id path int true "Pokemon id"
// @Success 200 {object} PokemonResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/pokemon/{id} [get]
func (a *api) getPokemonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	p, err := a.store.GetPokemon(r.Context(), id)
	if err != nil {
		renderStoreError(w, r, err, "Failed to fetch pokemon")
		return
	}
	renderJSON(w, http.StatusOK, PokemonResponse{Pokemon: p})
}

// @Summary Add a catalog entry
// @Tags pokemon
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param pokemon body PokemonRequest true "Pokemon"
// @Success 201 {object} PokemonResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/pokemon [post]
func (a *api) createPokemonHandler(w http.ResponseWriter, r *http.Request) {
	var req PokemonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := a.store.CreatePokemon(r.Context(), req.input())
	if err != nil {
		renderStoreError(w, r, err, "Failed to create pokemon")
		return
	}
	renderJSON(w, http.StatusCreated, PokemonResponse{Message: "Pokémon created successfully", Pokemon: p})
}

// @Summary Update a catalog entry
// @Tags pokemon
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Pokemon id"
// @Param pokemon body PokemonRequest true "Pokemon"
// @Success 200 {object} PokemonResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/pokemon/{id} [put]
func (a *api) updatePokemonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	var req PokemonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := a.store.UpdatePokemon(r.Context(), id, req.input())
	if err != nil {
		renderStoreError(w, r, err, "Failed to update pokemon")
		return
	}
	renderJSON(w, http.StatusOK, PokemonResponse{Message: "Pokémon updated successfully", Pokemon: p})
}

// @Summary Delete a catalog entry
// @Tags pokemon
// @Produce json
// @Security CookieAuth
// @Param id path int true "Pokemon id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/pokemon/{id} [delete]
func (a *api) deletePokemonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := a.store.DeletePokemon(r.Context(), id); err != nil {
		renderStoreError(w, r, err, "Failed to delete pokemon")
		return
	}
	renderMessage(w, http.StatusOK, "Pokémon deleted successfully")
}

// @Summary Restore a catalog entry
// @Tags pokemon
// @Produce json
// @Security CookieAuth
// @Param id path int true "Pokemon id"
// @Success 200 {object} PokemonResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/pokemon/{id}/restore [post]
func (a *api) restorePokemonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		renderError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	p, err := a.store.RestorePokemon(r.Context(), id)
	if err != nil {
		renderStoreError(w, r, err, "Failed to restore pokemon")
		return
	}
	renderJSON(w, http.StatusOK, PokemonResponse{Message: "Pokémon restored successfully", Pokemon: p})
}
