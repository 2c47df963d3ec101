package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/icco/pokejournal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "connect to test database")

	// Every pooled connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, pokejournal.AutoMigrate(db))

	store := pokejournal.NewStore(db)
	a := &api{
		store: store,
		auth:  newAuthenticator(store, "test-secret", false, newMemoryRevoker()),
	}
	return a.routes(&options{
		AllowedOrigins: []string{"http://localhost:5173"},
		Env:            "development",
	}, http.NotFoundHandler())
}

// testClient keeps the session cookie between requests.
type testClient struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
	bearer  string
}

// do sends body as JSON, or verbatim when it is a string, and decodes the
// response into out when out is not nil.
func (c *testClient) do(method, path string, body any, out any) int {
	c.t.Helper()

	var r io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)

	if out != nil {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), out), "decode %s %s: %s", method, path, rr.Body.String())
	}
	return rr.Code
}

// login registers email and starts a session for it.
func login(t *testing.T, h http.Handler, email string) (*testClient, LoginResponse) {
	t.Helper()
	c := &testClient{t: t, h: h}

	require.Equal(t, http.StatusCreated, c.do("POST", "/api/auth/signup", SignupRequest{
		Email: email, Password: "pikachu1", FirstName: "Ash", LastName: "Ketchum",
	}, nil))

	body, err := json.Marshal(LoginRequest{Email: email, Password: "pikachu1"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	c.cookies = rr.Result().Cookies()
	require.NotEmpty(t, c.cookies, "login sets the session cookie")
	return c, resp
}

func TestAuthFlow(t *testing.T) {
	h := setupTestAPI(t)
	anon := &testClient{t: t, h: h}

	var msg MessageResponse
	assert.Equal(t, http.StatusUnauthorized, anon.do("GET", "/api/auth/me", nil, &msg))
	assert.Equal(t, "Authentication required", msg.Message)

	c, resp := login(t, h, "ash@example.com")
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)

	var me UserResponse
	require.Equal(t, http.StatusOK, c.do("GET", "/api/auth/me", nil, &me))
	assert.Equal(t, "ash@example.com", me.User.Email)

	t.Run("duplicate signup", func(t *testing.T) {
		var msg MessageResponse
		code := anon.do("POST", "/api/auth/signup", SignupRequest{
			Email: "ASH@example.com", Password: "pikachu1", FirstName: "Ash", LastName: "Ketchum",
		}, &msg)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.NotEmpty(t, msg.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		code := anon.do("POST", "/api/auth/login", LoginRequest{Email: "ash@example.com", Password: "nope-nope"}, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("bearer token", func(t *testing.T) {
		b := &testClient{t: t, h: h, bearer: resp.Token}
		assert.Equal(t, http.StatusOK, b.do("GET", "/api/auth/me", nil, nil))
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		require.Equal(t, http.StatusOK, c.do("POST", "/api/auth/logout", nil, nil))
		assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/api/auth/me", nil, nil))

		b := &testClient{t: t, h: h, bearer: resp.Token}
		assert.Equal(t, http.StatusUnauthorized, b.do("GET", "/api/games", nil, nil))
	})
}

// journal is a game with two linked players who have met once.
type journal struct {
	pokemon   int64
	game      int64
	ash       int64
	gary      int64
	ashEvent  int64
	garyEvent int64
	showdown  int64
}

func seedJournal(t *testing.T, c *testClient) journal {
	t.Helper()
	var j journal

	var pk PokemonResponse
	require.Equal(t, http.StatusCreated, c.do("POST", "/api/pokemon", PokemonRequest{
		NationalDex: 25, Name: "Pikachu", Type1: "Electric", HP: 35, Attack: 55, Defense: 40,
		SpecialAttack: 50, SpecialDefense: 50, Speed: 90, Generation: 1,
	}, &pk))
	j.pokemon = pk.Pokemon.ID
	assert.Equal(t, 320, pk.Pokemon.Total)
	assert.Equal(t, "pikachu", pk.Pokemon.Image)

	var g GameResponse
	require.Equal(t, http.StatusCreated, c.do("POST", "/api/games", GameRequest{Name: "Kanto", PlayerCount: 2}, &g))
	j.game = g.Game.ID

	for _, p := range []struct {
		name string
		id   *int64
	}{{"Ash", &j.ash}, {"Gary", &j.gary}} {
		var pr PlayerResponse
		require.Equal(t, http.StatusCreated, c.do("POST", "/api/players", PlayerRequest{Name: p.name}, &pr))
		*p.id = pr.Player.ID
		require.Equal(t, http.StatusCreated, c.do("POST", "/api/player-games", PlayerGameRequest{PlayerID: pr.Player.ID, GameID: j.game}, nil))
	}

	var ev EventResponse
	require.Equal(t, http.StatusCreated, c.do("POST", "/api/events", EventRequest{
		PlayerID: j.ash, GameID: j.game, PokemonID: j.pokemon, Route: "Route 1", IsShiny: 1,
	}, &ev))
	j.ashEvent = ev.Event.ID
	assert.Equal(t, pokejournal.StatusCaught, ev.Event.Status)

	require.Equal(t, http.StatusCreated, c.do("POST", "/api/events", EventRequest{
		PlayerID: j.gary, GameID: j.game, PokemonID: j.pokemon, Status: pokejournal.StatusDefeated,
	}, &ev))
	j.garyEvent = ev.Event.ID

	// Event id lists may also arrive as serialized strings.
	body := fmt.Sprintf(`{"gameId":%d,"player1Id":%d,"player2Id":%d,"winnerId":%d,"player1EventIds":[%d],"player2EventIds":"[%d]","mvpEventId":%d}`,
		j.game, j.ash, j.gary, j.ash, j.ashEvent, j.garyEvent, j.ashEvent)
	var sd ShowdownResponse
	require.Equal(t, http.StatusCreated, c.do("POST", "/api/showdowns", body, &sd))
	j.showdown = sd.Showdown.ID
	require.NotNil(t, sd.Showdown.MvpEventID)

	return j
}

func TestGamesAPI(t *testing.T) {
	h := setupTestAPI(t)
	c, _ := login(t, h, "ash@example.com")
	j := seedJournal(t, c)

	var games GamesResponse
	require.Equal(t, http.StatusOK, c.do("GET", "/api/games", nil, &games))
	require.Len(t, games.Games, 1)

	var g GameResponse
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/games/%d", j.game), nil, &g))
	assert.Len(t, g.Game.PlayerGames, 2)

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/games/abc", nil, &e))
	assert.Equal(t, "Invalid request", e.Error)
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/games", "{not json", nil))
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/games", GameRequest{Name: " "}, nil))

	t.Run("other accounts", func(t *testing.T) {
		misty, _ := login(t, h, "misty@example.com")
		path := fmt.Sprintf("/api/games/%d", j.game)

		assert.Equal(t, http.StatusNotFound, misty.do("GET", path, nil, nil))

		var e ErrorResponse
		assert.Equal(t, http.StatusForbidden, misty.do("PUT", path, GameRequest{Name: "Mine"}, &e))
		assert.Equal(t, "Access denied", e.Error)
		assert.Equal(t, http.StatusForbidden, misty.do("DELETE", path, nil, nil))
	})

	t.Run("delete and restore", func(t *testing.T) {
		path := fmt.Sprintf("/api/games/%d", j.game)
		require.Equal(t, http.StatusOK, c.do("DELETE", path, nil, nil))
		assert.Equal(t, http.StatusNotFound, c.do("GET", path, nil, nil))
		assert.Equal(t, http.StatusNotFound, c.do("GET", fmt.Sprintf("/api/showdowns/game/%d", j.game), nil, nil))

		var restored GameResponse
		require.Equal(t, http.StatusOK, c.do("POST", path+"/restore", nil, &restored))
		assert.Equal(t, "Kanto", restored.Game.Name)
	})
}

func TestShowdownsAPI(t *testing.T) {
	h := setupTestAPI(t)
	c, _ := login(t, h, "ash@example.com")
	j := seedJournal(t, c)

	var board pokejournal.MatchupBoard
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/showdowns/game/%d", j.game), nil, &board))
	assert.Equal(t, "Kanto", board.GameName)
	require.Len(t, board.Matchups, 1)
	m := board.Matchups[0]
	assert.Equal(t, j.ash, m.Player1ID)
	assert.Equal(t, 10, m.Player1Points)
	assert.Equal(t, -1, m.Player2Points)
	require.Len(t, m.Showdowns, 1)

	var e ErrorResponse
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/showdowns/game/999", nil, &e))
	assert.Equal(t, "Game not found", e.Error)

	path := fmt.Sprintf("/api/showdowns/%d", j.showdown)

	t.Run("clear mvp", func(t *testing.T) {
		var sd ShowdownResponse
		require.Equal(t, http.StatusOK, c.do("PUT", path, `{"mvpEventId":null}`, &sd))
		assert.Nil(t, sd.Showdown.MvpEventID)
		assert.Equal(t, j.ash, sd.Showdown.WinnerID)
	})

	t.Run("change winner", func(t *testing.T) {
		var sd ShowdownResponse
		require.Equal(t, http.StatusOK, c.do("PUT", path, map[string]any{"winnerId": j.gary}, &sd))
		assert.Equal(t, j.gary, sd.Showdown.WinnerID)

		var board pokejournal.MatchupBoard
		require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/showdowns/game/%d", j.game), nil, &board))
		assert.Equal(t, 0, board.Matchups[0].Player1Points)
		assert.Equal(t, 9, board.Matchups[0].Player2Points)
	})

	t.Run("invalid update", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, c.do("PUT", path, map[string]any{"winnerId": 9999}, nil))
		assert.Equal(t, http.StatusBadRequest, c.do("PUT", path, map[string]any{"player1EventIds": []int64{}}, nil))
		body := fmt.Sprintf(`{"player1EventIds":"[%d]x"}`, j.ashEvent)
		assert.Equal(t, http.StatusBadRequest, c.do("PUT", path, body, nil))
	})

	t.Run("delete", func(t *testing.T) {
		require.Equal(t, http.StatusOK, c.do("DELETE", path, nil, nil))

		var e ErrorResponse
		assert.Equal(t, http.StatusNotFound, c.do("DELETE", path, nil, &e))
		assert.Equal(t, "Showdown not found", e.Error)
	})
}

func TestEventsAPI(t *testing.T) {
	h := setupTestAPI(t)
	c, _ := login(t, h, "ash@example.com")
	j := seedJournal(t, c)

	var events EventsResponse
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/events?gameId=%d", j.game), nil, &events))
	assert.Len(t, events.Events, 2)
	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/events?gameId=x", nil, nil))

	path := fmt.Sprintf("/api/events/%d", j.garyEvent)

	var ev EventResponse
	require.Equal(t, http.StatusOK, c.do("PUT", path+"/status", EventStatusRequest{Status: pokejournal.StatusRunAway}, &ev))
	assert.Equal(t, pokejournal.StatusRunAway, ev.Event.Status)
	assert.Equal(t, http.StatusBadRequest, c.do("PUT", path+"/status", EventStatusRequest{Status: "Fainted"}, nil))

	require.Equal(t, http.StatusOK, c.do("PUT", path+"/attributes", EventAttributesRequest{IsShiny: ptr(1), IsChamp: ptr(1)}, &ev))
	assert.Equal(t, 1, ev.Event.IsShiny)
	assert.Equal(t, http.StatusBadRequest, c.do("PUT", path+"/attributes", `{"isShiny":1}`, nil))

	require.Equal(t, http.StatusOK, c.do("DELETE", path, nil, nil))
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/events/game/%d", j.game), nil, &events))
	assert.Len(t, events.Events, 1)
	require.Equal(t, http.StatusOK, c.do("POST", path+"/restore", nil, nil))
}

func TestStatsAPI(t *testing.T) {
	h := setupTestAPI(t)
	c, _ := login(t, h, "ash@example.com")
	j := seedJournal(t, c)

	var trainer pokejournal.TrainerStats
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/players/stats/%d", j.ash), nil, &trainer))
	assert.Equal(t, "Ash", trainer.PlayerName)
	assert.Equal(t, 1, trainer.Caught)
	assert.Equal(t, 1, trainer.Shiny)

	var e ErrorResponse
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/players/stats/999", nil, &e))
	assert.Equal(t, "Player not found", e.Error)

	var stats []pokejournal.PokemonStat
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/players/stats/pokemon/%d", j.ash), nil, &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].ShowdownWins)
	assert.Equal(t, 1, stats[0].MvpCount)

	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/players/%d/pokemon/%d/detail", j.ash, j.pokemon), nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("GET", fmt.Sprintf("/api/players/%d/pokemon/999/detail", j.ash), nil, &e))
	assert.Equal(t, "Pokemon not found for this player", e.Error)

	var db DatabaseStatsResponse
	require.Equal(t, http.StatusOK, c.do("GET", "/api/utils/stats", nil, &db))
	assert.Equal(t, int64(1), db.Stats.Showdowns)
	assert.Equal(t, int64(2), db.Stats.Events)
}

func TestPokemonCatalogAPI(t *testing.T) {
	h := setupTestAPI(t)
	c, _ := login(t, h, "ash@example.com")
	j := seedJournal(t, c)
	anon := &testClient{t: t, h: h}

	var list PokemonListResponse
	require.Equal(t, http.StatusOK, anon.do("GET", "/api/pokemon", nil, &list))
	assert.Len(t, list.Pokemons, 1)

	var matches []pokejournal.PokemonMatch
	require.Equal(t, http.StatusOK, anon.do("GET", "/api/pokemon/search?searchTerm=pika", nil, &matches))
	assert.Len(t, matches, 1)
	assert.Equal(t, http.StatusBadRequest, anon.do("GET", "/api/pokemon/search", nil, nil))

	path := fmt.Sprintf("/api/pokemon/%d", j.pokemon)
	assert.Equal(t, http.StatusOK, anon.do("GET", path, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do("DELETE", path, nil, nil))

	require.Equal(t, http.StatusOK, c.do("DELETE", path, nil, nil))
	assert.Equal(t, http.StatusNotFound, anon.do("GET", path, nil, nil))
	require.Equal(t, http.StatusOK, c.do("POST", path+"/restore", nil, nil))
}

func TestPlayersAPI(t *testing.T) {
	h := setupTestAPI(t)
	c, _ := login(t, h, "ash@example.com")
	j := seedJournal(t, c)

	var players []pokejournal.Player
	require.Equal(t, http.StatusOK, c.do("GET", "/api/players?scope=account", nil, &players))
	assert.Len(t, players, 2)

	var links GamePlayersResponse
	require.Equal(t, http.StatusOK, c.do("GET", fmt.Sprintf("/api/player-games/%d", j.game), nil, &links))
	assert.Len(t, links.Players, 2)

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/player-games", PlayerGameRequest{PlayerID: j.ash}, nil))
	require.Equal(t, http.StatusOK, c.do("DELETE", fmt.Sprintf("/api/player-games/%d/%d", j.gary, j.game), nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("DELETE", fmt.Sprintf("/api/player-games/%d/%d", j.gary, j.game), nil, nil))

	var pr PlayerResponse
	require.Equal(t, http.StatusOK, c.do("PUT", fmt.Sprintf("/api/players/%d", j.ash), PlayerRequest{Name: "Red", PokemonID: &j.pokemon}, &pr))
	assert.Equal(t, "Red", pr.Player.Name)
}

func ptr[T any](v T) *T {
	return &v
}
