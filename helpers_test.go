package pokejournal

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Use in-memory SQLite for testing with silent logger to avoid test output pollution
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "connect to test database")

	// Every pooled connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db), "migrate test database")
	return db
}

// fixture builds records directly, bypassing Store validation.
type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func newFixture(t *testing.T) (*fixture, *Store) {
	db := setupTestDB(t)
	return &fixture{t: t, db: db}, NewStore(db)
}

func (f *fixture) create(v any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(v).Error)
}

func (f *fixture) user(email string) *User {
	u := &User{FirstName: "Test", LastName: "User", Email: email, Role: RoleUser}
	f.create(u)
	return u
}

func (f *fixture) pokemon(name, type1 string, type2 *string) *Pokemon {
	image, shiny := ImageKeys(name, "")
	p := &Pokemon{Name: name, Type1: type1, Type2: type2, Image: image, ShinyImage: shiny}
	f.create(p)
	return p
}

func (f *fixture) player(owner *User, name string) *Player {
	p := &Player{UserID: owner.ID, Name: name}
	f.create(p)
	return p
}

func (f *fixture) game(owner *User, name string) *Game {
	g := &Game{UserID: owner.ID, Name: name, PlayerCount: 2}
	f.create(g)
	return g
}

func (f *fixture) link(p *Player, g *Game) *PlayerGame {
	pg := &PlayerGame{PlayerID: p.ID, GameID: g.ID}
	f.create(pg)
	return pg
}

func (f *fixture) event(p *Player, g *Game, pk *Pokemon, status string, shiny int) *Event {
	e := &Event{PlayerID: p.ID, GameID: g.ID, PokemonID: pk.ID, Status: status, IsShiny: shiny}
	f.create(e)
	return e
}

func (f *fixture) showdown(g *Game, p1, p2 *Player, winner int64, team1, team2 string, mvp *int64, at time.Time) *Showdown {
	sd := &Showdown{
		GameID:          g.ID,
		Player1ID:       p1.ID,
		Player2ID:       p2.ID,
		WinnerID:        winner,
		Player1EventIDs: team1,
		Player2EventIDs: team2,
		MvpEventID:      mvp,
		CreatedAt:       at,
	}
	f.create(sd)
	return sd
}

func (f *fixture) softDelete(v any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Delete(v).Error)
}

func ptr[T any](v T) *T {
	return &v
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

var bg = context.Background()
