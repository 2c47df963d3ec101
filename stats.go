package pokejournal

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Yes/no strings used by the shinyCapture field.
const (
	ShinyYes = "yes"
	ShinyNo  = "no"
)

// PokemonStat is one species caught by a trainer identity.
type PokemonStat struct {
	ID            int64   `json:"id"`
	Type1         string  `json:"type1"`
	Type2         *string `json:"type2"`
	Name          string  `json:"name"`
	Form          string  `json:"form"`
	TimesCaptured int     `json:"timesCaptured"`
	ShinyCapture  string  `json:"shinyCapture"`
	Image         *string `json:"image"`
	ShinyImage    *string `json:"shinyImage"`
	ShowdownWins  int     `json:"showdownWins"`
	MvpCount      int     `json:"mvpCount"`
}

// PokemonSummary is the species block of a PokemonDetail.
type PokemonSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Form       string  `json:"form"`
	Type1      string  `json:"type1"`
	Type2      *string `json:"type2"`
	Image      string  `json:"image"`
	ShinyImage string  `json:"shinyImage"`
}

// GameEvent is one event in a PokemonDetail game breakdown.
type GameEvent struct {
	EventID        int64  `json:"eventId"`
	Nickname       string `json:"nickname"`
	Status         string `json:"status"`
	IsShiny        int    `json:"isShiny"`
	IsChamp        int    `json:"isChamp"`
	MvpCountInGame int    `json:"mvpCountInGame"`
}

// GameEvents groups the events of one game.
type GameEvents struct {
	GameID   int64       `json:"gameId"`
	GameName string      `json:"gameName"`
	Events   []GameEvent `json:"events"`
}

// PokemonDetail is the full history of one species for a trainer identity.
type PokemonDetail struct {
	// Pokemon is nil only when the catalog row is gone entirely.
	Pokemon         *PokemonSummary `json:"pokemon"`
	ShowdownBattles int             `json:"showdownBattles"`
	ShowdownWins    int             `json:"showdownWins"`
	MvpCount        int             `json:"mvpCount"`
	LeagueWins      int             `json:"leagueWins"`
	DefeatedCount   int             `json:"defeatedCount"`
	EscapedCount    int             `json:"escapedCount"`
	TimesCaptured   int             `json:"timesCaptured"`
	EventsByGame    []GameEvents    `json:"eventsByGame"`
}

// showdownRefs is a showdown with its event id lists decoded.
type showdownRefs struct {
	id         int64
	gameID     int64
	winnerID   int64
	mvpEventID *int64
	player1    EventIDs
	player2    EventIDs
}

// showdownTally is what a set of events achieved across showdowns.
type showdownTally struct {
	battles int
	wins    int
	mvps    int
}

// tally counts the showdowns in which any of events fought. A fight is a win
// when the winner belongs to the identity and an MVP when the MVP event is
// one of events.
func tally(refs []showdownRefs, events map[int64]struct{}, identity TrainerIdentity) showdownTally {
	var t showdownTally
	for _, r := range refs {
		if !r.player1.Intersects(events) && !r.player2.Intersects(events) {
			continue
		}
		t.battles++
		if identity.Contains(r.winnerID) {
			t.wins++
		}
		if r.mvpEventID != nil {
			if _, ok := events[*r.mvpEventID]; ok {
				t.mvps++
			}
		}
	}
	return t
}

// activeShowdownRefs loads every active showdown in the system.
func (s *Store) activeShowdownRefs(ctx context.Context) ([]showdownRefs, error) {
	var rows []Showdown
	err := s.db.WithContext(ctx).
		Select("id", "game_id", "winner_id", "mvp_event_id", "player1_event_ids", "player2_event_ids").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	refs := make([]showdownRefs, len(rows))
	for i, r := range rows {
		refs[i] = showdownRefs{
			id:         r.ID,
			gameID:     r.GameID,
			winnerID:   r.WinnerID,
			mvpEventID: r.MvpEventID,
			player1:    ParseEventIDs(r.Player1EventIDs),
			player2:    ParseEventIDs(r.Player2EventIDs),
		}
	}
	return refs, nil
}

type speciesEvents struct {
	ids   map[int64]struct{}
	count int
	shiny bool
}

// PokemonStatsFor lists every active species the trainer identity of
// playerID has an active event for, in an active game.
func (s *Store) PokemonStatsFor(ctx context.Context, playerID int64) ([]PokemonStat, error) {
	identity, err := s.identityFor(ctx, playerID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var events []Event
	if err := db.Scopes(inActiveGames, ofActivePokemon).
		Select("id", "pokemon_id", "is_shiny").
		Where("player_id IN ?", identity.IDs).
		Order("id").
		Find(&events).Error; err != nil {
		return nil, err
	}

	bySpecies := map[int64]*speciesEvents{}
	var order []int64
	for _, e := range events {
		se, ok := bySpecies[e.PokemonID]
		if !ok {
			se = &speciesEvents{ids: map[int64]struct{}{}}
			bySpecies[e.PokemonID] = se
			order = append(order, e.PokemonID)
		}
		se.ids[e.ID] = struct{}{}
		se.count++
		if e.IsShiny == 1 {
			se.shiny = true
		}
	}

	stats := []PokemonStat{}
	if len(order) == 0 {
		return stats, nil
	}

	var pokemons []Pokemon
	if err := db.Where("id IN ?", order).Order("id").Find(&pokemons).Error; err != nil {
		return nil, err
	}

	refs, err := s.activeShowdownRefs(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range pokemons {
		se := bySpecies[p.ID]
		t := tally(refs, se.ids, identity)

		shiny := ShinyNo
		if se.shiny {
			shiny = ShinyYes
		}

		stats = append(stats, PokemonStat{
			ID:            p.ID,
			Type1:         p.Type1,
			Type2:         p.Type2,
			Name:          p.Name,
			Form:          p.Form,
			TimesCaptured: se.count,
			ShinyCapture:  shiny,
			Image:         nullable(p.Image),
			ShinyImage:    nullable(p.ShinyImage),
			ShowdownWins:  t.wins,
			MvpCount:      t.mvps,
		})
	}

	return stats, nil
}

// PokemonDetailFor reports everything the trainer identity of playerID did
// with one species. ErrNotFound is returned when the player is unknown or
// has no active events for the species.
func (s *Store) PokemonDetailFor(ctx context.Context, playerID, pokemonID int64) (*PokemonDetail, error) {
	identity, err := s.identityFor(ctx, playerID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var events []Event
	if err := db.Scopes(inActiveGames).
		Where("player_id IN ? AND pokemon_id = ?", identity.IDs, pokemonID).
		Order("id").
		Preload("Game").
		Find(&events).Error; err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "events for pokemon", pokemonID)
	}

	detail := &PokemonDetail{
		TimesCaptured: len(events),
		EventsByGame:  []GameEvents{},
	}

	// The species summary is shown even after the catalog entry is deleted.
	var species Pokemon
	switch err := db.Unscoped().First(&species, pokemonID).Error; {
	case err == nil:
		detail.Pokemon = &PokemonSummary{
			ID:         species.ID,
			Name:       species.Name,
			Form:       species.Form,
			Type1:      species.Type1,
			Type2:      species.Type2,
			Image:      species.Image,
			ShinyImage: species.ShinyImage,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	refs, err := s.activeShowdownRefs(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[int64]struct{}, len(events))
	for _, e := range events {
		ids[e.ID] = struct{}{}
		if e.IsChamp == 1 {
			detail.LeagueWins++
		}
		switch e.Status {
		case StatusDefeated:
			detail.DefeatedCount++
		case StatusRunAway:
			detail.EscapedCount++
		}
	}

	t := tally(refs, ids, identity)
	detail.ShowdownBattles = t.battles
	detail.ShowdownWins = t.wins
	detail.MvpCount = t.mvps

	// MVP awards per event, keyed by the game the showdown was fought in.
	type gameEvent struct{ gameID, eventID int64 }
	mvpInGame := map[gameEvent]int{}
	for _, r := range refs {
		if r.mvpEventID != nil {
			mvpInGame[gameEvent{r.gameID, *r.mvpEventID}]++
		}
	}

	byGame := map[int64]int{}
	for _, e := range events {
		i, ok := byGame[e.GameID]
		if !ok {
			name := ""
			if e.Game != nil {
				name = e.Game.Name
			}
			i = len(detail.EventsByGame)
			byGame[e.GameID] = i
			detail.EventsByGame = append(detail.EventsByGame, GameEvents{
				GameID:   e.GameID,
				GameName: name,
				Events:   []GameEvent{},
			})
		}
		g := &detail.EventsByGame[i]
		g.Events = append(g.Events, GameEvent{
			EventID:        e.ID,
			Nickname:       e.Nickname,
			Status:         e.Status,
			IsShiny:        e.IsShiny,
			IsChamp:        e.IsChamp,
			MvpCountInGame: mvpInGame[gameEvent{e.GameID, e.ID}],
		})
	}

	return detail, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
