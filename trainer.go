package pokejournal

import (
	"context"
)

// PokemonTypes is the canonical list of Pokémon types.
var PokemonTypes = []string{
	"Bug", "Dark", "Dragon", "Electric", "Fairy", "Fighting", "Fire", "Flying",
	"Ghost", "Grass", "Ground", "Ice", "Normal", "Poison", "Psychic", "Rock", "Steel", "Water",
}

// TrainerStats summarises a trainer identity's events.
type TrainerStats struct {
	PlayerName string         `json:"playerName"`
	Pokemon    *Pokemon       `json:"pokemon"`
	Caught     int            `json:"caught"`
	Runaway    int            `json:"runaway"`
	Defeated   int            `json:"defeated"`
	Shiny      int            `json:"shiny"`
	TypeCounts map[string]int `json:"typeCounts"`
}

// TrainerStatsFor aggregates the events of playerID's trainer identity,
// optionally limited to one game. The lowest player id of the identity
// supplies the name and starter shown.
func (s *Store) TrainerStatsFor(ctx context.Context, playerID int64, gameID *int64) (*TrainerStats, error) {
	identity, err := s.identityFor(ctx, playerID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var display Player
	if err := db.Preload("Pokemon").First(&display, identity.IDs[0]).Error; err != nil {
		return nil, notFound(err, "player", identity.IDs[0])
	}

	q := db.Scopes(inActiveGames).Where("player_id IN ?", identity.IDs)
	if gameID != nil {
		q = q.Where("game_id = ?", *gameID)
	}
	var events []Event
	if err := q.Order("id").Preload("Pokemon").Find(&events).Error; err != nil {
		return nil, err
	}

	stats := &TrainerStats{
		PlayerName: display.Name,
		Pokemon:    display.Pokemon,
		TypeCounts: make(map[string]int, len(PokemonTypes)),
	}
	for _, t := range PokemonTypes {
		stats.TypeCounts[t] = 0
	}

	for _, e := range events {
		switch e.Status {
		case StatusCaught:
			stats.Caught++
		case StatusRunAway:
			stats.Runaway++
		case StatusDefeated:
			stats.Defeated++
		}
		if e.IsShiny == 1 {
			stats.Shiny++
		}
		if e.Pokemon == nil {
			continue
		}
		countType(stats.TypeCounts, e.Pokemon.Type1)
		if e.Pokemon.Type2 != nil {
			countType(stats.TypeCounts, *e.Pokemon.Type2)
		}
	}

	return stats, nil
}

func countType(counts map[string]int, t string) {
	if _, ok := counts[t]; ok {
		counts[t]++
	}
}
