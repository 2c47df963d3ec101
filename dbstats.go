package pokejournal

import (
	"context"
)

// DatabaseStats counts the active rows of each table.
type DatabaseStats struct {
	Users       int64 `json:"users"`
	Games       int64 `json:"games"`
	Players     int64 `json:"players"`
	Pokemons    int64 `json:"pokemons"`
	Events      int64 `json:"events"`
	PlayerGames int64 `json:"playerGames"`
	Showdowns   int64 `json:"showdowns"`
}

// Stats counts active records.
func (s *Store) Stats(ctx context.Context) (*DatabaseStats, error) {
	db := s.db.WithContext(ctx)
	st := &DatabaseStats{}

	counts := []struct {
		model any
		dst   *int64
	}{
		{&User{}, &st.Users},
		{&Game{}, &st.Games},
		{&Player{}, &st.Players},
		{&Pokemon{}, &st.Pokemons},
		{&Event{}, &st.Events},
		{&PlayerGame{}, &st.PlayerGames},
		{&Showdown{}, &st.Showdowns},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return st, nil
}
