package pokejournal

import (
	"context"
)

// Matchup is one unordered pair of players in a game with their running
// point totals and the showdowns they have fought, newest first.
type Matchup struct {
	Player1ID     int64      `json:"player1Id"`
	Player2ID     int64      `json:"player2Id"`
	Player1Name   string     `json:"player1Name"`
	Player2Name   string     `json:"player2Name"`
	Showdowns     []Showdown `json:"showdowns"`
	Player1Points int        `json:"player1Points"`
	Player2Points int        `json:"player2Points"`
}

// MatchupBoard is every matchup of a game.
type MatchupBoard struct {
	GameName string    `json:"gameName"`
	Matchups []Matchup `json:"matchups"`
}

type pairKey struct {
	lo, hi int64
}

func keyFor(a, b int64) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// BuildMatchups scores every pair of players linked to the game. The game
// must be active and owned by ownerID, otherwise ErrNotFound is returned.
func (s *Store) BuildMatchups(ctx context.Context, gameID, ownerID int64) (*MatchupBoard, error) {
	db := s.db.WithContext(ctx)

	var game Game
	if err := db.Where("id = ? AND user_id = ?", gameID, ownerID).First(&game).Error; err != nil {
		return nil, notFound(err, "game", gameID)
	}

	var links []PlayerGame
	if err := db.Where("game_id = ?", gameID).Order("id").Preload("Player").Find(&links).Error; err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(links))
	seen := make(map[int64]bool, len(links))
	for _, l := range links {
		// Links to soft-deleted players preload as nil.
		if l.Player == nil || seen[l.Player.ID] {
			continue
		}
		seen[l.Player.ID] = true
		players = append(players, *l.Player)
	}

	defeated, err := s.defeatedCounts(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var showdowns []Showdown
	if err := db.Where("game_id = ?", gameID).
		Order("created_at DESC").Order("id DESC").
		Preload("Player1").Preload("Player2").Preload("Winner").
		Preload("MvpEvent.Pokemon").Preload("MvpEvent.Player").
		Find(&showdowns).Error; err != nil {
		return nil, err
	}

	return &MatchupBoard{
		GameName: game.Name,
		Matchups: foldMatchups(players, defeated, showdowns, s.scoring),
	}, nil
}

// defeatedCounts returns the number of active Defeated events per player in
// an active game.
func (s *Store) defeatedCounts(ctx context.Context, gameID int64) (map[int64]int, error) {
	var rows []struct {
		PlayerID int64
		Total    int
	}
	err := s.db.WithContext(ctx).Model(&Event{}).
		Scopes(inActiveGames).
		Select("player_id, COUNT(*) AS total").
		Where("game_id = ? AND status = ?", gameID, StatusDefeated).
		Group("player_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.PlayerID] = r.Total
	}
	return counts, nil
}

// foldMatchups seeds one matchup per pair of players, in player order, and
// folds the showdowns into them. Showdowns are appended in the order given
// but only ever add points, so totals do not depend on that order.
func foldMatchups(players []Player, defeated map[int64]int, showdowns []Showdown, sc Scoring) []Matchup {
	matchups := make([]Matchup, 0, len(players)*(len(players)-1)/2)
	index := make(map[pairKey]int, cap(matchups))

	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			p1, p2 := players[i], players[j]
			index[keyFor(p1.ID, p2.ID)] = len(matchups)
			matchups = append(matchups, Matchup{
				Player1ID:     p1.ID,
				Player2ID:     p2.ID,
				Player1Name:   p1.Name,
				Player2Name:   p2.Name,
				Showdowns:     []Showdown{},
				Player1Points: sc.PenaltyPerDefeated * defeated[p1.ID],
				Player2Points: sc.PenaltyPerDefeated * defeated[p2.ID],
			})
		}
	}

	for _, sd := range showdowns {
		i, ok := index[keyFor(sd.Player1ID, sd.Player2ID)]
		if !ok {
			log.Debugw("showdown outside any matchup", "showdown_id", sd.ID, "game_id", sd.GameID)
			continue
		}
		m := &matchups[i]
		m.Showdowns = append(m.Showdowns, sd)

		// A winner matching neither side scores nothing.
		switch sd.WinnerID {
		case m.Player1ID:
			m.Player1Points += sc.WinBonus
		case m.Player2ID:
			m.Player2Points += sc.WinBonus
		}
	}

	return matchups
}
