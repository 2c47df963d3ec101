package pokejournal

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// LinkPlayer adds a player to a game. Both must be active and owned by
// ownerID, and the player must not already be linked.
func (s *Store) LinkPlayer(ctx context.Context, ownerID, playerID, gameID int64) (*PlayerGame, error) {
	if _, err := s.ownedPlayer(ctx, ownerID, playerID); err != nil {
		if IsNotFound(err) || errors.Is(err, ErrForbidden) {
			return nil, invalidf("player not found, deleted, or does not belong to the user")
		}
		return nil, err
	}
	if _, err := s.ownedGame(ctx, ownerID, gameID); err != nil {
		if IsNotFound(err) || errors.Is(err, ErrForbidden) {
			return nil, invalidf("game not found, deleted, or does not belong to the user")
		}
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&PlayerGame{}).Where("player_id = ? AND game_id = ?", playerID, gameID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, invalidf("player is already linked to this game")
	}

	pg := &PlayerGame{PlayerID: playerID, GameID: gameID}
	if err := db.Create(pg).Error; err != nil {
		return nil, err
	}
	return pg, nil
}

// GamePlayers returns the active links of one of ownerID's games, with the
// linked players and their starters.
func (s *Store) GamePlayers(ctx context.Context, ownerID, gameID int64) ([]PlayerGame, error) {
	if _, err := s.visibleGame(ctx, ownerID, gameID); err != nil {
		return nil, err
	}
	links := []PlayerGame{}
	err := s.db.WithContext(ctx).
		Scopes(ofActivePlayers).
		Where("game_id = ?", gameID).
		Order("id").
		Preload("Player.Pokemon").
		Find(&links).Error
	return links, err
}

// UnlinkPlayer removes a player from a game by soft-deleting the link.
func (s *Store) UnlinkPlayer(ctx context.Context, ownerID, playerID, gameID int64) error {
	db := s.db.WithContext(ctx)

	var p Player
	if err := db.Where("id = ? AND user_id = ?", playerID, ownerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidf("player not found or does not belong to the user")
		}
		return err
	}
	var g Game
	if err := db.Where("id = ? AND user_id = ?", gameID, ownerID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidf("game not found or does not belong to the user")
		}
		return err
	}

	res := db.Where("player_id = ? AND game_id = ?", playerID, gameID).Delete(&PlayerGame{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "link for player", playerID)
	}
	return nil
}
