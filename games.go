package pokejournal

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// GameInput holds the editable fields of a game.
type GameInput struct {
	Name        string
	PlayerCount int
}

func (in GameInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("game name is required")
	}
	if in.PlayerCount < 0 {
		return invalidf("player count must not be negative")
	}
	return nil
}

// ownedGame loads an active game and checks it belongs to ownerID.
func (s *Store) ownedGame(ctx context.Context, ownerID, gameID int64) (*Game, error) {
	g, err := first[Game](s.db.WithContext(ctx), "game", gameID)
	if err != nil {
		return nil, err
	}
	if g.UserID != ownerID {
		return nil, ErrForbidden
	}
	return g, nil
}

// visibleGame is ownedGame with foreign games reported as missing.
func (s *Store) visibleGame(ctx context.Context, ownerID, gameID int64) (*Game, error) {
	g, err := s.ownedGame(ctx, ownerID, gameID)
	if errors.Is(err, ErrForbidden) {
		return nil, notFound(gorm.ErrRecordNotFound, "game", gameID)
	}
	return g, err
}

// CreateGame starts a new game for ownerID.
func (s *Store) CreateGame(ctx context.Context, ownerID int64, in GameInput) (*Game, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	g := &Game{
		UserID:      ownerID,
		Name:        strings.TrimSpace(in.Name),
		PlayerCount: in.PlayerCount,
	}
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// ListGames returns ownerID's active games, newest first, with their active
// players.
func (s *Store) ListGames(ctx context.Context, ownerID int64) ([]Game, error) {
	games := []Game{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Preload("PlayerGames", ofActivePlayers).
		Preload("PlayerGames.Player.Pokemon").
		Find(&games).Error
	return games, err
}

// GetGame returns one of ownerID's games with its active players.
func (s *Store) GetGame(ctx context.Context, ownerID, gameID int64) (*Game, error) {
	if _, err := s.visibleGame(ctx, ownerID, gameID); err != nil {
		return nil, err
	}
	var g Game
	err := s.db.WithContext(ctx).
		Preload("PlayerGames", ofActivePlayers).
		Preload("PlayerGames.Player.Pokemon").
		First(&g, gameID).Error
	if err != nil {
		return nil, notFound(err, "game", gameID)
	}
	return &g, nil
}

// UpdateGame replaces the editable fields of a game.
func (s *Store) UpdateGame(ctx context.Context, ownerID, gameID int64, in GameInput) (*Game, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	g, err := s.ownedGame(ctx, ownerID, gameID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(g).Updates(map[string]any{
		"name":         strings.TrimSpace(in.Name),
		"player_count": in.PlayerCount,
	}).Error
	if err != nil {
		return nil, err
	}
	return first[Game](s.db.WithContext(ctx), "game", gameID)
}

// DeleteGame soft-deletes a game.
func (s *Store) DeleteGame(ctx context.Context, ownerID, gameID int64) error {
	g, err := s.ownedGame(ctx, ownerID, gameID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(g).Error
}

// RestoreGame brings back a soft-deleted game.
func (s *Store) RestoreGame(ctx context.Context, ownerID, gameID int64) (*Game, error) {
	db := s.db.WithContext(ctx)
	g, err := findDeleted[Game](db, "game", gameID)
	if err != nil {
		return nil, err
	}
	if g.UserID != ownerID {
		return nil, ErrForbidden
	}
	if err := restore[Game](db, "game", gameID); err != nil {
		return nil, err
	}
	return first[Game](db, "game", gameID)
}
