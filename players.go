package pokejournal

import (
	"context"
	"strings"
)

// PlayerInput holds the editable fields of a player.
type PlayerInput struct {
	Name      string
	PokemonID *int64
}

func (s *Store) validatePlayer(ctx context.Context, in PlayerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("player name is required")
	}
	if in.PokemonID != nil {
		if _, err := first[Pokemon](s.db.WithContext(ctx), "pokemon", *in.PokemonID); err != nil {
			if IsNotFound(err) {
				return invalidf("starter pokemon %d not found", *in.PokemonID)
			}
			return err
		}
	}
	return nil
}

func (s *Store) ownedPlayer(ctx context.Context, ownerID, playerID int64) (*Player, error) {
	p, err := first[Player](s.db.WithContext(ctx), "player", playerID)
	if err != nil {
		return nil, err
	}
	if p.UserID != ownerID {
		return nil, ErrForbidden
	}
	return p, nil
}

// CreatePlayer adds a trainer persona for ownerID.
func (s *Store) CreatePlayer(ctx context.Context, ownerID int64, in PlayerInput) (*Player, error) {
	if err := s.validatePlayer(ctx, in); err != nil {
		return nil, err
	}
	p := &Player{
		UserID:    ownerID,
		Name:      in.Name,
		PokemonID: in.PokemonID,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlayers returns ownerID's active players when accountOnly is set.
// Otherwise it returns every active player in the system, one per distinct
// name, keeping the lowest id for each name.
func (s *Store) ListPlayers(ctx context.Context, ownerID int64, accountOnly bool) ([]Player, error) {
	q := s.db.WithContext(ctx).Order("id").Preload("Pokemon")
	if accountOnly {
		q = q.Where("user_id = ?", ownerID)
	}

	var all []Player
	if err := q.Find(&all).Error; err != nil {
		return nil, err
	}
	if accountOnly {
		return all, nil
	}

	players := []Player{}
	seen := map[string]bool{}
	for _, p := range all {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		players = append(players, p)
	}
	return players, nil
}

// UpdatePlayer replaces a player's name and starter.
func (s *Store) UpdatePlayer(ctx context.Context, ownerID, playerID int64, in PlayerInput) (*Player, error) {
	if err := s.validatePlayer(ctx, in); err != nil {
		return nil, err
	}
	p, err := s.ownedPlayer(ctx, ownerID, playerID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := db.Model(p).Updates(map[string]any{"name": in.Name, "pokemon_id": in.PokemonID}).Error; err != nil {
		return nil, err
	}
	return first[Player](db, "player", playerID)
}

// DeletePlayer soft-deletes a player.
func (s *Store) DeletePlayer(ctx context.Context, ownerID, playerID int64) error {
	p, err := s.ownedPlayer(ctx, ownerID, playerID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(p).Error
}

// RestorePlayer brings back a soft-deleted player.
func (s *Store) RestorePlayer(ctx context.Context, ownerID, playerID int64) (*Player, error) {
	db := s.db.WithContext(ctx)
	p, err := findDeleted[Player](db, "player", playerID)
	if err != nil {
		return nil, err
	}
	if p.UserID != ownerID {
		return nil, ErrForbidden
	}
	if err := restore[Player](db, "player", playerID); err != nil {
		return nil, err
	}
	return first[Player](db, "player", playerID)
}
