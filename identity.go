package pokejournal

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// TrainerIdentity is the set of active players sharing one display name
// across every account. Names match exactly: case-sensitive, untrimmed.
type TrainerIdentity struct {
	Name string
	// IDs is sorted ascending.
	IDs []int64
}

// Empty reports whether the identity resolved to no players.
func (t TrainerIdentity) Empty() bool {
	return len(t.IDs) == 0
}

// Contains reports whether id belongs to the identity.
func (t TrainerIdentity) Contains(id int64) bool {
	for _, v := range t.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// ResolveIdentity expands playerID to every active player with the same
// name. A missing or soft-deleted player yields an empty identity and a nil
// error; only store failures are returned as errors.
func (s *Store) ResolveIdentity(ctx context.Context, playerID int64) (TrainerIdentity, error) {
	db := s.db.WithContext(ctx)

	var p Player
	if err := db.Select("id", "name").First(&p, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TrainerIdentity{}, nil
		}
		return TrainerIdentity{}, err
	}

	var ids []int64
	if err := db.Model(&Player{}).Where("name = ?", p.Name).Order("id").Pluck("id", &ids).Error; err != nil {
		return TrainerIdentity{}, err
	}

	return TrainerIdentity{Name: p.Name, IDs: ids}, nil
}

// identityFor resolves playerID and maps an empty result to ErrNotFound.
func (s *Store) identityFor(ctx context.Context, playerID int64) (TrainerIdentity, error) {
	id, err := s.ResolveIdentity(ctx, playerID)
	if err != nil {
		return id, err
	}
	if id.Empty() {
		return id, notFound(gorm.ErrRecordNotFound, "player", playerID)
	}
	return id, nil
}
