package pokejournal

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Team size limits for each side of a showdown.
const (
	MinTeamSize = 1
	MaxTeamSize = 6
)

// ShowdownInput is a new showdown.
type ShowdownInput struct {
	GameID          int64
	Player1ID       int64
	Player2ID       int64
	WinnerID        int64
	Player1EventIDs EventIDs
	Player2EventIDs EventIDs
	MvpEventID      *int64
}

// ShowdownPatch is a partial showdown update. Nil fields are left alone.
// ClearMvp removes the MVP and takes precedence over MvpEventID.
type ShowdownPatch struct {
	Player1ID       *int64
	Player2ID       *int64
	WinnerID        *int64
	Player1EventIDs EventIDs
	Player2EventIDs EventIDs
	MvpEventID      *int64
	ClearMvp        bool
}

func validTeam(ids EventIDs) bool {
	return len(ids) >= MinTeamSize && len(ids) <= MaxTeamSize
}

// validate checks the payload rules that need no database access.
func (in ShowdownInput) validate() error {
	if in.GameID == 0 || in.Player1ID == 0 || in.Player2ID == 0 || in.WinnerID == 0 ||
		in.Player1EventIDs == nil || in.Player2EventIDs == nil {
		return invalidf("missing required fields")
	}
	if !validTeam(in.Player1EventIDs) || !validTeam(in.Player2EventIDs) {
		return invalidf("each player must have between %d and %d event IDs", MinTeamSize, MaxTeamSize)
	}
	if in.Player1ID == in.Player2ID {
		return invalidf("a showdown needs two different players")
	}
	if in.WinnerID != in.Player1ID && in.WinnerID != in.Player2ID {
		return invalidf("winnerId must be one of the two players")
	}
	if in.MvpEventID != nil && !in.Player1EventIDs.Contains(*in.MvpEventID) && !in.Player2EventIDs.Contains(*in.MvpEventID) {
		return invalidf("mvpEventId must be one of the showdown's events")
	}
	return nil
}

// checkRefs verifies that the players and MVP event named by in exist.
func (s *Store) checkRefs(ctx context.Context, in ShowdownInput) error {
	db := s.db.WithContext(ctx)
	for _, id := range []int64{in.Player1ID, in.Player2ID} {
		if _, err := first[Player](db, "player", id); err != nil {
			if IsNotFound(err) {
				return invalidf("player %d not found", id)
			}
			return err
		}
	}
	if in.MvpEventID != nil {
		if _, err := first[Event](db, "event", *in.MvpEventID); err != nil {
			if IsNotFound(err) {
				return invalidf("mvp event %d not found", *in.MvpEventID)
			}
			return err
		}
	}
	return nil
}

func (s *Store) loadShowdown(ctx context.Context, id int64) (*Showdown, error) {
	var sd Showdown
	err := s.db.WithContext(ctx).
		Preload("Player1").Preload("Player2").Preload("Winner").
		Preload("MvpEvent.Pokemon").Preload("MvpEvent.Player").
		First(&sd, id).Error
	if err != nil {
		return nil, notFound(err, "showdown", id)
	}
	return &sd, nil
}

// ownedShowdown loads an active showdown whose game is active and owned by
// ownerID. Anything else is reported as missing.
func (s *Store) ownedShowdown(ctx context.Context, ownerID, id int64) (*Showdown, error) {
	sd, err := first[Showdown](s.db.WithContext(ctx), "showdown", id)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleGame(ctx, ownerID, sd.GameID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(gorm.ErrRecordNotFound, "showdown", id)
		}
		return nil, err
	}
	return sd, nil
}

// CreateShowdown records a showdown in one of ownerID's games.
func (s *Store) CreateShowdown(ctx context.Context, ownerID int64, in ShowdownInput) (*Showdown, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.visibleGame(ctx, ownerID, in.GameID); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	sd := &Showdown{
		GameID:          in.GameID,
		Player1ID:       in.Player1ID,
		Player2ID:       in.Player2ID,
		WinnerID:        in.WinnerID,
		Player1EventIDs: in.Player1EventIDs.String(),
		Player2EventIDs: in.Player2EventIDs.String(),
		MvpEventID:      in.MvpEventID,
	}
	if err := s.db.WithContext(ctx).Create(sd).Error; err != nil {
		return nil, err
	}
	return s.loadShowdown(ctx, sd.ID)
}

// UpdateShowdown applies patch to a showdown. The merged record must pass
// the same checks as a new showdown.
func (s *Store) UpdateShowdown(ctx context.Context, ownerID, id int64, patch ShowdownPatch) (*Showdown, error) {
	sd, err := s.ownedShowdown(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	merged := ShowdownInput{
		GameID:          sd.GameID,
		Player1ID:       sd.Player1ID,
		Player2ID:       sd.Player2ID,
		WinnerID:        sd.WinnerID,
		Player1EventIDs: ParseEventIDs(sd.Player1EventIDs),
		Player2EventIDs: ParseEventIDs(sd.Player2EventIDs),
		MvpEventID:      sd.MvpEventID,
	}
	if patch.Player1ID != nil {
		merged.Player1ID = *patch.Player1ID
	}
	if patch.Player2ID != nil {
		merged.Player2ID = *patch.Player2ID
	}
	if patch.WinnerID != nil {
		merged.WinnerID = *patch.WinnerID
	}
	if patch.Player1EventIDs != nil {
		merged.Player1EventIDs = patch.Player1EventIDs
	}
	if patch.Player2EventIDs != nil {
		merged.Player2EventIDs = patch.Player2EventIDs
	}
	if patch.ClearMvp {
		merged.MvpEventID = nil
	} else if patch.MvpEventID != nil {
		merged.MvpEventID = patch.MvpEventID
	}

	if err := merged.validate(); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, merged); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(sd).Updates(map[string]any{
		"player1_id":        merged.Player1ID,
		"player2_id":        merged.Player2ID,
		"winner_id":         merged.WinnerID,
		"player1_event_ids": merged.Player1EventIDs.String(),
		"player2_event_ids": merged.Player2EventIDs.String(),
		"mvp_event_id":      merged.MvpEventID,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.loadShowdown(ctx, id)
}

// DeleteShowdown soft-deletes a showdown.
func (s *Store) DeleteShowdown(ctx context.Context, ownerID, id int64) error {
	sd, err := s.ownedShowdown(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(sd).Error
}
