package pokejournal

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// EventInput is a new capture attempt.
type EventInput struct {
	PlayerID  int64
	GameID    int64
	PokemonID int64
	Route     string
	Nickname  string
	Status    string
	IsShiny   int
	IsChamp   int
}

func validFlag(v int) bool {
	return v == 0 || v == 1
}

// ownedEvent loads an active event whose game is active and owned by
// ownerID. Anything else is reported as missing.
func (s *Store) ownedEvent(ctx context.Context, ownerID, eventID int64) (*Event, error) {
	db := s.db.WithContext(ctx)
	e, err := first[Event](db, "event", eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleGame(ctx, ownerID, e.GameID); err != nil {
		if IsNotFound(err) {
			return nil, notFound(gorm.ErrRecordNotFound, "event", eventID)
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) loadEvent(ctx context.Context, eventID int64) (*Event, error) {
	var e Event
	err := s.db.WithContext(ctx).Preload("Pokemon").Preload("Player").First(&e, eventID).Error
	if err != nil {
		return nil, notFound(err, "event", eventID)
	}
	return &e, nil
}

// CreateEvent records a capture attempt in one of ownerID's games.
func (s *Store) CreateEvent(ctx context.Context, ownerID int64, in EventInput) (*Event, error) {
	if in.PlayerID == 0 || in.GameID == 0 || in.PokemonID == 0 {
		return nil, invalidf("playerId, gameId and pokemonId are required")
	}
	if in.Status == "" {
		in.Status = StatusCaught
	}
	if !ValidStatus(in.Status) {
		return nil, invalidf("invalid status provided")
	}
	if !validFlag(in.IsShiny) || !validFlag(in.IsChamp) {
		return nil, invalidf("isShiny and isChamp must be 0 or 1")
	}

	if _, err := s.visibleGame(ctx, ownerID, in.GameID); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := first[Player](db, "player", in.PlayerID); err != nil {
		if IsNotFound(err) {
			return nil, invalidf("player %d not found", in.PlayerID)
		}
		return nil, err
	}
	if _, err := first[Pokemon](db, "pokemon", in.PokemonID); err != nil {
		if IsNotFound(err) {
			return nil, invalidf("pokemon %d not found", in.PokemonID)
		}
		return nil, err
	}

	e := &Event{
		PlayerID:  in.PlayerID,
		GameID:    in.GameID,
		PokemonID: in.PokemonID,
		Route:     in.Route,
		Nickname:  in.Nickname,
		Status:    in.Status,
		IsShiny:   in.IsShiny,
		IsChamp:   in.IsChamp,
	}
	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	return s.loadEvent(ctx, e.ID)
}

// ListEvents returns the active events of ownerID's active games, newest
// first. A non-nil gameID limits the result to that game.
func (s *Store) ListEvents(ctx context.Context, ownerID int64, gameID *int64) ([]Event, error) {
	db := s.db.WithContext(ctx)
	q := db.Where("game_id IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&Game{}).Select("id").Where("user_id = ?", ownerID))
	if gameID != nil {
		q = q.Where("game_id = ?", *gameID)
	}
	events := []Event{}
	err := q.Order("created_at DESC").Order("id DESC").
		Preload("Pokemon").Preload("Player").
		Find(&events).Error
	return events, err
}

// GameEvents returns the active events of one of ownerID's games, oldest
// first.
func (s *Store) GameEvents(ctx context.Context, ownerID, gameID int64) ([]Event, error) {
	if _, err := s.visibleGame(ctx, ownerID, gameID); err != nil {
		return nil, err
	}
	events := []Event{}
	err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at").Order("id").
		Preload("Pokemon").Preload("Player").
		Find(&events).Error
	return events, err
}

// UpdateEventStatus sets the status of an event.
func (s *Store) UpdateEventStatus(ctx context.Context, ownerID, eventID int64, status string) (*Event, error) {
	if !ValidStatus(status) {
		return nil, invalidf("invalid status provided")
	}
	e, err := s.ownedEvent(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(e).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.loadEvent(ctx, eventID)
}

// UpdateEventAttributes sets the shiny and champion flags of an event.
func (s *Store) UpdateEventAttributes(ctx context.Context, ownerID, eventID int64, isShiny, isChamp int) (*Event, error) {
	if !validFlag(isShiny) || !validFlag(isChamp) {
		return nil, invalidf("isShiny and isChamp must be 0 or 1")
	}
	e, err := s.ownedEvent(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(e).Updates(map[string]any{"is_shiny": isShiny, "is_champ": isChamp}).Error
	if err != nil {
		return nil, err
	}
	return s.loadEvent(ctx, eventID)
}

// DeleteEvent soft-deletes an event.
func (s *Store) DeleteEvent(ctx context.Context, ownerID, eventID int64) error {
	e, err := s.ownedEvent(ctx, ownerID, eventID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(e).Error
}

// RestoreEvent brings back a soft-deleted event of one of ownerID's games.
func (s *Store) RestoreEvent(ctx context.Context, ownerID, eventID int64) (*Event, error) {
	db := s.db.WithContext(ctx)
	e, err := findDeleted[Event](db, "event", eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleGame(ctx, ownerID, e.GameID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(gorm.ErrRecordNotFound, "deleted event", eventID)
		}
		return nil, err
	}
	if err := restore[Event](db, "event", eventID); err != nil {
		return nil, err
	}
	return s.loadEvent(ctx, eventID)
}
