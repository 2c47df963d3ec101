package pokejournal

import (
	"gorm.io/gorm"
)

// Store reads and writes journal records. All reads honour soft deletion.
type Store struct {
	db      *gorm.DB
	scoring Scoring
}

// Option configures a Store.
type Option func(*Store)

// WithScoring overrides the default matchup scoring rules.
func WithScoring(sc Scoring) Option {
	return func(s *Store) {
		s.scoring = sc
	}
}

// NewStore wraps db.
func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:      db,
		scoring: DefaultScoring(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scoring returns the rules used by BuildMatchups.
func (s *Store) Scoring() Scoring {
	return s.scoring
}
