package pokejournal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Scoring holds the matchup point rules.
type Scoring struct {
	// WinBonus is added to the winner of every showdown.
	WinBonus int `json:"winBonus" yaml:"win_bonus" toml:"win_bonus"`

	// PenaltyPerDefeated is multiplied by a player's defeated events in a
	// game and seeds every matchup that player appears in.
	PenaltyPerDefeated int `json:"penaltyPerDefeated" yaml:"penalty_per_defeated" toml:"penalty_per_defeated"`
}

// DefaultScoring returns the standard rules: 10 points per win, one point
// lost per defeated Pokémon.
func DefaultScoring() Scoring {
	return Scoring{
		WinBonus:           10,
		PenaltyPerDefeated: -1,
	}
}

// LoadScoring reads scoring rules from a YAML or TOML file, picked by
// extension. Keys missing from the file keep their default values.
func LoadScoring(path string) (Scoring, error) {
	sc := DefaultScoring()

	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read scoring file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return DefaultScoring(), fmt.Errorf("parse scoring yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &sc); err != nil {
			return DefaultScoring(), fmt.Errorf("parse scoring toml: %w", err)
		}
	default:
		return sc, fmt.Errorf("unsupported scoring file %q: want .yaml, .yml or .toml", path)
	}

	return sc, nil
}
