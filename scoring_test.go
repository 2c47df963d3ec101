package pokejournal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScoring(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	t.Run("yaml", func(t *testing.T) {
		sc, err := LoadScoring(write("scoring.yaml", "win_bonus: 5\npenalty_per_defeated: -2\n"))
		require.NoError(t, err)
		assert.Equal(t, Scoring{WinBonus: 5, PenaltyPerDefeated: -2}, sc)
	})

	t.Run("toml keeps defaults", func(t *testing.T) {
		sc, err := LoadScoring(write("scoring.toml", "win_bonus = 3\n"))
		require.NoError(t, err)
		assert.Equal(t, Scoring{WinBonus: 3, PenaltyPerDefeated: -1}, sc)
	})

	t.Run("bad extension", func(t *testing.T) {
		_, err := LoadScoring(write("scoring.json", "{}"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		sc, err := LoadScoring(write("broken.yml", "win_bonus: [\n"))
		assert.Error(t, err)
		assert.Equal(t, DefaultScoring(), sc)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScoring(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestDefaultScoring(t *testing.T) {
	sc := NewStore(nil).Scoring()
	assert.Equal(t, 10, sc.WinBonus)
	assert.Equal(t, -1, sc.PenaltyPerDefeated)
}
