package tuning

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Empty path gives defaults", func(t *testing.T) {
		got, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, game.DefaultTuning(), got)
	})

	t.Run("Overrides keep the other defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.yaml")
		content := "player_interval: 150ms\nplayer_lives: 2\nfruits:\n  - name: melon\n    value: 500\n    lifetime: 4s\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 150*time.Millisecond, got.PlayerInterval)
		assert.Equal(t, 2, got.PlayerLives)
		assert.Equal(t, []game.FruitKind{{Name: "melon", Value: 500, Lifetime: 4 * time.Second}}, got.Fruits)
		assert.Equal(t, game.DefaultTuning().HunterInterval, got.HunterInterval)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Invalid values", func(t *testing.T) {
		_, err := Parse([]byte("short_warning: 10s\nshort_expiry: 5s\n"))
		assert.ErrorIs(t, err, maze.ErrConfiguration)
	})

	t.Run("Malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("player_interval: [1, 2"))
		assert.Error(t, err)
	})
}
