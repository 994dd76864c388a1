package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "correct-Horse-battery-staple-42"

func TestNewPlayer(t *testing.T) {
	t.Run("Valid player", func(t *testing.T) {
		id := uuid.New()
		p, err := NewPlayer(PlayerConfig{ID: id, Username: "pac_fan", PlainPassword: strongPassword})
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "pac_fan", p.Username)
		assert.NotEqual(t, strongPassword, p.PasswordHash)
		assert.True(t, p.VerifyPassword(strongPassword))
		assert.False(t, p.VerifyPassword("wrong"))
	})

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"short username", "ab", strongPassword, ErrUsernameTooShort},
		{"long username", "abcdefghijklmnopqrstuvwxyz", strongPassword, ErrUsernameTooLong},
		{"bad characters", "pac-fan!", strongPassword, ErrUsernameFormat},
		{"weak password", "pac_fan", "password", ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlayer(PlayerConfig{ID: uuid.New(), Username: tt.username, PlainPassword: tt.password})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecordLevel(t *testing.T) {
	p := &Player{}
	assert.True(t, p.RecordLevel(120, false))
	assert.False(t, p.RecordLevel(80, true))
	assert.True(t, p.RecordLevel(300, true))

	assert.Equal(t, 3, p.LevelsPlayed)
	assert.Equal(t, 2, p.LevelsWon)
	assert.Equal(t, 300, p.BestScore)
}
