package room_test

import (
	"testing"
	"time"

	"github.com/mkelleher/sketchparty/internal/game/prompt"
	"github.com/mkelleher/sketchparty/internal/game/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings(t *testing.T) {
	s, err := room.NewSettings(testPack(), 45, 5, false, 8)
	require.NoError(t, err)
	assert.Equal(t, 45, s.GuessSeconds)
	assert.Equal(t, 45*time.Second, s.GuessTime())
	assert.Equal(t, 5, s.Rounds)
	assert.False(t, s.AllowSpectators)
	assert.Equal(t, 8, s.MaxPlayers)
}

func TestNewSettings_Errors(t *testing.T) {
	cases := []struct {
		name    string
		pack    *prompt.Pack
		seconds int
		rounds  int
		max     int
		want    string
	}{
		{"nil pack", nil, 30, 10, 0, "prompt pack must not be nil"},
		{"empty pack", &prompt.Pack{ID: "x", Name: "X"}, 30, 10, 0, "at least one prompt"},
		{"zero seconds", testPack(), 0, 10, 0, "guess seconds must be positive"},
		{"negative seconds", testPack(), -1, 10, 0, "guess seconds must be positive"},
		{"zero rounds", testPack(), 30, 0, 0, "rounds must be positive"},
		{"negative max", testPack(), 30, 10, -1, "must not be negative"},
		{"cap of one", testPack(), 30, 10, 1, "at least two players"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := room.NewSettings(tc.pack, tc.seconds, tc.rounds, true, tc.max)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := room.DefaultSettings()
	assert.Equal(t, room.DefaultGuessSeconds, s.GuessSeconds)
	assert.Equal(t, room.DefaultRounds, s.Rounds)
	assert.Equal(t, room.DefaultMaxPlayers, s.MaxPlayers)
	assert.True(t, s.AllowSpectators)
	require.NotNil(t, s.Pack)
	assert.Same(t, prompt.DefaultPack(), s.Pack)
}
