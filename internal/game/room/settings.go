package room

import (
	"fmt"
	"time"

	"github.com/mkelleher/sketchparty/internal/game/prompt"
)

// Defaults applied by DefaultSettings.
const (
	DefaultGuessSeconds = 30
	DefaultRounds       = 10
	DefaultMaxPlayers   = 12
)

// Settings is the immutable configuration a room is created with. It is
// fixed at construction and never changes afterward, so the validation here
// is the only gate: a room built from valid Settings can always start.
type Settings struct {
	// Pack is the prompt list drawn from during play. Never empty.
	Pack *prompt.Pack
	// GuessSeconds is the time limit for one drawing turn, in seconds.
	GuessSeconds int
	// Rounds is the number of full rotations through the playing roster
	// before the game ends.
	Rounds int
	// AllowSpectators controls whether joins are accepted after the game
	// has started.
	AllowSpectators bool
	// MaxPlayers caps the roster size, spectators included. 0 means no cap.
	MaxPlayers int
}

// NewSettings validates and returns a Settings value.
//
// Postcondition: Returns valid Settings or a non-nil error. A returned
// Settings always has a non-empty prompt pack and positive timer and round
// values.
func NewSettings(pack *prompt.Pack, guessSeconds, rounds int, allowSpectators bool, maxPlayers int) (Settings, error) {
	s := Settings{
		Pack:            pack,
		GuessSeconds:    guessSeconds,
		Rounds:          rounds,
		AllowSpectators: allowSpectators,
		MaxPlayers:      maxPlayers,
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DefaultSettings returns Settings backed by the bundled prompt pack:
// 30-second turns, 10 rounds, spectators allowed, 12-player cap.
func DefaultSettings() Settings {
	s, err := NewSettings(prompt.DefaultPack(), DefaultGuessSeconds, DefaultRounds, true, DefaultMaxPlayers)
	if err != nil {
		panic("room: default settings are invalid: " + err.Error())
	}
	return s
}

// GuessTime returns the per-turn time limit as a duration.
func (s Settings) GuessTime() time.Duration {
	return time.Duration(s.GuessSeconds) * time.Second
}

func (s Settings) validate() error {
	if s.Pack == nil {
		return fmt.Errorf("settings: prompt pack must not be nil")
	}
	if err := s.Pack.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if s.GuessSeconds <= 0 {
		return fmt.Errorf("settings: guess seconds must be positive, got %d", s.GuessSeconds)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("settings: rounds must be positive, got %d", s.Rounds)
	}
	if s.MaxPlayers < 0 {
		return fmt.Errorf("settings: max players must not be negative, got %d", s.MaxPlayers)
	}
	if s.MaxPlayers == 1 {
		return fmt.Errorf("settings: max players must allow at least two players, got 1")
	}
	return nil
}
