// Package gateway terminates client websocket connections and relays typed
// commands to rooms: it owns the wire framing, the per-room broadcast
// fan-out, and the turn timers. All game rules live in the room package;
// nothing here mutates game state except by calling a room operation.
package gateway

import (
	"encoding/json"

	"github.com/mkelleher/sketchparty/internal/game/room"
)

// Client command types.
const (
	CmdStart = "start"
	CmdGuess = "guess"
)

// ClientCommand is one inbound message from a connected player. Join is not
// a command: it happens during the websocket handshake, keyed by the
// nickname query parameter.
type ClientCommand struct {
	Type string `json:"type"`
	// Text is the guess text for CmdGuess.
	Text string `json:"text,omitempty"`
}

// Server message types.
const (
	MsgWelcome      = "welcome"
	MsgRoster       = "roster"
	MsgGameStarted  = "game_started"
	MsgTurn         = "turn"
	MsgGuess        = "guess"
	MsgCorrectGuess = "correct_guess"
	MsgGameOver     = "game_over"
	MsgError        = "error"
)

// ServerMessage is one outbound frame. Type selects which fields are
// populated.
type ServerMessage struct {
	Type string `json:"type"`
	// Error carries a room status string ("nickname_taken", "unauthorized",
	// ...) on MsgError.
	Error string `json:"error,omitempty"`

	// RoomCode and Player are sent on MsgWelcome.
	RoomCode string           `json:"roomCode,omitempty"`
	Player   *room.PlayerInfo `json:"player,omitempty"`
	State    room.State       `json:"state,omitempty"`

	// Roster accompanies MsgWelcome, MsgRoster, and MsgGameOver.
	Roster []room.PlayerInfo `json:"roster,omitempty"`

	// Turn is sent on MsgGameStarted and MsgTurn.
	Turn *room.TurnInfo `json:"turn,omitempty"`

	// Nickname and Text describe a guess on MsgGuess and MsgCorrectGuess.
	Nickname     string `json:"nickname,omitempty"`
	Text         string `json:"text,omitempty"`
	GuesserAward int    `json:"guesserAward,omitempty"`
	DrawerAward  int    `json:"drawerAward,omitempty"`
}

// encode marshals m for the wire. Marshalling a ServerMessage cannot fail;
// a failure here is a programming error.
func (m ServerMessage) encode() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		panic("gateway: encoding server message: " + err.Error())
	}
	return data
}

func errorMessage(status string) ServerMessage {
	return ServerMessage{Type: MsgError, Error: status}
}

func welcomeMessage(code string, state room.State, player room.PlayerInfo, roster []room.PlayerInfo) ServerMessage {
	return ServerMessage{
		Type:     MsgWelcome,
		RoomCode: code,
		State:    state,
		Player:   &player,
		Roster:   roster,
	}
}

func rosterMessage(roster []room.PlayerInfo) ServerMessage {
	return ServerMessage{Type: MsgRoster, Roster: roster}
}

func gameStartedMessage(turn room.TurnInfo) ServerMessage {
	return ServerMessage{Type: MsgGameStarted, Turn: &turn}
}

func turnMessage(turn room.TurnInfo) ServerMessage {
	return ServerMessage{Type: MsgTurn, Turn: &turn}
}

func guessMessage(nickname, text string) ServerMessage {
	return ServerMessage{Type: MsgGuess, Nickname: nickname, Text: text}
}

func correctGuessMessage(nickname string, guesserAward, drawerAward int) ServerMessage {
	return ServerMessage{
		Type:         MsgCorrectGuess,
		Nickname:     nickname,
		GuesserAward: guesserAward,
		DrawerAward:  drawerAward,
	}
}

func gameOverMessage(scores []room.PlayerInfo) ServerMessage {
	return ServerMessage{Type: MsgGameOver, Roster: scores}
}
