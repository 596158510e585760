package room

// Every room operation returns a discriminated result: a status value plus
// whatever payload the transport layer needs to reply to the caller and
// broadcast the change to the rest of the room. Expected failures are
// statuses, never errors or panics.

// JoinStatus classifies the outcome of a Join.
type JoinStatus string

const (
	// JoinOK means the player was added to the roster.
	JoinOK JoinStatus = "ok"
	// JoinNicknameTaken means an existing player already holds the nickname.
	JoinNicknameTaken JoinStatus = "nickname_taken"
	// JoinSpectatorsNotAllowed means the game is running and the room was
	// created with spectators disabled.
	JoinSpectatorsNotAllowed JoinStatus = "spectators_not_allowed"
	// JoinRoomFull means the roster has reached the configured cap.
	JoinRoomFull JoinStatus = "room_full"
	// JoinGameOver means the game has finished; the room accepts no one.
	JoinGameOver JoinStatus = "game_over"
)

// JoinResult is the outcome of a Join call. On JoinOK, Player is the new
// player and Roster is the full post-join roster for broadcasting. On any
// other status the room is unchanged.
type JoinResult struct {
	Status JoinStatus
	Player PlayerInfo
	Roster []PlayerInfo
}

// StartStatus classifies the outcome of a Start.
type StartStatus string

const (
	// StartOK means the room transitioned from Lobby to Playing.
	StartOK StartStatus = "ok"
	// StartAlreadyStarted means the room had already left the lobby.
	// Repeated start requests are a benign no-op, not an error.
	StartAlreadyStarted StartStatus = "already_started"
	// StartUnauthorized means the initiator is not the admin. Unknown
	// initiator ids are treated identically.
	StartUnauthorized StartStatus = "unauthorized"
)

// StartResult is the outcome of a Start call. On StartOK, Turn describes the
// initial turn for broadcasting.
type StartResult struct {
	Status StartStatus
	Turn   TurnInfo
}

// GuessStatus classifies the outcome of a Guess.
type GuessStatus string

const (
	// GuessOK means the guess was accepted and evaluated; Correct says
	// whether it matched the current prompt.
	GuessOK GuessStatus = "ok"
	// GuessNotPlaying means the room is not in the Playing state.
	GuessNotPlaying GuessStatus = "not_playing"
	// GuessNotEligible means the guesser is the current drawer or a
	// spectator.
	GuessNotEligible GuessStatus = "not_eligible"
	// GuessAlreadyCorrect means the player already guessed the prompt this
	// turn and may not score twice.
	GuessAlreadyCorrect GuessStatus = "already_correct"
	// GuessUnknownPlayer means no player with the given id is in the room.
	GuessUnknownPlayer GuessStatus = "unknown_player"
)

// GuessResult is the outcome of a Guess call. When the last open guesser
// gets the prompt right the turn advances immediately: TurnAdvanced is set
// and Advance carries the same payload an AdvanceTurn call would return.
type GuessResult struct {
	Status       GuessStatus
	Correct      bool
	Guesser      PlayerInfo
	DrawerAward  int
	GuesserAward int
	TurnAdvanced bool
	Advance      AdvanceResult
}

// AdvanceStatus classifies the outcome of an AdvanceTurn.
type AdvanceStatus string

const (
	// AdvanceOK means the turn moved to the next drawer.
	AdvanceOK AdvanceStatus = "ok"
	// AdvanceGameOver means the final round completed and the room is now
	// in the Ended state. Turn is not meaningful; Scores is.
	AdvanceGameOver AdvanceStatus = "game_over"
	// AdvanceNotPlaying means the room is not in the Playing state.
	AdvanceNotPlaying AdvanceStatus = "not_playing"
	// AdvanceSuperseded means the turn an AdvanceTurnFrom call referred to
	// already ended; the room is unchanged.
	AdvanceSuperseded AdvanceStatus = "superseded"
)

// AdvanceResult is the outcome of an AdvanceTurn call.
type AdvanceResult struct {
	Status AdvanceStatus
	Turn   TurnInfo
	// Scores is the final roster, populated when Status is AdvanceGameOver.
	Scores []PlayerInfo
}

// LeaveStatus classifies the outcome of a Leave.
type LeaveStatus string

const (
	// LeaveOK means the player was removed and the nickname freed.
	LeaveOK LeaveStatus = "ok"
	// LeaveUnknownPlayer means no player with the given id is in the room.
	LeaveUnknownPlayer LeaveStatus = "unknown_player"
)

// LeaveResult is the outcome of a Leave call. NewAdminID is non-empty when
// the departing admin's role passed to the earliest-joined member.
// TurnAdvanced is set when the departing player was the current drawer and
// the turn moved on; Advance then carries the new turn (or game over).
type LeaveResult struct {
	Status       LeaveStatus
	Player       PlayerInfo
	Roster       []PlayerInfo
	NewAdminID   string
	TurnAdvanced bool
	Advance      AdvanceResult
}

// TurnInfo describes the active turn for broadcasting.
type TurnInfo struct {
	// Prompt is the word the drawer must draw.
	Prompt string `json:"prompt"`
	// DrawerID and DrawerNickname identify whose turn it is.
	DrawerID       string `json:"drawerId"`
	DrawerNickname string `json:"drawerNickname"`
	// TurnIndex is the zero-based index into the playing (non-spectator)
	// subsequence of the roster.
	TurnIndex int `json:"turnIndex"`
	// Round is the zero-based round counter.
	Round int `json:"round"`
	// Seq identifies this turn within the game, starting at 1. It keys
	// AdvanceTurnFrom and is not part of the wire payload.
	Seq uint64 `json:"-"`
}
