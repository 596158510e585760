package room

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkelleher/sketchparty/internal/game/rng"
)

// State is the lifecycle phase of a room.
type State string

const (
	// StateLobby is the pre-game phase. Joins produce members and the admin
	// may start the game.
	StateLobby State = "lobby"
	// StatePlaying is the in-progress phase. Late joiners become
	// spectators. There is no path back to the lobby.
	StatePlaying State = "playing"
	// StateEnded is terminal: the configured rounds completed, or too few
	// players remained to keep playing.
	StateEnded State = "ended"
)

// Per-guess score awards. The guesser's award scales with how many open
// guessers remain when the correct guess lands, so earlier guesses are worth
// more; the drawer collects a flat bonus for every correct guess.
const (
	guesserAwardPerOpen = 10
	drawerAwardPerGuess = 5
)

// ongoingGame is the active-play state, created exactly once at the
// Lobby to Playing transition and discarded when the game ends.
type ongoingGame struct {
	prompt    string
	turnIndex int
	round     int
	// seq numbers the turns of this game, starting at 1. Roster changes
	// can shift turnIndex without ending the turn, so the pair
	// (round, turnIndex) does not identify a turn; seq does.
	seq uint64
	// guessed holds the ids of players who already matched the prompt this
	// turn. Reset on every turn change.
	guessed map[string]bool
}

// Room is one isolated game instance: the single authority over its roster
// and progression. Every operation takes the room's mutex for its full
// duration and performs no blocking calls while holding it, so commands from
// concurrently connected clients apply one at a time.
type Room struct {
	mu        sync.Mutex
	id        string
	code      string
	createdAt time.Time
	settings  Settings
	src       rng.Source
	state     State
	players   roster
	game      *ongoingGame
}

// New creates a room in the Lobby state with an empty roster, a fresh id,
// and a generated room code. Code uniqueness across live rooms is enforced
// by the directory, not here.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a Lobby-state room, or an error if settings are
// invalid. A room that is successfully constructed can always be started.
func New(settings Settings, src rng.Source) (*Room, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &Room{
		id:        uuid.NewString(),
		code:      GenerateCode(src),
		createdAt: time.Now(),
		settings:  settings,
		src:       src,
		state:     StateLobby,
	}, nil
}

// ID returns the room's unique identifier.
func (r *Room) ID() string { return r.id }

// Code returns the human-shareable room code.
func (r *Room) Code() string { return r.code }

// CreatedAt returns the room's creation time.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// Settings returns the room's immutable configuration.
func (r *Room) Settings() Settings { return r.settings }

// State returns the current lifecycle phase.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Players returns a copy of the roster in join order.
func (r *Room) Players() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players.infos()
}

// Empty reports whether the roster has no players. The directory evicts
// empty rooms.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// CurrentTurn returns the active turn, if the room is playing.
func (r *Room) CurrentTurn() (TurnInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePlaying {
		return TurnInfo{}, false
	}
	return r.turnInfoLocked(r.players.playing()), true
}

// Join adds a player with the given nickname. The role is decided by the
// room's state at this instant: the first lobby joiner becomes the admin,
// later lobby joiners become members, and joiners during play become
// spectators when the settings allow them. On any non-OK status the room is
// unchanged.
func (r *Room) Join(nickname string) JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateEnded {
		return JoinResult{Status: JoinGameOver}
	}
	if r.players.hasNickname(nickname) {
		return JoinResult{Status: JoinNicknameTaken}
	}
	if r.settings.MaxPlayers > 0 && len(r.players) >= r.settings.MaxPlayers {
		return JoinResult{Status: JoinRoomFull}
	}

	var role Role
	switch r.state {
	case StateLobby:
		role = RoleMember
		if !r.hasAdminLocked() {
			role = RoleAdmin
		}
	case StatePlaying:
		if !r.settings.AllowSpectators {
			return JoinResult{Status: JoinSpectatorsNotAllowed}
		}
		role = RoleSpectator
	}

	p := &Player{
		ID:       uuid.NewString(),
		Nickname: nickname,
		Role:     role,
	}
	r.players = append(r.players, p)

	return JoinResult{
		Status: JoinOK,
		Player: p.info(),
		Roster: r.players.infos(),
	}
}

// Start transitions the room from Lobby to Playing. Only the admin may
// start; unknown initiator ids are treated as unauthorized. Starting an
// already-running (or finished) game is a benign no-op signal.
//
// Postcondition: On StartOK the room is Playing with round 0, turn 0, and
// the first prompt of the pack active.
func (r *Room) Start(initiatorID string) StartResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	initiator := r.players.byID(initiatorID)
	if initiator == nil || initiator.Role != RoleAdmin {
		return StartResult{Status: StartUnauthorized}
	}
	if r.state != StateLobby {
		return StartResult{Status: StartAlreadyStarted}
	}

	r.state = StatePlaying
	r.game = &ongoingGame{
		prompt:  r.settings.Pack.Prompts[0],
		seq:     1,
		guessed: make(map[string]bool),
	}

	return StartResult{
		Status: StartOK,
		Turn:   r.turnInfoLocked(r.players.playing()),
	}
}

// Guess evaluates a guess against the current prompt. Matching is
// case-insensitive on the trimmed text. A correct guess scores the guesser
// and the drawer; once every eligible guesser has the prompt, the turn
// advances immediately without waiting for the timer.
func (r *Room) Guess(playerID, text string) GuessResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return GuessResult{Status: GuessNotPlaying}
	}
	p := r.players.byID(playerID)
	if p == nil {
		return GuessResult{Status: GuessUnknownPlayer}
	}
	eligible := r.players.playing()
	drawer := eligible[r.game.turnIndex]
	if !p.Role.Plays() || p.ID == drawer.ID {
		return GuessResult{Status: GuessNotEligible}
	}
	if r.game.guessed[p.ID] {
		return GuessResult{Status: GuessAlreadyCorrect}
	}

	if !strings.EqualFold(strings.TrimSpace(text), r.game.prompt) {
		return GuessResult{Status: GuessOK, Correct: false, Guesser: p.info()}
	}

	open := r.openGuessersLocked(eligible, drawer)
	guesserAward := guesserAwardPerOpen * open
	p.Score += guesserAward
	drawer.Score += drawerAwardPerGuess

	r.game.guessed[p.ID] = true

	res := GuessResult{
		Status:       GuessOK,
		Correct:      true,
		Guesser:      p.info(),
		GuesserAward: guesserAward,
		DrawerAward:  drawerAwardPerGuess,
	}
	if open == 1 {
		// That was the last open guesser.
		res.TurnAdvanced = true
		res.Advance = r.advanceLocked()
	}
	return res
}

// AdvanceTurn moves play to the next drawer, wrapping into a new round when
// the rotation completes and ending the game after the final round. The
// prompt for the new turn is drawn uniformly at random from the pack.
func (r *Room) AdvanceTurn() AdvanceResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return AdvanceResult{Status: AdvanceNotPlaying}
	}
	return r.advanceLocked()
}

// AdvanceTurnFrom advances play only if the turn identified by seq is still
// the active one. Timer expiries use it: a guess or a departure may have
// ended the turn after the expiry was scheduled, and an unconditional
// advance would then skip the new drawer's turn.
//
// Postcondition: On AdvanceSuperseded the room is unchanged.
func (r *Room) AdvanceTurnFrom(seq uint64) AdvanceResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return AdvanceResult{Status: AdvanceNotPlaying}
	}
	if r.game.seq != seq {
		return AdvanceResult{Status: AdvanceSuperseded}
	}
	return r.advanceLocked()
}

// Leave removes a player, freeing the nickname. A departing admin passes the
// role to the earliest-joined member. During play, a departing drawer ends
// the current turn; the game ends when fewer than two playing participants
// remain.
func (r *Room) Leave(playerID string) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.players.byID(playerID)
	if p == nil {
		return LeaveResult{Status: LeaveUnknownPlayer}
	}

	wasDrawer := false
	posInEligible := -1
	if r.state == StatePlaying && p.Role.Plays() {
		eligible := r.players.playing()
		for i, e := range eligible {
			if e.ID == p.ID {
				posInEligible = i
				break
			}
		}
		wasDrawer = posInEligible == r.game.turnIndex
	}

	r.players.remove(p.ID)
	res := LeaveResult{Status: LeaveOK, Player: p.info()}

	if p.Role == RoleAdmin {
		if m := r.players.firstMember(); m != nil {
			m.Role = RoleAdmin
			res.NewAdminID = m.ID
		}
	}

	if r.state == StatePlaying && p.Role.Plays() {
		delete(r.game.guessed, p.ID)
		remaining := r.players.playing()
		switch {
		case len(remaining) < 2:
			// A drawing game needs a drawer and at least one guesser.
			res.TurnAdvanced = true
			res.Advance = r.endLocked()
		case wasDrawer:
			// The roster shifted, so turnIndex already points at the
			// successor; only wrap handling remains.
			if r.game.turnIndex >= len(remaining) {
				r.game.turnIndex = 0
				r.game.round++
			}
			res.TurnAdvanced = true
			if r.game.round >= r.settings.Rounds {
				res.Advance = r.endLocked()
			} else {
				res.Advance = r.newTurnLocked(remaining)
			}
		default:
			if posInEligible >= 0 && posInEligible < r.game.turnIndex {
				r.game.turnIndex--
			}
			if r.allGuessedLocked(remaining) {
				res.TurnAdvanced = true
				res.Advance = r.advanceLocked()
			}
		}
	}

	res.Roster = r.players.infos()
	return res
}

func (r *Room) hasAdminLocked() bool {
	for _, p := range r.players {
		if p.Role == RoleAdmin {
			return true
		}
	}
	return false
}

// openGuessersLocked counts eligible guessers who have not matched the
// prompt yet this turn.
func (r *Room) openGuessersLocked(eligible []*Player, drawer *Player) int {
	open := 0
	for _, p := range eligible {
		if p.ID != drawer.ID && !r.game.guessed[p.ID] {
			open++
		}
	}
	return open
}

// allGuessedLocked reports whether every eligible guesser has matched the
// prompt this turn.
func (r *Room) allGuessedLocked(eligible []*Player) bool {
	drawer := eligible[r.game.turnIndex]
	return r.openGuessersLocked(eligible, drawer) == 0
}

func (r *Room) advanceLocked() AdvanceResult {
	eligible := r.players.playing()
	if len(eligible) == 0 {
		return r.endLocked()
	}
	r.game.turnIndex++
	if r.game.turnIndex >= len(eligible) {
		r.game.turnIndex = 0
		r.game.round++
		if r.game.round >= r.settings.Rounds {
			return r.endLocked()
		}
	}
	return r.newTurnLocked(eligible)
}

// newTurnLocked starts a fresh turn for the drawer at the current turn
// index: new random prompt, cleared guess set.
func (r *Room) newTurnLocked(eligible []*Player) AdvanceResult {
	prompts := r.settings.Pack.Prompts
	r.game.prompt = prompts[r.src.Intn(len(prompts))]
	r.game.seq++
	r.game.guessed = make(map[string]bool)
	return AdvanceResult{
		Status: AdvanceOK,
		Turn:   r.turnInfoLocked(eligible),
	}
}

func (r *Room) endLocked() AdvanceResult {
	r.state = StateEnded
	r.game = nil
	return AdvanceResult{
		Status: AdvanceGameOver,
		Scores: r.players.infos(),
	}
}

func (r *Room) turnInfoLocked(eligible []*Player) TurnInfo {
	drawer := eligible[r.game.turnIndex]
	return TurnInfo{
		Prompt:         r.game.prompt,
		DrawerID:       drawer.ID,
		DrawerNickname: drawer.Nickname,
		TurnIndex:      r.game.turnIndex,
		Round:          r.game.round,
		Seq:            r.game.seq,
	}
}
