package room_test

import (
	"testing"

	"github.com/mkelleher/sketchparty/internal/game/prompt"
	"github.com/mkelleher/sketchparty/internal/game/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// zeroSource always returns 0, making code generation and prompt selection
// deterministic in tests.
type zeroSource struct{}

func (zeroSource) Intn(n int) int {
	if n <= 0 {
		panic("Intn called with n <= 0")
	}
	return 0
}

func testPack() *prompt.Pack {
	return &prompt.Pack{
		ID:      "test",
		Name:    "Test",
		Prompts: []string{"lighthouse", "penguin", "volcano"},
	}
}

func testSettings(t *testing.T) room.Settings {
	t.Helper()
	s, err := room.NewSettings(testPack(), 30, 10, true, 0)
	require.NoError(t, err)
	return s
}

func newTestRoom(t *testing.T) *room.Room {
	t.Helper()
	r, err := room.New(testSettings(t), zeroSource{})
	require.NoError(t, err)
	return r
}

// join is a helper asserting a successful join and returning the player.
func join(t *testing.T, r *room.Room, nickname string) room.PlayerInfo {
	t.Helper()
	res := r.Join(nickname)
	require.Equal(t, room.JoinOK, res.Status, "join %q", nickname)
	return res.Player
}

func TestNew(t *testing.T) {
	r := newTestRoom(t)
	assert.NotEmpty(t, r.ID())
	assert.Len(t, r.Code(), room.CodeLength)
	assert.Equal(t, room.StateLobby, r.State())
	assert.Empty(t, r.Players())
	assert.True(t, r.Empty())
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := room.New(room.Settings{}, zeroSource{})
	assert.Error(t, err, "a room must never be constructed from settings it cannot start with")
}

func TestJoin_FirstJoinerIsAdmin(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	assert.Equal(t, room.RoleAdmin, alice.Role)
	assert.Equal(t, room.RoleMember, bob.Role)
	assert.Equal(t, 0, alice.Score)
	assert.NotEqual(t, alice.ID, bob.ID)
}

func TestJoin_NicknameTaken(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")

	res := r.Join("alice")
	assert.Equal(t, room.JoinNicknameTaken, res.Status)
	assert.Len(t, r.Players(), 1, "rejected join must not change the roster")

	// Rejection is idempotent.
	res = r.Join("alice")
	assert.Equal(t, room.JoinNicknameTaken, res.Status)
	assert.Len(t, r.Players(), 1)
}

func TestJoin_NicknameIsCaseSensitive(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")
	res := r.Join("Alice")
	assert.Equal(t, room.JoinOK, res.Status)
}

func TestJoin_RosterOrderIsJoinOrder(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")
	join(t, r, "bob")
	join(t, r, "carol")

	players := r.Players()
	require.Len(t, players, 3)
	assert.Equal(t, "alice", players[0].Nickname)
	assert.Equal(t, "bob", players[1].Nickname)
	assert.Equal(t, "carol", players[2].Nickname)
}

func TestJoin_DuringPlayBecomesSpectator(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	carol := join(t, r, "carol")
	assert.Equal(t, room.RoleSpectator, carol.Role)
}

func TestJoin_SpectatorsNotAllowed(t *testing.T) {
	s, err := room.NewSettings(testPack(), 30, 10, false, 0)
	require.NoError(t, err)
	r, err := room.New(s, zeroSource{})
	require.NoError(t, err)

	alice := join(t, r, "alice")
	join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	res := r.Join("carol")
	assert.Equal(t, room.JoinSpectatorsNotAllowed, res.Status)
	assert.Len(t, r.Players(), 2)
}

func TestJoin_RoomFull(t *testing.T) {
	s, err := room.NewSettings(testPack(), 30, 10, true, 2)
	require.NoError(t, err)
	r, err := room.New(s, zeroSource{})
	require.NoError(t, err)

	join(t, r, "alice")
	join(t, r, "bob")
	res := r.Join("carol")
	assert.Equal(t, room.JoinRoomFull, res.Status)
}

func TestStart_Unauthorized(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")
	bob := join(t, r, "bob")

	res := r.Start(bob.ID)
	assert.Equal(t, room.StartUnauthorized, res.Status)
	assert.Equal(t, room.StateLobby, r.State())
}

func TestStart_UnknownInitiator(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")

	res := r.Start("no-such-id")
	assert.Equal(t, room.StartUnauthorized, res.Status,
		"unknown initiator is indistinguishable from a non-admin")
	assert.Equal(t, room.StateLobby, r.State())
}

func TestStart_InitialTurn(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	join(t, r, "bob")

	res := r.Start(alice.ID)
	require.Equal(t, room.StartOK, res.Status)
	assert.Equal(t, room.StatePlaying, r.State())
	assert.Equal(t, "lighthouse", res.Turn.Prompt, "the first turn uses the first prompt of the pack")
	assert.Equal(t, 0, res.Turn.TurnIndex)
	assert.Equal(t, 0, res.Turn.Round)
	assert.Equal(t, alice.ID, res.Turn.DrawerID)
}

func TestStart_AlreadyStarted(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	before, ok := r.CurrentTurn()
	require.True(t, ok)

	res := r.Start(alice.ID)
	assert.Equal(t, room.StartAlreadyStarted, res.Status)

	after, ok := r.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, before, after, "a repeated start must not reset the running game")
}

// The end-to-end scenario from the design discussion: two lobby joiners, a
// rejected duplicate, an unauthorized start, a successful start, and a late
// spectator.
func TestRoom_Scenario(t *testing.T) {
	r := newTestRoom(t)

	alice := join(t, r, "alice")
	assert.Equal(t, room.JoinNicknameTaken, r.Join("alice").Status)
	bob := join(t, r, "bob")
	assert.Equal(t, room.RoleMember, bob.Role)

	assert.Equal(t, room.StartUnauthorized, r.Start(bob.ID).Status)

	res := r.Start(alice.ID)
	require.Equal(t, room.StartOK, res.Status)
	assert.Equal(t, room.StatePlaying, r.State())
	assert.Equal(t, 0, res.Turn.Round)
	assert.Equal(t, 0, res.Turn.TurnIndex)
	assert.Equal(t, "lighthouse", res.Turn.Prompt)

	carol := join(t, r, "carol")
	assert.Equal(t, room.RoleSpectator, carol.Role)
}

func TestAdvanceTurn_NotPlaying(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")
	assert.Equal(t, room.AdvanceNotPlaying, r.AdvanceTurn().Status)
}

func TestAdvanceTurn_RotatesAndWraps(t *testing.T) {
	s, err := room.NewSettings(testPack(), 30, 2, true, 0)
	require.NoError(t, err)
	r, err := room.New(s, zeroSource{})
	require.NoError(t, err)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	res := r.AdvanceTurn()
	require.Equal(t, room.AdvanceOK, res.Status)
	assert.Equal(t, bob.ID, res.Turn.DrawerID)
	assert.Equal(t, 1, res.Turn.TurnIndex)
	assert.Equal(t, 0, res.Turn.Round)

	res = r.AdvanceTurn()
	require.Equal(t, room.AdvanceOK, res.Status)
	assert.Equal(t, alice.ID, res.Turn.DrawerID)
	assert.Equal(t, 0, res.Turn.TurnIndex, "turn index wraps to zero")
	assert.Equal(t, 1, res.Turn.Round, "wrapping advances the round")
}

func TestAdvanceTurn_SpectatorsNeverDraw(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)
	carol := join(t, r, "carol")

	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		res := r.AdvanceTurn()
		require.Equal(t, room.AdvanceOK, res.Status)
		seen[res.Turn.DrawerID] = true
		assert.Less(t, res.Turn.TurnIndex, 2,
			"turn index is bounded by the non-spectator count")
	}
	assert.True(t, seen[alice.ID])
	assert.True(t, seen[bob.ID])
	assert.False(t, seen[carol.ID], "a spectator must never become the drawer")
}

func TestAdvanceTurn_GameOver(t *testing.T) {
	s, err := room.NewSettings(testPack(), 30, 1, true, 0)
	require.NoError(t, err)
	r, err := room.New(s, zeroSource{})
	require.NoError(t, err)

	alice := join(t, r, "alice")
	join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	require.Equal(t, room.AdvanceOK, r.AdvanceTurn().Status)
	res := r.AdvanceTurn()
	assert.Equal(t, room.AdvanceGameOver, res.Status)
	assert.Equal(t, room.StateEnded, r.State())
	assert.Len(t, res.Scores, 2)

	assert.Equal(t, room.AdvanceNotPlaying, r.AdvanceTurn().Status)
	assert.Equal(t, room.JoinGameOver, r.Join("dave").Status)
}

func TestGuess_NotPlaying(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	assert.Equal(t, room.GuessNotPlaying, r.Guess(alice.ID, "lighthouse").Status)
}

func TestGuess_Eligibility(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)
	carol := join(t, r, "carol")

	assert.Equal(t, room.GuessNotEligible, r.Guess(alice.ID, "lighthouse").Status,
		"the drawer may not guess")
	assert.Equal(t, room.GuessNotEligible, r.Guess(carol.ID, "lighthouse").Status,
		"spectators may not guess")
	assert.Equal(t, room.GuessUnknownPlayer, r.Guess("no-such-id", "lighthouse").Status)
	assert.Equal(t, room.GuessOK, r.Guess(bob.ID, "lighthouse").Status)
}

func TestGuess_IncorrectDoesNotScore(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	join(t, r, "carol")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	res := r.Guess(bob.ID, "submarine")
	require.Equal(t, room.GuessOK, res.Status)
	assert.False(t, res.Correct)
	assert.False(t, res.TurnAdvanced)
	for _, p := range r.Players() {
		assert.Equal(t, 0, p.Score)
	}
}

func TestGuess_CorrectScoresAndAdvancesWhenAllGuessed(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	carol := join(t, r, "carol")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	// Matching is case-insensitive on trimmed text.
	res := r.Guess(bob.ID, "  LIGHTHOUSE ")
	require.Equal(t, room.GuessOK, res.Status)
	require.True(t, res.Correct)
	assert.Equal(t, 20, res.GuesserAward, "two open guessers at guess time")
	assert.Equal(t, 5, res.DrawerAward)
	assert.False(t, res.TurnAdvanced, "carol has not guessed yet")

	assert.Equal(t, room.GuessAlreadyCorrect, r.Guess(bob.ID, "lighthouse").Status)

	res = r.Guess(carol.ID, "lighthouse")
	require.Equal(t, room.GuessOK, res.Status)
	require.True(t, res.Correct)
	assert.Equal(t, 10, res.GuesserAward, "one open guesser at guess time")
	assert.True(t, res.TurnAdvanced, "the last correct guess ends the turn")
	require.Equal(t, room.AdvanceOK, res.Advance.Status)
	assert.Equal(t, bob.ID, res.Advance.Turn.DrawerID)

	scores := map[string]int{}
	for _, p := range r.Players() {
		scores[p.Nickname] = p.Score
	}
	assert.Equal(t, 10, scores["alice"], "drawer bonus per correct guess")
	assert.Equal(t, 20, scores["bob"])
	assert.Equal(t, 10, scores["carol"])
}

func TestAdvanceTurnFrom_StaleTurnIsIgnored(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	first, ok := r.CurrentTurn()
	require.True(t, ok)

	// Bob's correct guess ends the turn before the timer for it expires.
	res := r.Guess(bob.ID, "lighthouse")
	require.True(t, res.Correct)
	require.True(t, res.TurnAdvanced)
	require.Equal(t, bob.ID, res.Advance.Turn.DrawerID)

	// The expiry for the ended turn must not advance play a second time.
	stale := r.AdvanceTurnFrom(first.Seq)
	assert.Equal(t, room.AdvanceSuperseded, stale.Status)
	cur, ok := r.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, res.Advance.Turn, cur, "a stale expiry must leave the room unchanged")

	// An expiry for the live turn still advances.
	live := r.AdvanceTurnFrom(cur.Seq)
	require.Equal(t, room.AdvanceOK, live.Status)
	assert.Equal(t, alice.ID, live.Turn.DrawerID)
	assert.Equal(t, 1, live.Turn.Round)
}

func TestAdvanceTurnFrom_NotPlaying(t *testing.T) {
	r := newTestRoom(t)
	join(t, r, "alice")
	assert.Equal(t, room.AdvanceNotPlaying, r.AdvanceTurnFrom(1).Status)
}

func TestLeave_UnknownPlayer(t *testing.T) {
	r := newTestRoom(t)
	assert.Equal(t, room.LeaveUnknownPlayer, r.Leave("nope").Status)
}

func TestLeave_FreesNickname(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	res := r.Leave(bob.ID)
	require.Equal(t, room.LeaveOK, res.Status)
	assert.Len(t, res.Roster, 1)

	again := r.Join("bob")
	assert.Equal(t, room.JoinOK, again.Status, "a departed player's nickname is free again")
	_ = alice
}

func TestLeave_AdminPromotion(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	carol := join(t, r, "carol")

	res := r.Leave(alice.ID)
	require.Equal(t, room.LeaveOK, res.Status)
	assert.Equal(t, bob.ID, res.NewAdminID, "the earliest-joined member inherits admin")

	roles := map[string]room.Role{}
	for _, p := range r.Players() {
		roles[p.ID] = p.Role
	}
	assert.Equal(t, room.RoleAdmin, roles[bob.ID])
	assert.Equal(t, room.RoleMember, roles[carol.ID])
}

func TestLeave_DrawerLeavingAdvancesTurn(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	carol := join(t, r, "carol")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	res := r.Leave(alice.ID)
	require.Equal(t, room.LeaveOK, res.Status)
	require.True(t, res.TurnAdvanced)
	require.Equal(t, room.AdvanceOK, res.Advance.Status)
	assert.Equal(t, bob.ID, res.Advance.Turn.DrawerID)
	assert.Equal(t, 0, res.Advance.Turn.Round)
	_ = carol
}

func TestLeave_TooFewPlayersEndsGame(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	res := r.Leave(bob.ID)
	require.Equal(t, room.LeaveOK, res.Status)
	assert.True(t, res.TurnAdvanced)
	assert.Equal(t, room.AdvanceGameOver, res.Advance.Status)
	assert.Equal(t, room.StateEnded, r.State())
}

func TestLeave_LastOpenGuesserLeavingAdvancesTurn(t *testing.T) {
	r := newTestRoom(t)
	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	carol := join(t, r, "carol")
	require.Equal(t, room.StartOK, r.Start(alice.ID).Status)

	res := r.Guess(bob.ID, "lighthouse")
	require.True(t, res.Correct)

	// Carol was the only open guesser left; her departure ends the turn.
	leave := r.Leave(carol.ID)
	require.Equal(t, room.LeaveOK, leave.Status)
	assert.True(t, leave.TurnAdvanced)
	require.Equal(t, room.AdvanceOK, leave.Advance.Status)
	assert.Equal(t, bob.ID, leave.Advance.Turn.DrawerID)
}

// Property: any sequence of joins with distinct nicknames all succeed and
// the roster size equals the number of calls, in order.
func TestJoin_DistinctNicknames_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, err := room.New(room.Settings{
			Pack:         testPack(),
			GuessSeconds: 30,
			Rounds:       10,
		}, zeroSource{})
		require.NoError(rt, err)

		nicknames := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z]{1,10}`), 1, 30,
			func(s string) string { return s },
		).Draw(rt, "nicknames")

		for _, n := range nicknames {
			res := r.Join(n)
			assert.Equal(rt, room.JoinOK, res.Status)
		}
		players := r.Players()
		require.Len(rt, players, len(nicknames))
		for i, n := range nicknames {
			assert.Equal(rt, n, players[i].Nickname)
		}
		assert.Equal(rt, room.RoleAdmin, players[0].Role)
		for _, p := range players[1:] {
			assert.Equal(rt, room.RoleMember, p.Role)
		}
	})
}
