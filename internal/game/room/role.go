// Package room implements the game core: one Room per game, owning its
// roster, settings, and turn progression. All mutating operations
// on a Room are serialized behind a single mutex so no two commands ever
// interleave their effects.
package room

// Role is a player's authority level within a room.
type Role string

const (
	// RoleAdmin is held by exactly zero or one player per room and is the
	// only role allowed to start the game.
	RoleAdmin Role = "admin"
	// RoleMember is a regular participant who draws and guesses.
	RoleMember Role = "member"
	// RoleSpectator joined after the game started and only watches.
	RoleSpectator Role = "spectator"
)

// Plays reports whether the role takes turns drawing and guessing.
func (r Role) Plays() bool {
	return r == RoleAdmin || r == RoleMember
}
