package room

// Player is one connected participant. Players are owned exclusively by
// their Room and mutated only under the Room's lock; callers outside the
// package see PlayerInfo copies.
type Player struct {
	// ID is the opaque unique identifier assigned at join time. Stable for
	// the lifetime of the connection.
	ID string
	// Nickname is unique within the room, compared case-sensitively, and
	// immutable after join.
	Nickname string
	// Score is the accumulated point total. Never negative.
	Score int
	// Role is fixed by the room's state at the instant the player joined.
	Role Role
}

// PlayerInfo is the externally visible copy of a player's state.
type PlayerInfo struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Role     Role   `json:"role"`
}

// info returns a copy safe to hand outside the room's lock.
func (p *Player) info() PlayerInfo {
	return PlayerInfo{ID: p.ID, Nickname: p.Nickname, Score: p.Score, Role: p.Role}
}
