package room

// roster is the ordered player collection embedded in a Room. Insertion
// order is join order. It is a plain slice, not a concurrent structure:
// every access happens under the owning Room's lock. Lookups are O(n),
// which is fine for rooms of a handful to a few dozen players.
type roster []*Player

// byID returns the player with the given id, or nil.
func (r roster) byID(id string) *Player {
	for _, p := range r {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// hasNickname reports whether any player holds nickname (exact match).
func (r roster) hasNickname(nickname string) bool {
	for _, p := range r {
		if p.Nickname == nickname {
			return true
		}
	}
	return false
}

// playing returns the subsequence of players that take turns, in join order.
// The turn index is always an index into this subsequence, never the full
// roster.
func (r roster) playing() []*Player {
	var out []*Player
	for _, p := range r {
		if p.Role.Plays() {
			out = append(out, p)
		}
	}
	return out
}

// firstMember returns the earliest-joined player with RoleMember, or nil.
func (r roster) firstMember() *Player {
	for _, p := range r {
		if p.Role == RoleMember {
			return p
		}
	}
	return nil
}

// remove deletes the player with the given id, preserving order.
// Returns the removed player, or nil if not present.
func (r *roster) remove(id string) *Player {
	for i, p := range *r {
		if p.ID == id {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return p
		}
	}
	return nil
}

// infos returns externally visible copies of all players, in join order.
func (r roster) infos() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r))
	for _, p := range r {
		out = append(out, p.info())
	}
	return out
}
