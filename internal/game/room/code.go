package room

import (
	"strings"

	"github.com/mkelleher/sketchparty/internal/game/rng"
)

// CodeLength is the length of every generated room code.
const CodeLength = 7

// codeAlphabet is the alphanumeric alphabet room codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCode returns a room code of CodeLength characters drawn uniformly
// from the alphanumeric alphabet. Uniqueness across live rooms is the
// directory's responsibility, not the code generator's.
//
// Precondition: src must be non-nil.
func GenerateCode(src rng.Source) string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[src.Intn(len(codeAlphabet))])
	}
	return b.String()
}
