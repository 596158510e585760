package prompt

import (
	_ "embed"
	"sync"
)

//go:embed default_prompts.yaml
var defaultPackYAML []byte

var loadDefault = sync.OnceValue(func() *Pack {
	pack, err := LoadPackFromBytes(defaultPackYAML)
	if err != nil {
		panic("prompt: bundled default pack is invalid: " + err.Error())
	}
	return pack
})

// DefaultPack returns the bundled prompt pack. The pack is parsed once and
// shared; callers must not mutate it.
//
// Postcondition: Returns a non-nil, validated Pack.
func DefaultPack() *Pack {
	return loadDefault()
}
