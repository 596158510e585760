// Package prompt provides drawing-prompt packs: the word lists a room draws
// from during play.
package prompt

import "fmt"

// Pack is a named, ordered list of drawing prompts.
type Pack struct {
	// ID uniquely identifies this pack.
	ID string
	// Name is the display name shown when picking a pack.
	Name string
	// Description summarizes the pack's theme.
	Description string
	// Prompts is the ordered list of prompt strings. Order matters: the
	// first prompt is the one a freshly started game begins with.
	Prompts []string
}

// Validate checks pack invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (p *Pack) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pack ID must not be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("pack %q: name must not be empty", p.ID)
	}
	if len(p.Prompts) == 0 {
		return fmt.Errorf("pack %q: must contain at least one prompt", p.ID)
	}
	for i, prompt := range p.Prompts {
		if prompt == "" {
			return fmt.Errorf("pack %q: prompt %d is empty", p.ID, i)
		}
	}
	return nil
}

// Registry indexes loaded packs by ID.
type Registry struct {
	packs map[string]*Pack
	order []string
}

// NewRegistry creates a Registry from the given packs.
//
// Precondition: packs must contain at least one pack.
// Postcondition: Returns a Registry with all packs indexed by ID, or an error
// on duplicate pack IDs.
func NewRegistry(packs []*Pack) (*Registry, error) {
	if len(packs) == 0 {
		return nil, fmt.Errorf("at least one prompt pack is required")
	}
	r := &Registry{packs: make(map[string]*Pack, len(packs))}
	for _, p := range packs {
		if _, exists := r.packs[p.ID]; exists {
			return nil, fmt.Errorf("duplicate pack ID %q", p.ID)
		}
		r.packs[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

// Get returns the pack with the given ID.
//
// Postcondition: Returns (pack, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(id string) (*Pack, bool) {
	p, ok := r.packs[id]
	return p, ok
}

// Default returns the first pack that was registered.
func (r *Registry) Default() *Pack {
	return r.packs[r.order[0]]
}

// Count returns the number of registered packs.
func (r *Registry) Count() int {
	return len(r.packs)
}
