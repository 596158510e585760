package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPack_Validate(t *testing.T) {
	p := &Pack{ID: "x", Name: "X", Prompts: []string{"a"}}
	assert.NoError(t, p.Validate())
}

func TestPack_Validate_Errors(t *testing.T) {
	cases := []struct {
		name string
		pack Pack
		want string
	}{
		{"missing id", Pack{Name: "X", Prompts: []string{"a"}}, "pack ID must not be empty"},
		{"missing name", Pack{ID: "x", Prompts: []string{"a"}}, "name must not be empty"},
		{"no prompts", Pack{ID: "x", Name: "X"}, "at least one prompt"},
		{"empty prompt", Pack{ID: "x", Name: "X", Prompts: []string{"a", ""}}, "prompt 1 is empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pack.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewRegistry(t *testing.T) {
	a := &Pack{ID: "a", Name: "A", Prompts: []string{"x"}}
	b := &Pack{ID: "b", Name: "B", Prompts: []string{"y"}}
	r, err := NewRegistry([]*Pack{a, b})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Count())
	got, ok := r.Get("b")
	assert.True(t, ok)
	assert.Same(t, b, got)
	assert.Same(t, a, r.Default(), "first registered pack is the default")
}

func TestNewRegistry_Duplicate(t *testing.T) {
	a := &Pack{ID: "a", Name: "A", Prompts: []string{"x"}}
	_, err := NewRegistry([]*Pack{a, a})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate pack ID")
}

func TestNewRegistry_Empty(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)
}

func TestDefaultPack(t *testing.T) {
	p := DefaultPack()
	require.NotNil(t, p)
	assert.NoError(t, p.Validate())
	assert.Equal(t, "classic", p.ID)
	assert.NotEmpty(t, p.Prompts)
	assert.Same(t, p, DefaultPack(), "default pack is parsed once and shared")
}

// Property: any pack with a non-empty ID, name, and prompt list validates.
func TestPack_Validate_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := &Pack{
			ID:      rapid.StringMatching(`[a-z]{1,12}`).Draw(rt, "id"),
			Name:    rapid.StringMatching(`[A-Za-z ]{1,20}`).Draw(rt, "name"),
			Prompts: rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,16}`), 1, 50).Draw(rt, "prompts"),
		}
		assert.NoError(rt, p.Validate())
	})
}
