package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlPackFile is the top-level YAML structure for prompt pack files.
type yamlPackFile struct {
	Pack yamlPack `yaml:"pack"`
}

// yamlPack is the YAML representation of a prompt pack.
type yamlPack struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Prompts     []string `yaml:"prompts"`
}

// LoadPackFromFile reads and validates a single prompt pack YAML file.
//
// Precondition: path must point to a valid YAML pack file.
// Postcondition: Returns a validated Pack or a non-nil error.
func LoadPackFromFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pack file %s: %w", path, err)
	}
	return LoadPackFromBytes(data)
}

// LoadPackFromBytes parses and validates a pack from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the pack schema.
// Postcondition: Returns a validated Pack or a non-nil error.
func LoadPackFromBytes(data []byte) (*Pack, error) {
	var file yamlPackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing pack YAML: %w", err)
	}

	pack := convertYAMLPack(file.Pack)
	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("validating pack: %w", err)
	}

	return pack, nil
}

// LoadPacksFromDir loads all YAML files in a directory as prompt packs.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated packs or the first error encountered.
func LoadPacksFromDir(dir string) ([]*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pack directory %s: %w", dir, err)
	}

	var packs []*Pack
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		pack, err := LoadPackFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading pack from %s: %w", name, err)
		}
		packs = append(packs, pack)
	}

	if len(packs) == 0 {
		return nil, fmt.Errorf("no pack files found in %s", dir)
	}

	return packs, nil
}

// convertYAMLPack converts the parsed YAML structure into the domain type.
func convertYAMLPack(yp yamlPack) *Pack {
	pack := &Pack{
		ID:          yp.ID,
		Name:        yp.Name,
		Description: strings.TrimSpace(yp.Description),
	}
	for _, p := range yp.Prompts {
		pack.Prompts = append(pack.Prompts, strings.TrimSpace(p))
	}
	return pack
}
