package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

// Preset file names inside the config directory.
const (
	UsersFile       = "users.yaml"
	ConsumablesFile = "consumables.yaml"
	RecipesFile     = "recipes.yaml"
)

// Presets holds every named user, food, pot and recipe. The name slices
// keep file order; the first user is the default selection.
type Presets struct {
	Users   map[string]character.BaseStats
	Foods   map[string]character.Modifier
	Pots    map[string]character.Modifier
	Recipes map[string]craft.RecipeProfile

	UserNames   []string
	FoodNames   []string
	PotNames    []string
	RecipeNames []string
}

// NewPresets returns an empty preset set.
func NewPresets() *Presets {
	return &Presets{
		Users:   map[string]character.BaseStats{},
		Foods:   map[string]character.Modifier{},
		Pots:    map[string]character.Modifier{},
		Recipes: map[string]craft.RecipeProfile{},
	}
}

// LoadPresets reads the preset files from configDir. A missing file leaves
// its presets empty; a malformed one is an error.
func LoadPresets(configDir string) (*Presets, error) {
	p := NewPresets()

	if node, err := readNode(filepath.Join(configDir, UsersFile)); err != nil {
		return nil, err
	} else if node != nil {
		if err := p.decodeUsers(node); err != nil {
			return nil, fmt.Errorf("%s: %w", UsersFile, err)
		}
	}

	if node, err := readNode(filepath.Join(configDir, ConsumablesFile)); err != nil {
		return nil, err
	} else if node != nil {
		if err := p.decodeConsumables(node); err != nil {
			return nil, fmt.Errorf("%s: %w", ConsumablesFile, err)
		}
	}

	if node, err := readNode(filepath.Join(configDir, RecipesFile)); err != nil {
		return nil, err
	} else if node != nil {
		if err := p.decodeRecipes(node); err != nil {
			return nil, fmt.Errorf("%s: %w", RecipesFile, err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// readNode returns the top mapping of a YAML file, or nil when the file is
// missing or empty.
func readNode(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", path).Msg("Config: preset file missing, using empty presets")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	top := doc.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return nil, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: expected a mapping at top level", path)
	}
	return top, nil
}

// eachEntry calls fn for every key/value pair of a mapping, in file order.
func eachEntry(m *yaml.Node, fn func(name string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		name := m.Content[i].Value
		if err := fn(name, m.Content[i+1]); err != nil {
			return fmt.Errorf("%q (line %d): %w", name, m.Content[i].Line, err)
		}
	}
	return nil
}

func (p *Presets) decodeUsers(m *yaml.Node) error {
	return eachEntry(m, func(name string, v *yaml.Node) error {
		var raw []int
		if err := v.Decode(&raw); err != nil {
			return err
		}
		if len(raw) != 3 {
			return fmt.Errorf("want [craftsmanship, control, cp], got %d values", len(raw))
		}
		p.SetUser(name, character.BaseStats{Craftsmanship: raw[0], Control: raw[1], CP: raw[2]})
		return nil
	})
}

func (p *Presets) decodeConsumables(m *yaml.Node) error {
	return eachEntry(m, func(section string, v *yaml.Node) error {
		if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
			return nil
		}
		if v.Kind != yaml.MappingNode {
			return fmt.Errorf("expected a mapping")
		}
		var set func(string, character.Modifier)
		switch section {
		case "Foods":
			set = p.SetFood
		case "Pots":
			set = p.SetPot
		default:
			return fmt.Errorf("unknown section, want Foods or Pots")
		}
		return eachEntry(v, func(name string, v *yaml.Node) error {
			mod, err := decodeModifier(v)
			if err != nil {
				return err
			}
			set(name, mod)
			return nil
		})
	})
}

func decodeModifier(v *yaml.Node) (character.Modifier, error) {
	var raw [][]int
	if err := v.Decode(&raw); err != nil {
		return character.Modifier{}, err
	}
	if len(raw) != 3 {
		return character.Modifier{}, fmt.Errorf("want three [percent, max] pairs, got %d", len(raw))
	}
	for i, pair := range raw {
		if len(pair) != 2 {
			return character.Modifier{}, fmt.Errorf("pair %d: want [percent, max], got %d values", i, len(pair))
		}
	}
	return character.Modifier{
		CraftsmanshipPercent: raw[0][0], CraftsmanshipCap: raw[0][1],
		ControlPercent: raw[1][0], ControlCap: raw[1][1],
		CPPercent: raw[2][0], CPCap: raw[2][1],
	}, nil
}

func (p *Presets) decodeRecipes(m *yaml.Node) error {
	return eachEntry(m, func(name string, v *yaml.Node) error {
		var raw []int
		if err := v.Decode(&raw); err != nil {
			return err
		}
		if len(raw) != 7 {
			return fmt.Errorf("want 7 values, got %d", len(raw))
		}
		var vals [7]int
		copy(vals[:], raw)
		p.SetRecipe(name, craft.RecipeFromValues(vals))
		return nil
	})
}

// SetUser adds or replaces a user preset.
func (p *Presets) SetUser(name string, stats character.BaseStats) {
	if _, ok := p.Users[name]; !ok {
		p.UserNames = append(p.UserNames, name)
	}
	p.Users[name] = stats
}

// SetFood adds or replaces a food preset.
func (p *Presets) SetFood(name string, mod character.Modifier) {
	if _, ok := p.Foods[name]; !ok {
		p.FoodNames = append(p.FoodNames, name)
	}
	p.Foods[name] = mod
}

// SetPot adds or replaces a potion preset.
func (p *Presets) SetPot(name string, mod character.Modifier) {
	if _, ok := p.Pots[name]; !ok {
		p.PotNames = append(p.PotNames, name)
	}
	p.Pots[name] = mod
}

// SetRecipe adds or replaces a recipe preset.
func (p *Presets) SetRecipe(name string, r craft.RecipeProfile) {
	if _, ok := p.Recipes[name]; !ok {
		p.RecipeNames = append(p.RecipeNames, name)
	}
	p.Recipes[name] = r
}

// Clone returns a deep copy of p.
func (p *Presets) Clone() *Presets {
	return &Presets{
		Users:       maps.Clone(p.Users),
		Foods:       maps.Clone(p.Foods),
		Pots:        maps.Clone(p.Pots),
		Recipes:     maps.Clone(p.Recipes),
		UserNames:   slices.Clone(p.UserNames),
		FoodNames:   slices.Clone(p.FoodNames),
		PotNames:    slices.Clone(p.PotNames),
		RecipeNames: slices.Clone(p.RecipeNames),
	}
}

// User returns the named user; unknown names give zero stats.
func (p *Presets) User(name string) (character.BaseStats, bool) {
	s, ok := p.Users[name]
	return s, ok
}

// Food returns the named food; unknown names give the neutral modifier.
func (p *Presets) Food(name string) (character.Modifier, bool) {
	m, ok := p.Foods[name]
	return m, ok
}

// Pot returns the named potion; unknown names give the neutral modifier.
func (p *Presets) Pot(name string) (character.Modifier, bool) {
	m, ok := p.Pots[name]
	return m, ok
}

// Recipe returns the named recipe; unknown names give a zero profile.
func (p *Presets) Recipe(name string) (craft.RecipeProfile, bool) {
	r, ok := p.Recipes[name]
	return r, ok
}

// DefaultUser is the first user in the file.
func (p *Presets) DefaultUser() (string, bool) {
	if len(p.UserNames) == 0 {
		return "", false
	}
	return p.UserNames[0], true
}
