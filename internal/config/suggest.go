package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

// ErrUnknownPreset is returned by the Require* lookups.
var ErrUnknownPreset = errors.New("unknown preset")

// Suggest returns the known name closest to name, or "" when nothing is
// close enough to be a plausible typo.
func Suggest(name string, known []string) string {
	compare := strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, k := range known {
		dist := levenshtein.ComputeDistance(compare, strings.ToLower(k))
		if dist > levenshteinLimit(len(k)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func unknown(kind, name string, known []string) error {
	if s := Suggest(name, known); s != "" {
		return fmt.Errorf("%s '%s' (did you mean '%s'?): %w", kind, name, s, ErrUnknownPreset)
	}
	return fmt.Errorf("%s '%s': %w", kind, name, ErrUnknownPreset)
}

// RequireUser is User for callers that treat a missing name as an error.
func (p *Presets) RequireUser(name string) (character.BaseStats, error) {
	if s, ok := p.User(name); ok {
		return s, nil
	}
	return character.BaseStats{}, unknown("user", name, p.UserNames)
}

// RequireRecipe is Recipe for callers that treat a missing name as an error.
func (p *Presets) RequireRecipe(name string) (craft.RecipeProfile, error) {
	if r, ok := p.Recipe(name); ok {
		return r, nil
	}
	return craft.RecipeProfile{}, unknown("recipe", name, p.RecipeNames)
}

// RequireFood resolves a food name; "" means no food.
func (p *Presets) RequireFood(name string) (*character.Modifier, error) {
	if name == "" {
		return nil, nil
	}
	if m, ok := p.Food(name); ok {
		return &m, nil
	}
	return nil, unknown("food", name, p.FoodNames)
}

// RequirePot resolves a potion name; "" means no potion.
func (p *Presets) RequirePot(name string) (*character.Modifier, error) {
	if name == "" {
		return nil, nil
	}
	if m, ok := p.Pot(name); ok {
		return &m, nil
	}
	return nil, unknown("pot", name, p.PotNames)
}
