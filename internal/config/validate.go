package config

import (
	"fmt"
	"strings"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

// Validate reports every negative value across the presets.
func (p *Presets) Validate() error {
	var errs []string
	for _, name := range p.UserNames {
		errs = append(errs, validateStats("user", name, p.Users[name])...)
	}
	for _, name := range p.FoodNames {
		errs = append(errs, validateModifier("food", name, p.Foods[name])...)
	}
	for _, name := range p.PotNames {
		errs = append(errs, validateModifier("pot", name, p.Pots[name])...)
	}
	for _, name := range p.RecipeNames {
		errs = append(errs, validateRecipe(name, p.Recipes[name])...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStats(kind, name string, s character.BaseStats) []string {
	return negatives(kind, name, []string{"craftsmanship", "control", "cp"},
		[]int{s.Craftsmanship, s.Control, s.CP})
}

func validateModifier(kind, name string, m character.Modifier) []string {
	return negatives(kind, name,
		[]string{"craftsmanship%", "craftsmanship max", "control%", "control max", "cp%", "cp max"},
		[]int{m.CraftsmanshipPercent, m.CraftsmanshipCap, m.ControlPercent, m.ControlCap, m.CPPercent, m.CPCap})
}

func validateRecipe(name string, r craft.RecipeProfile) []string {
	v := r.Values()
	return negatives("recipe", name,
		[]string{"progress", "quality", "durability", "progress difficulty", "quality difficulty", "extra progress difficulty", "extra quality difficulty"},
		v[:])
}

func negatives(kind, name string, fields []string, values []int) []string {
	var errs []string
	for i, v := range values {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s '%s': %s must be >= 0 (got %d)", kind, name, fields[i], v))
		}
	}
	return errs
}

// ValidateInputs checks stats and modifiers supplied outside the preset
// files with the same rules Validate applies. nil modifiers are skipped.
func ValidateInputs(base character.BaseStats, food, pot *character.Modifier) error {
	errs := validateStats("stats", "base", base)
	if food != nil {
		errs = append(errs, validateModifier("food", "request", *food)...)
	}
	if pot != nil {
		errs = append(errs, validateModifier("pot", "request", *pot)...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateRecipe checks a recipe supplied outside the preset files.
func ValidateRecipe(name string, r craft.RecipeProfile) error {
	if errs := validateRecipe(name, r); len(errs) > 0 {
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}
