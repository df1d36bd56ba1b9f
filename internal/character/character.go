package character

import "math"

// Specialist bonuses granted by the soul of the crafter.
const (
	SpecialistCraftsmanship = 20
	SpecialistControl       = 20
	SpecialistCP            = 15
)

// BaseStats are the raw stats entered for a crafter.
type BaseStats struct {
	Craftsmanship int `yaml:"craftsmanship" json:"craftsmanship"`
	Control       int `yaml:"control" json:"control"`
	CP            int `yaml:"cp" json:"cp"`
}

// Modifier is a consumable (food or potion) effect: a percentage bonus per
// stat, each capped at an absolute value.
type Modifier struct {
	CraftsmanshipPercent int `json:"craftsmanship_percent"`
	CraftsmanshipCap     int `json:"craftsmanship_cap"`
	ControlPercent       int `json:"control_percent"`
	ControlCap           int `json:"control_cap"`
	CPPercent            int `json:"cp_percent"`
	CPCap                int `json:"cp_cap"`
}

// IsZero reports whether the modifier has no effect.
func (m Modifier) IsZero() bool {
	return m == Modifier{}
}

// EffectiveStats are the stats handed to the optimizer.
type EffectiveStats struct {
	Craftsmanship int `json:"craftsmanship"`
	Control       int `json:"control"`
	CP            int `json:"cp"`
}

// Bonus returns the capped percentage bonus for one stat. Halves round to
// even.
func Bonus(base, percent, limit int) int {
	raw := float64(base) * float64(percent) / 100
	if raw > float64(limit) {
		return limit
	}
	return int(math.RoundToEven(raw))
}

// Bonuses returns the per-stat bonus a modifier grants on top of base.
// A nil modifier grants nothing.
func (m *Modifier) Bonuses(base BaseStats) EffectiveStats {
	if m == nil {
		return EffectiveStats{}
	}
	return EffectiveStats{
		Craftsmanship: Bonus(base.Craftsmanship, m.CraftsmanshipPercent, m.CraftsmanshipCap),
		Control:       Bonus(base.Control, m.ControlPercent, m.ControlCap),
		CP:            Bonus(base.CP, m.CPPercent, m.CPCap),
	}
}

// ComputeEffectiveStats applies food, potion and the specialist bonus to base.
// Both consumables are evaluated against base, never against each other.
func ComputeEffectiveStats(base BaseStats, food, pot *Modifier, specialist bool) EffectiveStats {
	f := food.Bonuses(base)
	p := pot.Bonuses(base)

	out := EffectiveStats{
		Craftsmanship: base.Craftsmanship + f.Craftsmanship + p.Craftsmanship,
		Control:       base.Control + f.Control + p.Control,
		CP:            base.CP + f.CP + p.CP,
	}
	if specialist {
		out.Craftsmanship += SpecialistCraftsmanship
		out.Control += SpecialistControl
		out.CP += SpecialistCP
	}
	return out
}
