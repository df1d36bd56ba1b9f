package craft

import "github.com/infiniteWander/xiv-gui-solver/internal/actions"

// RecipeProfile is the numeric description of a recipe. The first three
// fields are the "basic" stats, the four difficulty values the "advanced"
// ones.
type RecipeProfile struct {
	Progress                int `json:"progress"`
	Quality                 int `json:"quality"`
	Durability              int `json:"durability"`
	ProgressDifficulty      int `json:"progress_divider"`
	QualityDifficulty       int `json:"quality_divider"`
	ExtraProgressDifficulty int `json:"progress_modifier"`
	ExtraQualityDifficulty  int `json:"quality_modifier"`
}

// Values returns the profile in recipe-file order: progress, quality,
// durability, then the four difficulty values.
func (r RecipeProfile) Values() [7]int {
	return [7]int{
		r.Progress, r.Quality, r.Durability,
		r.ProgressDifficulty, r.QualityDifficulty,
		r.ExtraProgressDifficulty, r.ExtraQualityDifficulty,
	}
}

// RecipeFromValues is the inverse of Values.
func RecipeFromValues(v [7]int) RecipeProfile {
	return RecipeProfile{
		Progress:                v[0],
		Quality:                 v[1],
		Durability:              v[2],
		ProgressDifficulty:      v[3],
		QualityDifficulty:       v[4],
		ExtraProgressDifficulty: v[5],
		ExtraQualityDifficulty:  v[6],
	}
}

// CandidateSolution is one rotation returned by the optimizer.
type CandidateSolution struct {
	Actions     []actions.ID `json:"actions"`
	Quality     int          `json:"quality"`
	Steps       int          `json:"steps"`
	RemainingCP int          `json:"cp"`
}
