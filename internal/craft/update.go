package craft

// RecipeUpdate is an edit applied to a RecipeProfile. The implementations
// are BasicUpdate, AdvancedUpdate and FullUpdate.
type RecipeUpdate interface {
	Apply(RecipeProfile) RecipeProfile
	isRecipeUpdate()
}

// BasicUpdate replaces progress, quality and durability.
type BasicUpdate struct {
	Progress   int
	Quality    int
	Durability int
}

func (u BasicUpdate) Apply(r RecipeProfile) RecipeProfile {
	r.Progress = u.Progress
	r.Quality = u.Quality
	r.Durability = u.Durability
	return r
}

func (BasicUpdate) isRecipeUpdate() {}

// AdvancedUpdate replaces the four difficulty values.
type AdvancedUpdate struct {
	ProgressDifficulty      int
	QualityDifficulty       int
	ExtraProgressDifficulty int
	ExtraQualityDifficulty  int
}

func (u AdvancedUpdate) Apply(r RecipeProfile) RecipeProfile {
	r.ProgressDifficulty = u.ProgressDifficulty
	r.QualityDifficulty = u.QualityDifficulty
	r.ExtraProgressDifficulty = u.ExtraProgressDifficulty
	r.ExtraQualityDifficulty = u.ExtraQualityDifficulty
	return r
}

func (AdvancedUpdate) isRecipeUpdate() {}

// FullUpdate replaces the whole profile.
type FullUpdate struct {
	Recipe RecipeProfile
}

func (u FullUpdate) Apply(RecipeProfile) RecipeProfile { return u.Recipe }

func (FullUpdate) isRecipeUpdate() {}
