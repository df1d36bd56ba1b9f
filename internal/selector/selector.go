package selector

import (
	"errors"
	"fmt"

	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/macro"
)

// Slot titles.
const (
	TitleBestQuality = "Best quality"
	TitleFewestSteps = "Fewest steps"
	TitleSafeMargin  = "Safe margin"
)

// Result is one selected candidate with its rendered macro. It is built
// once and not modified afterwards.
type Result struct {
	Title       string                   `json:"title"`
	Source      *craft.CandidateSolution `json:"-"`
	Quality     int                      `json:"quality"`
	Steps       int                      `json:"steps"`
	RemainingCP int                      `json:"remaining_cp"`
	Rotation    string                   `json:"rotation"`
	MacroBlocks []string                 `json:"macro_blocks"`
}

// Selection holds the three slots. Every slot is nil when there were no
// candidates.
type Selection struct {
	BestQuality *Result `json:"best_quality"`
	FewestSteps *Result `json:"fewest_steps"`
	SafeMargin  *Result `json:"safe_margin"`
}

// Results returns the non-nil slots in display order.
func (s Selection) Results() []*Result {
	var out []*Result
	for _, r := range []*Result{s.BestQuality, s.FewestSteps, s.SafeMargin} {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Selector picks notable candidates and compiles them.
type Selector struct {
	compiler *macro.Compiler
	sink     logsink.Sink
}

// New returns a selector rendering results with compiler.
func New(compiler *macro.Compiler, sink logsink.Sink) *Selector {
	return &Selector{compiler: compiler, sink: logsink.OrDiscard(sink)}
}

// Select picks the best-quality, fewest-steps and safe-margin candidates.
// Ties go to the earliest candidate. candidates is not modified; each
// Result.Source points into it. A slot whose macro does not compile is
// left nil and its error joined into the returned error; the other slots
// are still filled.
func (s *Selector) Select(candidates []craft.CandidateSolution, recipe craft.RecipeProfile, lang string) (Selection, error) {
	if len(candidates) == 0 {
		s.sink.Add("No solution found for this recipe.")
		return Selection{}, nil
	}

	best := BestQuality(candidates)
	fewest := FewestSteps(candidates)
	safe, ok := SafeMargin(candidates, recipe.Quality)
	if !ok {
		s.sink.Add(fmt.Sprintf("No solution clears 1.5x the target quality (%d), using the best quality one.", recipe.Quality))
		safe = best
	}

	var sel Selection
	var errs []error
	for _, slot := range []struct {
		title string
		idx   int
		dst   **Result
	}{
		{TitleBestQuality, best, &sel.BestQuality},
		{TitleFewestSteps, fewest, &sel.FewestSteps},
		{TitleSafeMargin, safe, &sel.SafeMargin},
	} {
		r, err := s.build(slot.title, &candidates[slot.idx], lang)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*slot.dst = r
	}
	return sel, errors.Join(errs...)
}

func (s *Selector) build(title string, cand *craft.CandidateSolution, lang string) (*Result, error) {
	compiled, err := s.compiler.CompileCandidate(*cand, lang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	return &Result{
		Title:       title,
		Source:      cand,
		Quality:     cand.Quality,
		Steps:       cand.Steps,
		RemainingCP: cand.RemainingCP,
		Rotation:    compiled.Rotation,
		MacroBlocks: compiled.Texts(),
	}, nil
}

// BestQuality returns the index of the highest quality candidate, or -1.
func BestQuality(candidates []craft.CandidateSolution) int {
	idx := -1
	for i, c := range candidates {
		if idx < 0 || c.Quality > candidates[idx].Quality {
			idx = i
		}
	}
	return idx
}

// FewestSteps returns the index of the shortest candidate, or -1.
func FewestSteps(candidates []craft.CandidateSolution) int {
	idx := -1
	for i, c := range candidates {
		if idx < 0 || c.Steps < candidates[idx].Steps {
			idx = i
		}
	}
	return idx
}

// SafeMargin returns the index of the lowest quality candidate whose
// quality is strictly above 1.5 times target.
func SafeMargin(candidates []craft.CandidateSolution, target int) (int, bool) {
	idx := -1
	for i, c := range candidates {
		if 2*c.Quality <= 3*target {
			continue
		}
		if idx < 0 || c.Quality < candidates[idx].Quality {
			idx = i
		}
	}
	return idx, idx >= 0
}
