// Package optimizer talks to the rotation search engine. The engine itself
// lives outside this module; the adapters here reach it in-process, over
// gRPC or as an executable.
package optimizer

import (
	"context"
	"fmt"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

// Request is everything the search engine needs for one solve.
type Request struct {
	RequestID string

	Durability              int
	Progress                int
	Quality                 int
	ProgressDifficulty      int
	QualityDifficulty       int
	ExtraProgressDifficulty int
	ExtraQualityDifficulty  int

	Craftsmanship int
	Control       int
	CP            int

	Depth       int
	ByregotStep int
	Desperate   bool
	Threads     int
	Verbosity   int
}

// Optimizer searches candidate rotations. Implementations must be safe for
// concurrent use if callers share them.
type Optimizer interface {
	Solve(ctx context.Context, req Request) ([]craft.CandidateSolution, error)
}

// Func adapts a function to Optimizer.
type Func func(ctx context.Context, req Request) ([]craft.CandidateSolution, error)

func (f Func) Solve(ctx context.Context, req Request) ([]craft.CandidateSolution, error) {
	return f(ctx, req)
}

// NewRequest assembles a request from the recipe, the effective stats and
// the search parameters.
func NewRequest(recipe craft.RecipeProfile, stats character.EffectiveStats, params config.SearchParams) Request {
	return Request{
		Durability:              recipe.Durability,
		Progress:                recipe.Progress,
		Quality:                 recipe.Quality,
		ProgressDifficulty:      recipe.ProgressDifficulty,
		QualityDifficulty:       recipe.QualityDifficulty,
		ExtraProgressDifficulty: recipe.ExtraProgressDifficulty,
		ExtraQualityDifficulty:  recipe.ExtraQualityDifficulty,
		Craftsmanship:           stats.Craftsmanship,
		Control:                 stats.Control,
		CP:                      stats.CP,
		Depth:                   params.Depth,
		ByregotStep:             params.ByregotStep,
		Desperate:               params.Desperate,
		Threads:                 params.Threads,
		Verbosity:               params.Verbosity,
	}
}

// Wire field names, shared by every transport.
const (
	fieldRequestID         = "request_id"
	fieldDurability        = "durability"
	fieldProgress          = "progress"
	fieldQuality           = "quality"
	fieldProgressDivider   = "progress_divider"
	fieldQualityDivider    = "quality_divider"
	fieldProgressModifier  = "progress_modifier"
	fieldQualityModifier   = "quality_modifier"
	fieldCraftsmanship     = "craftsmanship"
	fieldControl           = "control"
	fieldMaxCP             = "max_cp"
	fieldDepth             = "depth"
	fieldByregotStep       = "byregot_step"
	fieldDesperate         = "desperate"
	fieldThreads           = "threads"
	fieldVerbose           = "verbose"
	fieldSolutions         = "solutions"
	fieldSolutionActions   = "actions"
	fieldSolutionQuality   = "quality"
	fieldSolutionSteps     = "steps"
	fieldSolutionRemaining = "cp"
)

// Fields returns the request as a generic map using the wire names.
func (r Request) Fields() map[string]any {
	return map[string]any{
		fieldRequestID:        r.RequestID,
		fieldDurability:       r.Durability,
		fieldProgress:         r.Progress,
		fieldQuality:          r.Quality,
		fieldProgressDivider:  r.ProgressDifficulty,
		fieldQualityDivider:   r.QualityDifficulty,
		fieldProgressModifier: r.ExtraProgressDifficulty,
		fieldQualityModifier:  r.ExtraQualityDifficulty,
		fieldCraftsmanship:    r.Craftsmanship,
		fieldControl:          r.Control,
		fieldMaxCP:            r.CP,
		fieldDepth:            r.Depth,
		fieldByregotStep:      r.ByregotStep,
		fieldDesperate:        r.Desperate,
		fieldThreads:          r.Threads,
		fieldVerbose:          r.Verbosity,
	}
}

// RequestFromFields is the inverse of Fields. Numbers may arrive as any Go
// numeric type.
func RequestFromFields(m map[string]any) (Request, error) {
	var r Request
	var err error
	num := func(key string) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = toInt(m[key], key)
		return v
	}
	r.Durability = num(fieldDurability)
	r.Progress = num(fieldProgress)
	r.Quality = num(fieldQuality)
	r.ProgressDifficulty = num(fieldProgressDivider)
	r.QualityDifficulty = num(fieldQualityDivider)
	r.ExtraProgressDifficulty = num(fieldProgressModifier)
	r.ExtraQualityDifficulty = num(fieldQualityModifier)
	r.Craftsmanship = num(fieldCraftsmanship)
	r.Control = num(fieldControl)
	r.CP = num(fieldMaxCP)
	r.Depth = num(fieldDepth)
	r.ByregotStep = num(fieldByregotStep)
	r.Threads = num(fieldThreads)
	r.Verbosity = num(fieldVerbose)
	if err != nil {
		return Request{}, err
	}
	if id, ok := m[fieldRequestID].(string); ok {
		r.RequestID = id
	}
	if d, ok := m[fieldDesperate].(bool); ok {
		r.Desperate = d
	}
	return r, nil
}

func toInt(v any, key string) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("field %s: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}

// EncodeSolutions renders candidates in the generic shape used on the wire.
// Only types accepted by structpb are used.
func EncodeSolutions(cands []craft.CandidateSolution) map[string]any {
	list := make([]any, 0, len(cands))
	for _, c := range cands {
		ids := make([]any, len(c.Actions))
		for i, id := range c.Actions {
			ids[i] = string(id)
		}
		list = append(list, map[string]any{
			fieldSolutionActions:   ids,
			fieldSolutionQuality:   c.Quality,
			fieldSolutionSteps:     c.Steps,
			fieldSolutionRemaining: c.RemainingCP,
		})
	}
	return map[string]any{fieldSolutions: list}
}

// DecodeSolutions is the inverse of EncodeSolutions.
func DecodeSolutions(m map[string]any) ([]craft.CandidateSolution, error) {
	raw, ok := m[fieldSolutions].([]any)
	if !ok {
		if m[fieldSolutions] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("field %s: expected a list", fieldSolutions)
	}
	out := make([]craft.CandidateSolution, 0, len(raw))
	for i, item := range raw {
		sol, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("solution %d: expected an object", i)
		}
		var c craft.CandidateSolution
		var err error
		if c.Quality, err = toInt(sol[fieldSolutionQuality], fieldSolutionQuality); err != nil {
			return nil, fmt.Errorf("solution %d: %w", i, err)
		}
		if c.Steps, err = toInt(sol[fieldSolutionSteps], fieldSolutionSteps); err != nil {
			return nil, fmt.Errorf("solution %d: %w", i, err)
		}
		if c.RemainingCP, err = toInt(sol[fieldSolutionRemaining], fieldSolutionRemaining); err != nil {
			return nil, fmt.Errorf("solution %d: %w", i, err)
		}
		ids, _ := sol[fieldSolutionActions].([]any)
		for j, id := range ids {
			s, ok := id.(string)
			if !ok {
				return nil, fmt.Errorf("solution %d: action %d is not a string", i, j)
			}
			c.Actions = append(c.Actions, actions.ID(s))
		}
		out = append(out, c)
	}
	return out, nil
}
