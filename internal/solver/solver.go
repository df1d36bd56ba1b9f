// Package solver ties one solve together: it builds the optimizer request,
// calls the optimizer once and hands the candidates to the selector.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/optimizer"
	"github.com/infiniteWander/xiv-gui-solver/internal/selector"
)

// Input is everything one solve depends on.
type Input struct {
	Recipe   craft.RecipeProfile
	Stats    character.EffectiveStats
	Params   config.SearchParams
	Language string
}

// Outcome is the result of one solve.
type Outcome struct {
	RequestID  string
	Candidates int
	Elapsed    time.Duration
	Selection  selector.Selection
}

// Solver is stateless between calls.
type Solver struct {
	optimizer optimizer.Optimizer
	selector  *selector.Selector
	sink      logsink.Sink
}

// New returns a solver using opt for the search and sel for the results.
func New(opt optimizer.Optimizer, sel *selector.Selector, sink logsink.Sink) *Solver {
	return &Solver{optimizer: opt, selector: sel, sink: logsink.OrDiscard(sink)}
}

// Solve runs one search. An optimizer failure is returned as is, wrapped
// with the request id; it is not retried. When some results fail to
// compile, the Outcome still carries the ones that did.
func (s *Solver) Solve(ctx context.Context, in Input) (Outcome, error) {
	if err := in.Params.Validate(); err != nil {
		return Outcome{}, err
	}
	req := optimizer.NewRequest(in.Recipe, in.Stats, in.Params)
	req.RequestID = uuid.NewString()

	s.sink.Add(fmt.Sprintf("Solving %s (craftsmanship %d, control %d, cp %d).",
		req.RequestID, in.Stats.Craftsmanship, in.Stats.Control, in.Stats.CP))
	start := time.Now()
	cands, err := s.optimizer.Solve(ctx, req)
	if err != nil {
		return Outcome{RequestID: req.RequestID}, fmt.Errorf("optimizer (request %s): %w", req.RequestID, err)
	}
	elapsed := time.Since(start)
	s.sink.Add(fmt.Sprintf("Found %d solutions in %s.", len(cands), elapsed.Round(time.Millisecond)))

	sel, err := s.selector.Select(cands, in.Recipe, in.Language)
	return Outcome{
		RequestID:  req.RequestID,
		Candidates: len(cands),
		Elapsed:    elapsed,
		Selection:  sel,
	}, err
}
