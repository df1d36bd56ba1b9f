package config

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
)

// Search defaults.
const (
	DefaultDepth       = 8
	DesperateDepth     = 11
	DefaultByregotStep = 8
	LongByregotStep    = 6
	FallbackThreads    = 4
	MaxVerbosity       = 3
)

// SearchParams tunes the optimizer. None of it affects how results are
// selected or rendered.
type SearchParams struct {
	Depth       int  `yaml:"depth" json:"depth"`
	ByregotStep int  `yaml:"byregot_step" json:"byregot_step"`
	Desperate   bool `yaml:"desperate" json:"desperate"`
	Threads     int  `yaml:"threads" json:"threads"`
	Verbosity   int  `yaml:"verbosity" json:"verbosity"`
}

// DefaultSearchParams mirrors the solver CLI: desperate mode searches
// deeper and long mode tries Byregot's Blessing earlier. Threads default to
// the logical CPU count.
func DefaultSearchParams(desperate, long bool) SearchParams {
	p := SearchParams{
		Depth:       DefaultDepth,
		ByregotStep: DefaultByregotStep,
		Desperate:   desperate,
		Threads:     DefaultThreads(),
	}
	if desperate {
		p.Depth = DesperateDepth
	}
	if long {
		p.ByregotStep = LongByregotStep
	}
	return p
}

// DefaultThreads returns the logical CPU count, or FallbackThreads when it
// cannot be read.
func DefaultThreads() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return FallbackThreads
	}
	return n
}

// Validate checks the ranges the optimizer accepts.
func (s SearchParams) Validate() error {
	switch {
	case s.Depth <= 0:
		return fmt.Errorf("search depth must be > 0 (got %d)", s.Depth)
	case s.ByregotStep <= 0 || s.ByregotStep > 255:
		return fmt.Errorf("byregot step must be in 1..255 (got %d)", s.ByregotStep)
	case s.Threads <= 0:
		return fmt.Errorf("threads must be > 0 (got %d)", s.Threads)
	case s.Verbosity < 0 || s.Verbosity > MaxVerbosity:
		return fmt.Errorf("verbosity must be in 0..%d (got %d)", MaxVerbosity, s.Verbosity)
	}
	return nil
}
