// Package session holds the inputs a user edits between solves.
package session

import (
	"fmt"
	"sync"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
)

// Snapshot is an immutable copy of the session inputs.
type Snapshot struct {
	User       string
	Base       character.BaseStats
	Food       string
	Pot        string
	Specialist bool
	Recipe     craft.RecipeProfile
	Effective  character.EffectiveStats
	Language   string
}

// Session owns the user's inputs. Effective stats are recomputed on every
// change, so they always match the inputs.
type Session struct {
	mu      sync.RWMutex
	presets *config.Presets
	sink    logsink.Sink
	state   Snapshot
}

// New starts a session on the default user of presets.
func New(presets *config.Presets, sink logsink.Sink) *Session {
	if presets == nil {
		presets = config.NewPresets()
	}
	s := &Session{presets: presets, sink: logsink.OrDiscard(sink), state: Snapshot{Language: "en"}}
	if name, ok := presets.DefaultUser(); ok {
		s.state.User = name
		s.state.Base = presets.Users[name]
	}
	s.recompute()
	return s
}

func (s *Session) recompute() {
	var food, pot *character.Modifier
	if m, ok := s.presets.Food(s.state.Food); ok {
		food = &m
	}
	if m, ok := s.presets.Pot(s.state.Pot); ok {
		pot = &m
	}
	s.state.Effective = character.ComputeEffectiveStats(s.state.Base, food, pot, s.state.Specialist)
}

// Snapshot returns the current inputs.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Effective returns the current effective stats.
func (s *Session) Effective() character.EffectiveStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Effective
}

// SelectUser loads the base stats of a user preset.
func (s *Session) SelectUser(name string) error {
	stats, err := s.presets.RequireUser(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = name
	s.state.Base = stats
	s.recompute()
	s.sink.Add(fmt.Sprintf("Loaded user %s.", name))
	return nil
}

// SetBaseStats replaces the base stats directly.
func (s *Session) SetBaseStats(stats character.BaseStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Base = stats
	s.recompute()
}

// SetFood selects a food by name. Unknown names and "" mean no food.
func (s *Session) SetFood(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Food = name
	if _, ok := s.presets.Food(name); !ok && name != "" {
		s.sink.Add(fmt.Sprintf("Food %s not found, no food applied.", name))
	}
	s.recompute()
}

// SetPot selects a potion by name. Unknown names and "" mean no potion.
func (s *Session) SetPot(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pot = name
	if _, ok := s.presets.Pot(name); !ok && name != "" {
		s.sink.Add(fmt.Sprintf("Pot %s not found, no pot applied.", name))
	}
	s.recompute()
}

// SetSpecialist toggles the specialist bonus.
func (s *Session) SetSpecialist(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Specialist = on
	s.recompute()
}

// SetLanguage sets the language used for macros.
func (s *Session) SetLanguage(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Language = code
}

// SelectRecipe loads a recipe preset.
func (s *Session) SelectRecipe(name string) error {
	r, err := s.presets.RequireRecipe(name)
	if err != nil {
		return err
	}
	s.UpdateRecipe(craft.FullUpdate{Recipe: r})
	s.sink.Add(fmt.Sprintf("Loaded recipe %s.", name))
	return nil
}

// UpdateRecipe applies a basic, advanced or full recipe edit.
func (s *Session) UpdateRecipe(u craft.RecipeUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Recipe = u.Apply(s.state.Recipe)
}

// SaveUser stores the current base stats as a user preset and writes
// users.yaml. Presets are left untouched if the write fails.
func (s *Session) SaveUser(name, configDir string) error {
	if name == "" {
		return fmt.Errorf("user name missing")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.presets.Clone()
	next.SetUser(name, s.state.Base)
	if err := next.SaveUsers(configDir); err != nil {
		return err
	}
	*s.presets = *next
	s.state.User = name
	s.sink.Add(fmt.Sprintf("Saved user %s.", name))
	return nil
}

// SaveRecipe stores the current recipe as a preset and writes recipes.yaml.
// Presets are left untouched if the write fails.
func (s *Session) SaveRecipe(name, configDir string) error {
	if name == "" {
		return fmt.Errorf("recipe name missing")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.presets.Clone()
	next.SetRecipe(name, s.state.Recipe)
	if err := next.SaveRecipes(configDir); err != nil {
		return err
	}
	*s.presets = *next
	s.sink.Add(fmt.Sprintf("Saved recipe %s.", name))
	return nil
}
