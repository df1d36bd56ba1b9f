package session

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
)

func testPresets() *config.Presets {
	p := config.NewPresets()
	p.SetUser("Main", character.BaseStats{Craftsmanship: 4000, Control: 3900, CP: 600})
	p.SetUser("Alt", character.BaseStats{Craftsmanship: 1000, Control: 1000, CP: 400})
	p.SetFood("Stew", character.Modifier{CraftsmanshipPercent: 5, CraftsmanshipCap: 150})
	p.SetPot("Draught", character.Modifier{CPPercent: 6, CPCap: 21})
	p.SetRecipe("Two star", craft.RecipeFromValues([7]int{3900, 10920, 70, 130, 115, 80, 70}))
	return p
}

func TestEffectiveStatsFollowInputs(t *testing.T) {
	s := New(testPresets(), nil)
	if got := s.Effective(); got != (character.EffectiveStats{Craftsmanship: 4000, Control: 3900, CP: 600}) {
		t.Fatalf("initial = %+v", got)
	}

	s.SetFood("Stew")
	if got := s.Effective().Craftsmanship; got != 4150 {
		t.Fatalf("with food craftsmanship = %d", got)
	}
	s.SetPot("Draught")
	if got := s.Effective().CP; got != 621 {
		t.Fatalf("with pot cp = %d", got)
	}
	s.SetSpecialist(true)
	if got := s.Effective(); got != (character.EffectiveStats{Craftsmanship: 4170, Control: 3920, CP: 636}) {
		t.Fatalf("with specialist = %+v", got)
	}
	if err := s.SelectUser("Alt"); err != nil {
		t.Fatalf("SelectUser: %v", err)
	}
	if got := s.Effective(); got != (character.EffectiveStats{Craftsmanship: 1070, Control: 1020, CP: 436}) {
		t.Fatalf("after user change = %+v", got)
	}
	s.SetFood("")
	s.SetPot("")
	s.SetSpecialist(false)
	if got := s.Effective(); got != (character.EffectiveStats{Craftsmanship: 1000, Control: 1000, CP: 400}) {
		t.Fatalf("after clearing = %+v", got)
	}
}

func TestUnknownFoodIsNeutral(t *testing.T) {
	rec := &logsink.Recorder{}
	s := New(testPresets(), rec)
	s.SetFood("Missing")
	if got := s.Effective().Craftsmanship; got != 4000 {
		t.Fatalf("craftsmanship = %d", got)
	}
	if len(rec.Messages()) != 1 {
		t.Fatalf("messages = %v", rec.Messages())
	}
}

func TestRecipeUpdates(t *testing.T) {
	s := New(testPresets(), nil)
	if err := s.SelectRecipe("Two star"); err != nil {
		t.Fatalf("SelectRecipe: %v", err)
	}
	s.UpdateRecipe(craft.BasicUpdate{Progress: 100, Quality: 200, Durability: 35})
	got := s.Snapshot().Recipe
	if got.Values() != [7]int{100, 200, 35, 130, 115, 80, 70} {
		t.Fatalf("after basic update = %v", got.Values())
	}
	s.UpdateRecipe(craft.AdvancedUpdate{ProgressDifficulty: 1, QualityDifficulty: 2, ExtraProgressDifficulty: 3, ExtraQualityDifficulty: 4})
	if got := s.Snapshot().Recipe.Values(); got != [7]int{100, 200, 35, 1, 2, 3, 4} {
		t.Fatalf("after advanced update = %v", got)
	}
	if err := s.SelectRecipe("Three star"); err == nil {
		t.Fatalf("expected unknown recipe error")
	}
}

func TestSaveUserWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := New(testPresets(), nil)
	s.SetBaseStats(character.BaseStats{Craftsmanship: 1, Control: 2, CP: 3})
	if err := s.SaveUser("New", dir); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	loaded, err := config.LoadPresets(dir)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if got := loaded.Users["New"]; got != (character.BaseStats{Craftsmanship: 1, Control: 2, CP: 3}) {
		t.Fatalf("saved user = %+v", got)
	}
	if err := s.SaveUser("", dir); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestFailedSaveLeavesPresets(t *testing.T) {
	notDir := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(notDir, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	presets := testPresets()
	s := New(presets, nil)
	s.SetBaseStats(character.BaseStats{Craftsmanship: 1, Control: 2, CP: 3})

	if err := s.SaveUser("New", notDir); err == nil {
		t.Fatalf("expected write error")
	}
	if _, ok := presets.User("New"); ok {
		t.Fatalf("user added despite failed write")
	}
	if !slices.Equal(presets.UserNames, []string{"Main", "Alt"}) {
		t.Fatalf("user names = %v", presets.UserNames)
	}
	if s.Snapshot().User == "New" {
		t.Fatalf("session switched to unsaved user")
	}

	if err := s.SaveRecipe("Scratch", notDir); err == nil {
		t.Fatalf("expected write error")
	}
	if _, ok := presets.Recipes["Scratch"]; ok || len(presets.RecipeNames) != 1 {
		t.Fatalf("recipes = %v", presets.RecipeNames)
	}

	dir := t.TempDir()
	if err := s.SaveRecipe("Scratch", dir); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if _, ok := presets.Recipes["Scratch"]; !ok {
		t.Fatalf("recipe missing from shared presets after save")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New(testPresets(), nil)
	snap := s.Snapshot()
	s.SetSpecialist(true)
	if snap.Specialist || snap.Effective.CP != 600 {
		t.Fatalf("snapshot changed: %+v", snap)
	}
}
