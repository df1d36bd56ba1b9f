package macro

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/translate"
)

var cycle = []actions.ID{
	actions.MuscleMemory,
	actions.Manipulation,
	actions.Veneration,
	actions.Groundwork,
	actions.Innovation,
	actions.PreparatoryTouch,
	actions.BasicTouch,
	actions.ByregotsBlessing,
}

func rotationOf(n int) []actions.ID {
	out := make([]actions.ID, n)
	for i := range out {
		out[i] = cycle[i%len(cycle)]
	}
	return out
}

func newCompiler(sink logsink.Sink) *Compiler {
	return NewCompiler(translate.New(sink), sink)
}

func TestCompileSegmentation(t *testing.T) {
	cases := []struct {
		actions    int
		blockLines []int
		completion bool
	}{
		{actions: 0, blockLines: []int{1}, completion: true},
		{actions: 10, blockLines: []int{11}, completion: true},
		{actions: 14, blockLines: []int{15}, completion: true},
		{actions: 15, blockLines: []int{15}, completion: false},
		{actions: 16, blockLines: []int{15, 3}, completion: true},
		{actions: 28, blockLines: []int{15, 15}, completion: true},
		{actions: 29, blockLines: []int{15, 15}, completion: false},
		{actions: 30, blockLines: []int{15, 15, 3}, completion: true},
		{actions: 42, blockLines: []int{15, 15, 15}, completion: true},
		{actions: 43, blockLines: []int{15, 15, 15}, completion: false},
	}
	for _, tc := range cases {
		got, err := newCompiler(nil).Compile(rotationOf(tc.actions), "en")
		if err != nil {
			t.Fatalf("%d actions: %v", tc.actions, err)
		}
		if len(got.Blocks) != len(tc.blockLines) {
			t.Fatalf("%d actions: %d blocks, want %d", tc.actions, len(got.Blocks), len(tc.blockLines))
		}
		for i, want := range tc.blockLines {
			if len(got.Blocks[i]) != want {
				t.Fatalf("%d actions: block %d has %d lines, want %d", tc.actions, i, len(got.Blocks[i]), want)
			}
			if i < len(got.Blocks)-1 {
				if last := got.Blocks[i][len(got.Blocks[i])-1]; last != TransitionMarker(i+1) {
					t.Fatalf("%d actions: block %d ends with %q", tc.actions, i, last)
				}
			}
		}
		final := got.Blocks[len(got.Blocks)-1]
		hasCompletion := final[len(final)-1] == CompletionMarker()
		if hasCompletion != tc.completion {
			t.Fatalf("%d actions: completion marker = %v, want %v", tc.actions, hasCompletion, tc.completion)
		}
	}
}

func TestCompileFullMacroLogsOnce(t *testing.T) {
	for _, n := range []int{15, 29, 43} {
		rec := &logsink.Recorder{}
		got, err := newCompiler(rec).Compile(rotationOf(n), "en")
		if err != nil {
			t.Fatalf("%d actions: %v", n, err)
		}
		if got.LineCount() != (len(got.Blocks))*MaxBlockLines {
			t.Fatalf("%d actions: %d lines", n, got.LineCount())
		}
		if len(rec.Messages()) != 1 {
			t.Fatalf("%d actions: messages = %v", n, rec.Messages())
		}
	}
}

func TestCompileTooLong(t *testing.T) {
	got, err := newCompiler(nil).Compile(rotationOf(MaxActions+1), "en")
	if !errors.Is(err, ErrMacroTooLong) {
		t.Fatalf("err = %v, want ErrMacroTooLong", err)
	}
	if got.Rotation != "" || got.Blocks != nil {
		t.Fatalf("partial output returned: %+v", got)
	}
}

func TestMaxActionsFillsEveryLine(t *testing.T) {
	got, err := newCompiler(nil).Compile(rotationOf(MaxActions), "en")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	total := 0
	for _, b := range got.Blocks {
		total += len(b)
	}
	if total != MaxLines {
		t.Fatalf("%d actions use %d lines, want %d", MaxActions, total, MaxLines)
	}
	if last := got.Blocks[len(got.Blocks)-1]; last[len(last)-1] == CompletionMarker() {
		t.Fatalf("full last block ends with the completion marker")
	}
}

func TestCompilePreservesOrder(t *testing.T) {
	en := translate.New(nil)
	for n := 0; n <= MaxActions; n++ {
		ids := rotationOf(n)
		got, err := newCompiler(nil).Compile(ids, "en")
		if err != nil {
			t.Fatalf("%d actions: %v", n, err)
		}
		if len(got.Blocks) > MaxBlocks {
			t.Fatalf("%d actions: %d blocks", n, len(got.Blocks))
		}
		for i, b := range got.Blocks {
			if len(b) > MaxBlockLines {
				t.Fatalf("%d actions: block %d has %d lines", n, i, len(b))
			}
		}
		names, _ := en.Translate(ids, "en")
		lines := got.ActionLines()
		if len(lines) != n {
			t.Fatalf("%d actions: %d action lines", n, len(lines))
		}
		for i, id := range ids {
			if want := ActionLine(names[i], actions.IsBuff(id)); lines[i] != want {
				t.Fatalf("%d actions: line %d = %q, want %q", n, i, lines[i], want)
			}
		}
	}
}

func TestActionLineWaits(t *testing.T) {
	got, err := newCompiler(nil).Compile([]actions.ID{actions.Innovation, actions.BasicTouch}, "en")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{
		`/ac "Innovation" <wait.2>`,
		`/ac "Basic Touch" <wait.3>`,
		CompletionMarker(),
	}
	if strings.Join(got.Blocks[0], "\n") != strings.Join(want, "\n") {
		t.Fatalf("block = %q, want %q", got.Blocks[0], want)
	}
	if got.Texts()[0] != strings.Join(want, "\n") {
		t.Fatalf("Texts() = %q", got.Texts())
	}
}

func TestCompileTranslates(t *testing.T) {
	got, err := newCompiler(nil).CompileCandidate(craft.CandidateSolution{
		Actions: []actions.ID{actions.WasteNot2, actions.ByregotsBlessing},
	}, "fr")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got.Blocks[0][0] != `/ac "Parcimonie pérenne" <wait.2>` {
		t.Fatalf("line 0 = %q", got.Blocks[0][0])
	}
	if !strings.Contains(got.Rotation, "Bénédiction de Byregot") {
		t.Fatalf("rotation = %q", got.Rotation)
	}
}

func TestCompileUnknownAction(t *testing.T) {
	_, err := newCompiler(nil).Compile([]actions.ID{actions.BasicTouch, "shadowBolt"}, "en")
	if !errors.Is(err, translate.ErrMissingTranslation) {
		t.Fatalf("err = %v, want ErrMissingTranslation", err)
	}
}

func TestWrapRotation(t *testing.T) {
	names, err := translate.New(nil).Translate(rotationOf(40), "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	wrapped := WrapRotation(names)
	lines := strings.Split(wrapped, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected several lines, got %q", wrapped)
	}
	for i, l := range lines {
		if !strings.HasPrefix(l, "    ") {
			t.Fatalf("line %d not indented: %q", i, l)
		}
		if n := utf8.RuneCountInString(l); n > RotationWidth {
			t.Fatalf("line %d is %d wide: %q", i, n, l)
		}
	}
	if got, want := strings.Join(strings.Fields(wrapped), " "), strings.Join(names, ", "); got != want {
		t.Fatalf("wrapped text changed:\n got %q\nwant %q", got, want)
	}
	if WrapRotation(nil) != "" {
		t.Fatalf("empty rotation should render empty")
	}
}
