package macro

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/translate"
)

// In-game macro limits.
const (
	MaxBlockLines = 15
	MaxBlocks     = 3
	MaxLines      = MaxBlockLines * MaxBlocks

	// MaxActions is the longest rotation that fits. Markers count toward
	// MaxLines: every block but the last gives one line to its transition
	// marker, and a full last block drops the completion marker.
	MaxActions = MaxLines - (MaxBlocks - 1)
)

// Wait times, in seconds, appended to each action line.
const (
	BuffWait   = 2
	ActionWait = 3
)

// RotationWidth is the wrap width of the readable rotation, indent included.
const RotationWidth = 56

const (
	rotationIndent   = "    "
	completionMarker = "/echo Craft finished <se.2>"
)

// ErrMacroTooLong is returned when a rotation needs more than MaxLines
// macro lines.
var ErrMacroTooLong = errors.New("macro too long")

// Compiled is the rendered form of one rotation.
type Compiled struct {
	Rotation string
	Blocks   [][]string
}

// Texts returns each block as newline separated text, ready to paste.
func (c Compiled) Texts() []string {
	out := make([]string, len(c.Blocks))
	for i, b := range c.Blocks {
		out[i] = strings.Join(b, "\n")
	}
	return out
}

// LineCount is the total number of macro lines across blocks.
func (c Compiled) LineCount() int {
	n := 0
	for _, b := range c.Blocks {
		n += len(b)
	}
	return n
}

// ActionLines returns the action lines in block order, markers removed.
func (c Compiled) ActionLines() []string {
	var out []string
	for _, b := range c.Blocks {
		for _, line := range b {
			if strings.HasPrefix(line, "/ac ") {
				out = append(out, line)
			}
		}
	}
	return out
}

// Compiler renders rotations as readable text and macro blocks.
type Compiler struct {
	translator *translate.Translator
	sink       logsink.Sink
}

// NewCompiler returns a compiler translating through tr.
func NewCompiler(tr *translate.Translator, sink logsink.Sink) *Compiler {
	return &Compiler{translator: tr, sink: logsink.OrDiscard(sink)}
}

// CompileCandidate renders the rotation of a candidate solution.
func (c *Compiler) CompileCandidate(cand craft.CandidateSolution, lang string) (Compiled, error) {
	return c.Compile(cand.Actions, lang)
}

// Compile renders ids in lang. Nothing is returned on error.
func (c *Compiler) Compile(ids []actions.ID, lang string) (Compiled, error) {
	if len(ids) > MaxActions {
		return Compiled{}, fmt.Errorf("%d actions, at most %d fit in %d blocks: %w", len(ids), MaxActions, MaxBlocks, ErrMacroTooLong)
	}
	names, err := c.translator.Translate(ids, lang)
	if err != nil {
		return Compiled{}, err
	}

	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = ActionLine(names[i], actions.IsBuff(id))
	}
	blocks, full := segment(lines)
	if full {
		c.sink.Add(fmt.Sprintf("Macro ends exactly on line %d, no completion marker added.", len(lines)+len(blocks)-1))
	}
	return Compiled{
		Rotation: WrapRotation(names),
		Blocks:   blocks,
	}, nil
}

// ActionLine formats one macro line.
func ActionLine(name string, buff bool) string {
	wait := ActionWait
	if buff {
		wait = BuffWait
	}
	return fmt.Sprintf("/ac \"%s\" <wait.%d>", name, wait)
}

// TransitionMarker is the last line of block k when block k+1 follows.
func TransitionMarker(k int) string {
	return fmt.Sprintf("/echo Macro #%d done, start macro #%d <se.1>", k, k+1)
}

// CompletionMarker is the last line of the final block, unless that block
// is full.
func CompletionMarker() string {
	return completionMarker
}

// segment splits action lines into blocks. full reports that the final
// block was exactly full and got no completion marker. The caller has
// already checked len(lines) <= MaxActions.
func segment(lines []string) (blocks [][]string, full bool) {
	rest := lines
	for len(rest) > MaxBlockLines {
		block := make([]string, 0, MaxBlockLines)
		block = append(block, rest[:MaxBlockLines-1]...)
		block = append(block, TransitionMarker(len(blocks)+1))
		blocks = append(blocks, block)
		rest = rest[MaxBlockLines-1:]
	}
	last := make([]string, 0, MaxBlockLines)
	last = append(last, rest...)
	if len(last) == MaxBlockLines {
		full = true
	} else {
		last = append(last, completionMarker)
	}
	return append(blocks, last), full
}

// WrapRotation joins names with ", " and wraps to RotationWidth columns,
// indenting every line.
func WrapRotation(names []string) string {
	if len(names) == 0 {
		return ""
	}
	text := strings.Join(names, ", ")
	wrapped := wordwrap.WrapString(text, uint(RotationWidth-len(rotationIndent)))
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = rotationIndent + strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
