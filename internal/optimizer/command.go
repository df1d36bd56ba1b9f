package optimizer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
)

// Command runs an optimizer executable once per request. The request is
// written to stdin as a JSON object; the executable prints its solutions as
// JSON on stdout.
type Command struct {
	Path string
	Args []string
	Env  []string
}

// Solve runs the executable and parses its output.
func (c *Command) Solve(ctx context.Context, req Request) ([]craft.CandidateSolution, error) {
	body, err := sonic.Marshal(req.Fields())
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	cmd.Stdin = bytes.NewReader(body)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("optimizer %s: %w: %s", c.Path, err, msg)
		}
		return nil, fmt.Errorf("optimizer %s: %w", c.Path, err)
	}
	return ParseSolutions(stdout.Bytes())
}

// ParseSolutions reads optimizer JSON output. Both {"solutions": [...]}
// and a bare array are accepted. Each solution carries "actions",
// "quality", "steps" and "cp"; a missing number reads as 0, a
// non-numeric one is an error.
func ParseSolutions(data []byte) ([]craft.CandidateSolution, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("optimizer output is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	list := root
	if !root.IsArray() {
		list = root.Get(fieldSolutions)
		if !list.Exists() {
			return nil, nil
		}
		if !list.IsArray() {
			return nil, fmt.Errorf("optimizer output: %s is not a list", fieldSolutions)
		}
	}

	var out []craft.CandidateSolution
	var parseErr error
	list.ForEach(func(_, sol gjson.Result) bool {
		if !sol.IsObject() {
			parseErr = fmt.Errorf("solution %d: expected an object", len(out))
			return false
		}
		var c craft.CandidateSolution
		for _, f := range []struct {
			key string
			dst *int
		}{
			{fieldSolutionQuality, &c.Quality},
			{fieldSolutionSteps, &c.Steps},
			{fieldSolutionRemaining, &c.RemainingCP},
		} {
			v := sol.Get(f.key)
			if !v.Exists() {
				continue
			}
			if v.Type != gjson.Number {
				parseErr = fmt.Errorf("solution %d: %s is not a number: %s", len(out), f.key, v.Raw)
				return false
			}
			*f.dst = int(v.Int())
		}
		for j, a := range sol.Get(fieldSolutionActions).Array() {
			if a.Type != gjson.String {
				parseErr = fmt.Errorf("solution %d: action %d is not a string", len(out), j)
				return false
			}
			c.Actions = append(c.Actions, actions.ID(a.Str))
		}
		out = append(out, c)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}
