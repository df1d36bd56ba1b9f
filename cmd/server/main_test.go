package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/optimizer"
)

func newTestServer(t *testing.T, opt optimizer.Optimizer) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	presets := config.NewPresets()
	presets.SetRecipe("two-star", craft.RecipeProfile{
		Progress: 3500, Quality: 7200, Durability: 80,
		ProgressDifficulty: 130, QualityDifficulty: 115,
		ExtraProgressDifficulty: 80, ExtraQualityDifficulty: 70,
	})
	s := &server{configDir: dir, optimizer: opt, presets: presets}
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts, dir
}

func do(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"8080":      ":8080",
		":8080":     ":8080",
		"localhost": ":localhost",
		"0.0.0.0:1": "0.0.0.0:1",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandleMacro(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	status, body := do(t, http.MethodPost, ts.URL+"/api/macro", `{"actions":["muscleMemory","Veneration","groundwork"],"language":"en"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	var resp macroResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(resp.Blocks))
	}
	if !strings.Contains(resp.Blocks[0], `/ac "Veneration" <wait.2>`) {
		t.Errorf("block missing veneration line:\n%s", resp.Blocks[0])
	}
	if len(resp.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", resp.Diagnostics)
	}

	status, body = do(t, http.MethodPost, ts.URL+"/api/macro", `{"actions":["notAnAction"]}`)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown action status = %d, body = %s", status, body)
	}

	long := strings.Repeat(`"basicSynth",`, 44)
	status, _ = do(t, http.MethodPost, ts.URL+"/api/macro", `{"actions":[`+strings.TrimSuffix(long, ",")+`]}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("too long status = %d", status)
	}
}

func TestHandleMacroUnsupportedLanguage(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	status, body := do(t, http.MethodPost, ts.URL+"/api/macro", `{"actions":["observe"],"language":"xx"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	var resp macroResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one", resp.Diagnostics)
	}
}

func TestHandleSolve(t *testing.T) {
	var got optimizer.Request
	opt := optimizer.Func(func(ctx context.Context, req optimizer.Request) ([]craft.CandidateSolution, error) {
		got = req
		return []craft.CandidateSolution{
			{Actions: []actions.ID{actions.MuscleMemory, actions.ByregotsBlessing}, Quality: 9000, Steps: 12, RemainingCP: 10},
			{Actions: []actions.ID{actions.Groundwork}, Quality: 7500, Steps: 9, RemainingCP: 40},
		}, nil
	})
	ts, _ := newTestServer(t, opt)

	status, body := do(t, http.MethodPost, ts.URL+"/api/solve",
		`{"base":{"craftsmanship":4000,"control":3900,"cp":600},"recipe":"two-star","language":"en"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	var resp solveResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Craftsmanship != 4000 || got.Progress != 3500 {
		t.Errorf("optimizer request = %+v", got)
	}
	if resp.Candidates != 2 || resp.RequestID == "" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Selection.BestQuality == nil || resp.Selection.BestQuality.Quality != 9000 {
		t.Errorf("best quality = %+v", resp.Selection.BestQuality)
	}
	if resp.Selection.FewestSteps == nil || resp.Selection.FewestSteps.Steps != 9 {
		t.Errorf("fewest steps = %+v", resp.Selection.FewestSteps)
	}
}

func TestHandleSolveErrors(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	if status, _ := do(t, http.MethodPost, ts.URL+"/api/solve", `{"recipe":"two-star"}`); status != http.StatusServiceUnavailable {
		t.Fatalf("no optimizer status = %d", status)
	}

	opt := optimizer.Func(func(context.Context, optimizer.Request) ([]craft.CandidateSolution, error) {
		return nil, nil
	})
	ts, _ = newTestServer(t, opt)
	if status, _ := do(t, http.MethodPost, ts.URL+"/api/solve", `{"recipe":"missing"}`); status != http.StatusBadRequest {
		t.Fatalf("unknown recipe status = %d", status)
	}
	if status, _ := do(t, http.MethodPost, ts.URL+"/api/solve", `{}`); status != http.StatusBadRequest {
		t.Fatalf("no recipe status = %d", status)
	}
}

func TestSaveUserRoundTrip(t *testing.T) {
	ts, dir := newTestServer(t, nil)

	status, body := do(t, http.MethodPut, ts.URL+"/api/users/Alt", `{"craftsmanship":3000,"control":2900,"cp":500}`)
	if status != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if _, err := os.Stat(filepath.Join(dir, config.UsersFile)); err != nil {
		t.Fatalf("users file not written: %v", err)
	}

	status, body = do(t, http.MethodGet, ts.URL+"/api/presets", "")
	if status != http.StatusOK {
		t.Fatalf("presets status = %d", status)
	}
	var resp presetsResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].Name != "Alt" || resp.Users[0].Stats.CP != 500 {
		t.Fatalf("users = %+v", resp.Users)
	}
	if len(resp.Recipes) != 1 || resp.Recipes[0] != "two-star" {
		t.Fatalf("recipes = %v", resp.Recipes)
	}
}

func TestRotations(t *testing.T) {
	ts, dir := newTestServer(t, nil)
	rotDir := filepath.Join(dir, "rotations")
	if err := os.MkdirAll(rotDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "name: opener\nlanguage: fr\nrotation:\n  - muscleMemory\n  - veneration\n"
	if err := os.WriteFile(filepath.Join(rotDir, "opener.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rotDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	status, body := do(t, http.MethodGet, ts.URL+"/api/rotations", "")
	if status != http.StatusOK || string(body) != `["opener.yaml"]` {
		t.Fatalf("list = %d %s", status, body)
	}

	status, body = do(t, http.MethodGet, ts.URL+"/api/rotations/opener.yaml", "")
	if status != http.StatusOK {
		t.Fatalf("get = %d %s", status, body)
	}
	var resp macroResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Blocks[0], "Vénération") {
		t.Errorf("expected french names, got:\n%s", resp.Blocks[0])
	}

	if status, _ := do(t, http.MethodGet, ts.URL+"/api/rotations/missing.yaml", ""); status != http.StatusNotFound {
		t.Fatalf("missing status = %d", status)
	}
}

func TestRejectsNegativeInputs(t *testing.T) {
	ts, dir := newTestServer(t, nil)
	if status, _ := do(t, http.MethodPut, ts.URL+"/api/users/Bad", `{"craftsmanship":-5,"control":2900,"cp":500}`); status != http.StatusBadRequest {
		t.Fatalf("save user status = %d", status)
	}
	if status, _ := do(t, http.MethodPut, ts.URL+"/api/recipes/Bad", `{"progress":-1}`); status != http.StatusBadRequest {
		t.Fatalf("save recipe status = %d", status)
	}
	if status, _ := do(t, http.MethodPost, ts.URL+"/api/stats", `{"base":{"craftsmanship":4000,"control":-1,"cp":600}}`); status != http.StatusBadRequest {
		t.Fatalf("stats status = %d", status)
	}
	if _, err := os.Stat(filepath.Join(dir, config.UsersFile)); !os.IsNotExist(err) {
		t.Fatalf("users file should not be written, stat err = %v", err)
	}
}

func TestHandleSolvePartialResults(t *testing.T) {
	long := make([]actions.ID, 44)
	for i := range long {
		long[i] = actions.BasicTouch
	}
	opt := optimizer.Func(func(context.Context, optimizer.Request) ([]craft.CandidateSolution, error) {
		return []craft.CandidateSolution{
			{Actions: long, Quality: 20000, Steps: len(long)},
			{Actions: []actions.ID{actions.BasicSynthesis}, Quality: 100, Steps: 1},
		}, nil
	})
	ts, _ := newTestServer(t, opt)
	status, body := do(t, http.MethodPost, ts.URL+"/api/solve", `{"recipe":"two-star"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	var resp solveResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Selection.FewestSteps == nil || resp.Selection.BestQuality != nil || len(resp.Errors) != 2 {
		t.Fatalf("selection = %+v, errors = %v", resp.Selection, resp.Errors)
	}
}
