package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/macro"
	"github.com/infiniteWander/xiv-gui-solver/internal/optimizer"
	"github.com/infiniteWander/xiv-gui-solver/internal/selector"
	"github.com/infiniteWander/xiv-gui-solver/internal/session"
	"github.com/infiniteWander/xiv-gui-solver/internal/solver"
	"github.com/infiniteWander/xiv-gui-solver/internal/translate"
)

const maxBody = 1 << 20

type presetsResponse struct {
	Users   []userDTO `json:"users"`
	Foods   []string  `json:"foods"`
	Pots    []string  `json:"pots"`
	Recipes []string  `json:"recipes"`
}

type userDTO struct {
	Name  string              `json:"name"`
	Stats character.BaseStats `json:"stats"`
}

type actionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Buff bool   `json:"buff"`
}

type statsRequest struct {
	User       string               `json:"user"`
	Base       *character.BaseStats `json:"base,omitempty"`
	Food       string               `json:"food"`
	Pot        string               `json:"pot"`
	Specialist bool                 `json:"specialist"`
}

type macroRequest struct {
	Actions  []string `json:"actions"`
	Language string   `json:"language"`
}

type macroResponse struct {
	Rotation    string   `json:"rotation"`
	Blocks      []string `json:"blocks"`
	Diagnostics []string `json:"diagnostics"`
}

type solveRequest struct {
	statsRequest
	Recipe        string               `json:"recipe"`
	RecipeProfile *craft.RecipeProfile `json:"recipe_profile,omitempty"`
	Language      string               `json:"language"`
	Desperate     bool                 `json:"desperate"`
	Long          bool                 `json:"long"`
}

type solveResponse struct {
	RequestID   string                   `json:"request_id"`
	Candidates  int                      `json:"candidates"`
	ElapsedMs   int64                    `json:"elapsed_ms"`
	Stats       character.EffectiveStats `json:"stats"`
	Selection   selector.Selection       `json:"selection"`
	Diagnostics []string                 `json:"diagnostics"`
	Errors      []string                 `json:"errors,omitempty"`
}

type server struct {
	configDir string
	optimizer optimizer.Optimizer

	mu      sync.Mutex
	presets *config.Presets
}

func main() {
	configDir := flag.String("config-dir", "./configs", "Path to config directory")
	addr := flag.String("addr", ":8080", "Listen address (e.g., :8080)")
	optAddr := flag.String("optimizer-addr", "", "gRPC address of the optimizer")
	optCmd := flag.String("optimizer-cmd", "", "Optimizer executable and arguments")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	presets, err := config.LoadPresets(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Server: failed to load presets")
	}

	opt, closer, err := optimizer.Open(*optAddr, *optCmd)
	switch {
	case errors.Is(err, optimizer.ErrNotConfigured):
		log.Warn().Msg("Server: no optimizer configured, /api/solve is disabled")
	case err != nil:
		log.Fatal().Err(err).Msg("Server: failed to open optimizer")
	default:
		defer closer.Close()
	}

	s := &server{configDir: *configDir, optimizer: opt, presets: presets}
	listenAddr := normalizeAddr(*addr)
	log.Info().Str("addr", listenAddr).Str("config_dir", *configDir).Msg("Server: listening")
	srv := &http.Server{Addr: listenAddr, Handler: s.routes(), ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server: stopped")
	}
}

// normalizeAddr ensures the listen address includes a colon.
func normalizeAddr(addr string) string {
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("PUT /api/users/{name}", s.handleSaveUser)
	mux.HandleFunc("PUT /api/recipes/{name}", s.handleSaveRecipe)
	mux.HandleFunc("GET /api/actions", s.handleActions)
	mux.HandleFunc("GET /api/languages", s.handleLanguages)
	mux.HandleFunc("POST /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/macro", s.handleMacro)
	mux.HandleFunc("POST /api/solve", s.handleSolve)
	mux.HandleFunc("GET /api/rotations", s.handleListRotations)
	mux.HandleFunc("GET /api/rotations/{name}", s.handleGetRotation)
	return mux
}

func (s *server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := presetsResponse{
		Users:   make([]userDTO, 0, len(s.presets.UserNames)),
		Foods:   slices.Clone(s.presets.FoodNames),
		Pots:    slices.Clone(s.presets.PotNames),
		Recipes: slices.Clone(s.presets.RecipeNames),
	}
	for _, name := range s.presets.UserNames {
		resp.Users = append(resp.Users, userDTO{Name: name, Stats: s.presets.Users[name]})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	var stats character.BaseStats
	if err := readJSON(r, &stats); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := config.ValidateInputs(stats, nil, nil); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := session.New(s.presets, nil)
	sess.SetBaseStats(stats)
	if err := sess.SaveUser(r.PathValue("name"), s.configDir); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save user: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	var recipe craft.RecipeProfile
	if err := readJSON(r, &recipe); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := config.ValidateRecipe(r.PathValue("name"), recipe); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := session.New(s.presets, nil)
	sess.UpdateRecipe(craft.FullUpdate{Recipe: recipe})
	if err := sess.SaveRecipe(r.PathValue("name"), s.configDir); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save recipe: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleActions(w http.ResponseWriter, r *http.Request) {
	ids := actions.Known()
	names, err := translate.New(nil).Translate(ids, translate.Fallback)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]actionDTO, len(ids))
	for i, id := range ids {
		out[i] = actionDTO{ID: string(id), Name: names[i], Buff: actions.IsBuff(id)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, translate.New(nil).Languages())
}

// newSession applies a stats request to a fresh session. The caller holds
// s.mu.
func (s *server) newSession(req statsRequest, sink logsink.Sink) (*session.Session, error) {
	sess := session.New(s.presets, sink)
	if req.User != "" {
		if err := sess.SelectUser(req.User); err != nil {
			return nil, err
		}
	}
	if req.Base != nil {
		if err := config.ValidateInputs(*req.Base, nil, nil); err != nil {
			return nil, err
		}
		sess.SetBaseStats(*req.Base)
	}
	sess.SetFood(req.Food)
	sess.SetPot(req.Pot)
	sess.SetSpecialist(req.Specialist)
	return sess, nil
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	sess, err := s.newSession(req, nil)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Effective())
}

func (s *server) handleMacro(w http.ResponseWriter, r *http.Request) {
	var req macroRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ids := make([]actions.ID, 0, len(req.Actions))
	for i, name := range req.Actions {
		id, err := actions.Parse(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("action %d: %w", i, err))
			return
		}
		ids = append(ids, id)
	}
	rec := &logsink.Recorder{}
	journal := logsink.Tee{rec, logsink.NewJournal(log.Logger)}
	compiled, err := macro.NewCompiler(translate.New(journal), journal).Compile(ids, req.Language)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, macroResponse{
		Rotation:    compiled.Rotation,
		Blocks:      compiled.Texts(),
		Diagnostics: nonNil(rec.Messages()),
	})
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if s.optimizer == nil {
		writeError(w, http.StatusServiceUnavailable, optimizer.ErrNotConfigured)
		return
	}
	var req solveRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec := &logsink.Recorder{}
	journal := logsink.Tee{rec, logsink.NewJournal(log.Logger)}

	s.mu.Lock()
	sess, err := s.newSession(req.statsRequest, journal)
	if err == nil {
		switch {
		case req.RecipeProfile != nil:
			if err = config.ValidateRecipe("request", *req.RecipeProfile); err == nil {
				sess.UpdateRecipe(craft.FullUpdate{Recipe: *req.RecipeProfile})
			}
		case req.Recipe != "":
			err = sess.SelectRecipe(req.Recipe)
		default:
			err = errors.New("recipe or recipe_profile is required")
		}
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess.SetLanguage(req.Language)
	snap := sess.Snapshot()

	sel := selector.New(macro.NewCompiler(translate.New(journal), journal), journal)
	out, err := solver.New(s.optimizer, sel, journal).Solve(r.Context(), solver.Input{
		Recipe:   snap.Recipe,
		Stats:    snap.Effective,
		Params:   config.DefaultSearchParams(req.Desperate, req.Long),
		Language: snap.Language,
	})
	partial := err != nil && len(out.Selection.Results()) > 0
	if err != nil && !partial {
		status := http.StatusBadGateway
		if errors.Is(err, macro.ErrMacroTooLong) || errors.Is(err, translate.ErrMissingTranslation) {
			status = http.StatusUnprocessableEntity
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{
		RequestID:   out.RequestID,
		Candidates:  out.Candidates,
		ElapsedMs:   out.Elapsed.Milliseconds(),
		Stats:       snap.Effective,
		Selection:   out.Selection,
		Diagnostics: nonNil(rec.Messages()),
		Errors:      slotErrors(err),
	})
}

// slotErrors lists the results that failed to compile.
func slotErrors(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func (s *server) rotationsDir() string {
	return filepath.Join(s.configDir, "rotations")
}

func (s *server) handleListRotations(w http.ResponseWriter, r *http.Request) {
	files, err := listRotationFiles(s.rotationsDir())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list rotations: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *server) handleGetRotation(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	files, err := listRotationFiles(s.rotationsDir())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list rotations: %w", err))
		return
	}
	if !slices.Contains(files, name) {
		writeError(w, http.StatusNotFound, fmt.Errorf("rotation not found: %s", name))
		return
	}
	file, err := macro.LoadRotation(s.rotationsDir(), name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ids, err := file.Actions()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = file.Language
	}
	rec := &logsink.Recorder{}
	compiled, err := macro.NewCompiler(translate.New(rec), rec).Compile(ids, lang)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, macroResponse{
		Rotation:    compiled.Rotation,
		Blocks:      compiled.Texts(),
		Diagnostics: nonNil(rec.Messages()),
	})
}

func listRotationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, name)
		}
	}
	slices.Sort(files)
	return files, nil
}

func nonNil(msgs []string) []string {
	if msgs == nil {
		return []string{}
	}
	return msgs
}

func readJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Error().Err(err).Int("status", status).Msg("Server: request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
