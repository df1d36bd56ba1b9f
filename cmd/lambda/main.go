package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/macro"
	"github.com/infiniteWander/xiv-gui-solver/internal/optimizer"
	"github.com/infiniteWander/xiv-gui-solver/internal/selector"
	"github.com/infiniteWander/xiv-gui-solver/internal/solver"
	"github.com/infiniteWander/xiv-gui-solver/internal/translate"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// request either names actions to compile, or carries a recipe and stats
// to solve for.
type request struct {
	Actions    []string             `json:"actions"`
	Language   string               `json:"language"`
	Recipe     *craft.RecipeProfile `json:"recipe"`
	Base       character.BaseStats  `json:"base"`
	Food       *character.Modifier  `json:"food"`
	Pot        *character.Modifier  `json:"pot"`
	Specialist bool                 `json:"specialist"`
	Desperate  bool                 `json:"desperate"`
	Long       bool                 `json:"long"`
}

type compileResult struct {
	Rotation    string   `json:"rotation"`
	Blocks      []string `json:"blocks"`
	Diagnostics []string `json:"diagnostics"`
}

type solveResult struct {
	RequestID   string             `json:"request_id"`
	Candidates  int                `json:"candidates"`
	TimeMs      int64              `json:"timeMs"`
	Selection   selector.Selection `json:"selection"`
	Diagnostics []string           `json:"diagnostics"`
	Errors      []string           `json:"errors,omitempty"`
}

type handler struct {
	optimizer optimizer.Optimizer
}

func (h handler) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req request
	if err := sonic.UnmarshalString(body, &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if req.Recipe != nil {
		return h.solve(ctx, req)
	}
	if len(req.Actions) == 0 {
		return errResp(400, "missing actions or recipe field")
	}
	return compile(req)
}

func compile(req request) (events.LambdaFunctionURLResponse, error) {
	ids := make([]actions.ID, 0, len(req.Actions))
	for i, name := range req.Actions {
		id, err := actions.Parse(name)
		if err != nil {
			return errResp(400, fmt.Sprintf("action %d: %v", i, err))
		}
		ids = append(ids, id)
	}
	rec := &logsink.Recorder{}
	compiled, err := macro.NewCompiler(translate.New(rec), rec).Compile(ids, req.Language)
	if err != nil {
		return errResp(422, err.Error())
	}
	return okResp(compileResult{
		Rotation:    compiled.Rotation,
		Blocks:      compiled.Texts(),
		Diagnostics: nonNil(rec.Messages()),
	})
}

func (h handler) solve(ctx context.Context, req request) (events.LambdaFunctionURLResponse, error) {
	if h.optimizer == nil {
		return errResp(503, optimizer.ErrNotConfigured.Error())
	}
	if err := config.ValidateInputs(req.Base, req.Food, req.Pot); err != nil {
		return errResp(400, err.Error())
	}
	if err := config.ValidateRecipe("request", *req.Recipe); err != nil {
		return errResp(400, err.Error())
	}
	rec := &logsink.Recorder{}
	stats := character.ComputeEffectiveStats(req.Base, req.Food, req.Pot, req.Specialist)
	sel := selector.New(macro.NewCompiler(translate.New(rec), rec), rec)
	out, err := solver.New(h.optimizer, sel, rec).Solve(ctx, solver.Input{
		Recipe:   *req.Recipe,
		Stats:    stats,
		Params:   config.DefaultSearchParams(req.Desperate, req.Long),
		Language: req.Language,
	})
	if err != nil && len(out.Selection.Results()) == 0 {
		if errors.Is(err, macro.ErrMacroTooLong) || errors.Is(err, translate.ErrMissingTranslation) {
			return errResp(422, err.Error())
		}
		return errResp(502, err.Error())
	}
	return okResp(solveResult{
		RequestID:   out.RequestID,
		Candidates:  out.Candidates,
		TimeMs:      out.Elapsed.Milliseconds(),
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

func nonNil(msgs []string) []string {
	if msgs == nil {
		return []string{}
	}
	return msgs
}

func okResp(v any) (events.LambdaFunctionURLResponse, error) {
	body, err := sonic.MarshalString(v)
	if err != nil {
		return errResp(500, "encode response: "+err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: body}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := sonic.MarshalString(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: body}, nil
}

func main() {
	var h handler
	if addr := os.Getenv("OPTIMIZER_ADDR"); addr != "" {
		remote, err := optimizer.Dial(addr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", addr).Msg("Lambda: failed to dial optimizer")
		}
		defer remote.Close()
		h.optimizer = remote
	}
	lambda.Start(h.handle)
}
