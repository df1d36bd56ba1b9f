package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
	"github.com/infiniteWander/xiv-gui-solver/internal/macro"
	"github.com/infiniteWander/xiv-gui-solver/internal/optimizer"
	"github.com/infiniteWander/xiv-gui-solver/internal/selector"
	"github.com/infiniteWander/xiv-gui-solver/internal/session"
	"github.com/infiniteWander/xiv-gui-solver/internal/solver"
	"github.com/infiniteWander/xiv-gui-solver/internal/translate"
)

func main() {
	configDir := flag.String("config-dir", "./configs", "Path to config directory")
	user := flag.String("character", "", "User preset (defaults to the first entry of users.yaml)")
	recipe := flag.String("recipe", "", "Recipe preset name")
	food := flag.String("food", "", "Food preset name")
	pot := flag.String("pot", "", "Pot preset name")
	specialist := flag.Bool("specialist", false, "Apply the specialist bonus")
	lang := flag.String("lang", "en", "Macro language (en, fr, de, ja)")
	optAddr := flag.String("optimizer-addr", "", "gRPC address of the optimizer")
	optCmd := flag.String("optimizer-cmd", "", "Optimizer executable and arguments")
	desperate := flag.Bool("desperate", false, "Search deeper to finish the craft at all costs")
	long := flag.Bool("long", false, "Try Byregot's Blessing earlier to find more solutions")
	depth := flag.Int("depth", 0, "Search depth (0 = default)")
	threads := flag.Int("threads", 0, "Optimizer threads (0 = logical CPUs)")
	verbose := flag.Int("v", 0, "Optimizer verbosity (0-3)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Give up after this long")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if *recipe == "" {
		log.Fatal().Msg("CLI: -recipe is required")
	}

	presets, err := config.LoadPresets(*configDir)
	if err != nil {
		log.Fatal().Err(err).Str("config_dir", *configDir).Msg("CLI: failed to load presets")
	}

	journal := logsink.NewJournal(log.Logger)
	journal.Add("Log initialised.")

	sess := session.New(presets, journal)
	if *user != "" {
		if err := sess.SelectUser(*user); err != nil {
			log.Fatal().Err(err).Msg("CLI: bad -character")
		}
	}
	warnUnknown("food", *food, presets.FoodNames)
	warnUnknown("pot", *pot, presets.PotNames)
	sess.SetFood(*food)
	sess.SetPot(*pot)
	sess.SetSpecialist(*specialist)
	sess.SetLanguage(*lang)
	if err := sess.SelectRecipe(*recipe); err != nil {
		log.Fatal().Err(err).Msg("CLI: bad -recipe")
	}

	params := config.DefaultSearchParams(*desperate, *long)
	if *depth > 0 {
		params.Depth = *depth
	}
	if *threads > 0 {
		params.Threads = *threads
	}
	params.Verbosity = *verbose

	opt, closer, err := optimizer.Open(*optAddr, *optCmd)
	if err != nil {
		log.Fatal().Err(err).Msg("CLI: set -optimizer-addr or -optimizer-cmd")
	}
	defer closer.Close()

	tr := translate.New(journal)
	s := solver.New(opt, selector.New(macro.NewCompiler(tr, journal), journal), journal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	snap := sess.Snapshot()
	out, err := s.Solve(ctx, solver.Input{
		Recipe:   snap.Recipe,
		Stats:    snap.Effective,
		Params:   params,
		Language: snap.Language,
	})
	if err != nil {
		if len(out.Selection.Results()) == 0 {
			log.Fatal().Err(err).Msg("CLI: solve failed")
		}
		log.Warn().Err(err).Msg("CLI: some results could not be compiled")
	}

	printStats(snap)
	printOutcome(out)
}

// warnUnknown flags a consumable name that will be ignored.
func warnUnknown(kind, name string, known []string) {
	if name == "" || slices.Contains(known, name) {
		return
	}
	log.Warn().Str(kind, name).Str("did_you_mean", config.Suggest(name, known)).Msg("CLI: unknown consumable, ignoring it")
}

func printStats(snap session.Snapshot) {
	fmt.Println("Character Stats:")
	fmt.Printf("  Craftsmanship: %d (base %d)\n", snap.Effective.Craftsmanship, snap.Base.Craftsmanship)
	fmt.Printf("  Control: %d (base %d)\n", snap.Effective.Control, snap.Base.Control)
	fmt.Printf("  CP: %d (base %d)\n", snap.Effective.CP, snap.Base.CP)
	fmt.Println()
}

func printOutcome(out solver.Outcome) {
	results := out.Selection.Results()
	if len(results) == 0 {
		fmt.Println("No solution found.")
		return
	}
	fmt.Printf("%d solutions in %s (request %s)\n\n", out.Candidates, out.Elapsed.Round(time.Millisecond), out.RequestID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Result\tQuality\tSteps\tCP left")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", r.Title, r.Quality, r.Steps, r.RemainingCP)
	}
	w.Flush()

	for _, r := range results {
		fmt.Printf("\n== %s ==\n%s\n", r.Title, r.Rotation)
		for i, block := range r.MacroBlocks {
			fmt.Printf("\n-- Macro #%d --\n%s\n", i+1, block)
		}
	}
	fmt.Println(strings.Repeat("=", 40))
}
