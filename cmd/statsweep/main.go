package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/infiniteWander/xiv-gui-solver/internal/character"
	"github.com/infiniteWander/xiv-gui-solver/internal/config"
	"github.com/infiniteWander/xiv-gui-solver/internal/craft"
	"github.com/infiniteWander/xiv-gui-solver/internal/optimizer"
	"github.com/infiniteWander/xiv-gui-solver/internal/selector"
	"github.com/infiniteWander/xiv-gui-solver/internal/session"
)

type sweepConfig struct {
	stat        string
	start       int
	stop        int
	step        int
	concurrency int
	outputDir   string
}

type sweepPoint struct {
	index       int
	value       int
	effective   character.EffectiveStats
	candidates  int
	bestQuality int
	fewestSteps int
	safe        bool
}

// sweepInput is the fixed part of every sweep point.
type sweepInput struct {
	recipe     craft.RecipeProfile
	base       character.BaseStats
	food       *character.Modifier
	pot        *character.Modifier
	specialist bool
	params     config.SearchParams
}

func main() {
	configDir := flag.String("config-dir", "./configs", "Path to config directory")
	user := flag.String("character", "", "User preset (defaults to the first entry of users.yaml)")
	recipe := flag.String("recipe", "", "Recipe preset name")
	food := flag.String("food", "", "Food preset name")
	pot := flag.String("pot", "", "Pot preset name")
	specialist := flag.Bool("specialist", false, "Apply the specialist bonus")
	optAddr := flag.String("optimizer-addr", "", "gRPC address of the optimizer")
	optCmd := flag.String("optimizer-cmd", "", "Optimizer executable and arguments")
	stat := flag.String("stat", "control", "Base stat to sweep (craftsmanship|control|cp)")
	start := flag.Int("start", -1, "Sweep start (defaults to the current base value minus 200, or 50 for cp)")
	stop := flag.Int("stop", -1, "Sweep stop (defaults to the current base value plus 200, or 50 for cp)")
	step := flag.Int("step", 0, "Sweep step (defaults to 50, or 10 for cp)")
	concurrency := flag.Int("concurrency", 0, "Concurrent solves (0 = 1)")
	outputDir := flag.String("output-dir", "output/stat_sweeps", "Directory for sweep CSV output")
	desperate := flag.Bool("desperate", false, "Search deeper to finish the craft at all costs")
	long := flag.Bool("long", false, "Try Byregot's Blessing earlier to find more solutions")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if *recipe == "" {
		log.Fatal().Msg("Sweep: -recipe is required")
	}
	presets, err := config.LoadPresets(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: failed to load presets")
	}
	sess := session.New(presets, nil)
	if *user != "" {
		if err := sess.SelectUser(*user); err != nil {
			log.Fatal().Err(err).Msg("Sweep: bad -character")
		}
	}
	if err := sess.SelectRecipe(*recipe); err != nil {
		log.Fatal().Err(err).Msg("Sweep: bad -recipe")
	}
	foodMod, err := presets.RequireFood(*food)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: bad -food")
	}
	potMod, err := presets.RequirePot(*pot)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: bad -pot")
	}
	snap := sess.Snapshot()

	cfg, err := buildSweepConfig(*stat, *start, *stop, *step, *concurrency, *outputDir, snap.Base)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: config error")
	}

	opt, closer, err := optimizer.Open(*optAddr, *optCmd)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: set -optimizer-addr or -optimizer-cmd")
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	in := sweepInput{
		recipe:     snap.Recipe,
		base:       snap.Base,
		food:       foodMod,
		pot:        potMod,
		specialist: *specialist,
		params:     config.DefaultSearchParams(*desperate, *long),
	}
	if cfg.concurrency > 1 {
		// Solves run side by side, so each gets a share of the CPUs.
		in.params.Threads = max(1, in.params.Threads/cfg.concurrency)
	}

	points, err := runSweep(ctx, opt, in, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: failed")
	}
	outPath, err := writeCSV(cfg, points)
	if err != nil {
		log.Fatal().Err(err).Msg("Sweep: failed to write csv")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tQuality\tSteps\tSafe\n", strings.ToUpper(cfg.stat[:1])+cfg.stat[1:])
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%d\t%d\t%t\n", p.value, p.bestQuality, p.fewestSteps, p.safe)
	}
	w.Flush()
	fmt.Printf("\nSweep complete (%s): %d points, output=%s\n", cfg.stat, len(points), outPath)
}

func buildSweepConfig(stat string, start, stop, step, concurrency int, outputDir string, base character.BaseStats) (sweepConfig, error) {
	cfg := sweepConfig{
		stat:        strings.ToLower(stat),
		start:       start,
		stop:        stop,
		step:        step,
		concurrency: concurrency,
		outputDir:   outputDir,
	}

	var current, spread, defStep int
	switch cfg.stat {
	case "craftsmanship", "crafts":
		cfg.stat = "craftsmanship"
		current, spread, defStep = base.Craftsmanship, 200, 50
	case "control":
		current, spread, defStep = base.Control, 200, 50
	case "cp":
		current, spread, defStep = base.CP, 50, 10
	default:
		return sweepConfig{}, fmt.Errorf("unsupported stat %q (use craftsmanship|control|cp)", stat)
	}
	if cfg.start < 0 {
		cfg.start = max(0, current-spread)
	}
	if cfg.stop < 0 {
		cfg.stop = current + spread
	}
	if cfg.step == 0 {
		cfg.step = defStep
	}

	if cfg.step < 0 {
		return sweepConfig{}, fmt.Errorf("step must be > 0 (got %d)", cfg.step)
	}
	if cfg.stop <= cfg.start {
		return sweepConfig{}, fmt.Errorf("stop must be > start (start=%d, stop=%d)", cfg.start, cfg.stop)
	}
	if cfg.concurrency <= 0 {
		cfg.concurrency = 1
	}
	return cfg, nil
}

func applyStat(base character.BaseStats, stat string, value int) character.BaseStats {
	s := base
	switch stat {
	case "craftsmanship":
		s.Craftsmanship = value
	case "control":
		s.Control = value
	case "cp":
		s.CP = value
	}
	return s
}

// runSweep solves one point per value on a pool of cfg.concurrency
// workers. The first optimizer error cancels the remaining points.
func runSweep(ctx context.Context, opt optimizer.Optimizer, in sweepInput, cfg sweepConfig) ([]sweepPoint, error) {
	var values []int
	for v := cfg.start; v <= cfg.stop; v += cfg.step {
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no sweep points generated")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan sweepPoint, len(values))
	results := make([]sweepPoint, len(values))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	wg.Add(cfg.concurrency)
	for w := 0; w < cfg.concurrency; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				base := applyStat(in.base, cfg.stat, job.value)
				stats := character.ComputeEffectiveStats(base, in.food, in.pot, in.specialist)
				cands, err := opt.Solve(ctx, optimizer.NewRequest(in.recipe, stats, in.params))
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("%s=%d: %w", cfg.stat, job.value, err)
						cancel()
					})
					continue
				}
				p := sweepPoint{index: job.index, value: job.value, effective: stats, candidates: len(cands)}
				if i := selector.BestQuality(cands); i >= 0 {
					p.bestQuality = cands[i].Quality
				}
				if i := selector.FewestSteps(cands); i >= 0 {
					p.fewestSteps = cands[i].Steps
				}
				_, p.safe = selector.SafeMargin(cands, in.recipe.Quality)
				results[job.index] = p
				log.Debug().Str("stat", cfg.stat).Int("value", job.value).Int("candidates", len(cands)).Msg("Sweep: point done")
			}
		}()
	}

	for i, v := range values {
		jobs <- sweepPoint{index: i, value: v}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeCSV(cfg sweepConfig, points []sweepPoint) (string, error) {
	if err := os.MkdirAll(cfg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	outPath := filepath.Join(cfg.outputDir, fmt.Sprintf("%s.csv", cfg.stat))
	file, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", outPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"base_value", "craftsmanship", "control", "cp", "candidates", "best_quality", "fewest_steps", "safe_margin"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range points {
		record := []string{
			strconv.Itoa(p.value),
			strconv.Itoa(p.effective.Craftsmanship),
			strconv.Itoa(p.effective.Control),
			strconv.Itoa(p.effective.CP),
			strconv.Itoa(p.candidates),
			strconv.Itoa(p.bestQuality),
			strconv.Itoa(p.fewestSteps),
			strconv.FormatBool(p.safe),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return outPath, nil
}
