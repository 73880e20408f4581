package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/cmd/common"
	"github.com/ducminhle1904/crop-allocation-optimizer/internal/batch"
	"github.com/ducminhle1904/crop-allocation-optimizer/internal/config"
	"github.com/ducminhle1904/crop-allocation-optimizer/internal/logger"
	"github.com/ducminhle1904/crop-allocation-optimizer/internal/monitoring"
	"github.com/ducminhle1904/crop-allocation-optimizer/internal/tui"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/catalog"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/reporting"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const AppName = "Crop Optimizer"

func main() {
	flags := NewOptimizerFlags(flag.CommandLine)
	flag.Parse()

	if *flags.ShowVersion {
		common.PrintVersion(AppName)
		return
	}

	if *flags.ShowHelp {
		usage().PrintUsage(os.Stdout, flag.CommandLine)
		return
	}

	printHeader()

	loadEnvironment(*flags.EnvFile)
	cfg := config.Load()
	flags.ApplyOverrides(flag.CommandLine, cfg)

	if err := ValidateConfig(cfg, *flags.TickMS, *flags.Runs, *flags.Workers); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	runID := uuid.NewString()
	seed := cfg.Run.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	crops, err := catalog.Load(cfg.Run.CatalogFile)
	if err != nil {
		log.Fatalf("❌ Failed to load crop catalog: %v", err)
	}
	log.Printf("🌱 Loaded %d crops", len(crops))

	opt, err := optimization.NewOptimizer(cfg.Optimizer, crops, rand.New(rand.NewSource(seed)))
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	var runLog *logger.Logger
	if !*flags.NoLogFile {
		runLog, err = logger.NewLogger(cfg.Output.LogDir, runID)
		if err != nil {
			log.Fatalf("❌ Failed to create run log: %v", err)
		}
		defer runLog.Close()
		runLog.Info("seed=%d crops=%d population=%d mutation=%.2f plot=%.0f generations=%d",
			seed, len(crops), cfg.Optimizer.PopulationSize, cfg.Optimizer.MutationRate,
			cfg.Optimizer.TotalPlotArea, cfg.Optimizer.Generations)
		log.Printf("📝 Run log: %s", runLog.GetLogPath())
	}

	metrics := monitoring.NewMetrics()
	progress := monitoring.NewProgressTracker(runID, cfg.Optimizer.Generations)
	if cfg.Monitoring.PrometheusPort > 0 {
		startMonitoringServer(cfg.Monitoring.PrometheusPort, metrics, progress)
	}

	observers := []optimization.Observer{metrics.Observer(runID), progress.Observer()}
	if runLog != nil {
		observers = append(observers, runLog.Observer())
	}
	observer := optimization.MultiObserver(observers...)

	log.Printf("🚀 Starting run %s (seed %d, %d generations)", runID, seed, cfg.Optimizer.Generations)
	started := time.Now()

	batchMode := !*flags.TUI && *flags.Runs > 1

	var result *optimization.Result
	switch {
	case *flags.TUI:
		result, err = runInteractive(opt, observer, cfg.Optimizer.Generations, time.Duration(*flags.TickMS)*time.Millisecond)
	case batchMode:
		result, seed, err = runBatch(cfg, crops, runID, seed, *flags.Runs, *flags.Workers, metrics)
		if err == nil {
			progress.Observer()(result.Stats[len(result.Stats)-1])
			if runLog != nil {
				runLog.Info("best run seed=%d", seed)
				for _, stats := range result.Stats {
					runLog.LogGeneration(stats)
				}
			}
		}
	default:
		result, err = opt.Run(cfg.Optimizer.Generations, observer)
	}
	duration := time.Since(started)

	if errors.Is(err, tui.ErrInterrupted) || errors.Is(err, context.Canceled) {
		metrics.RecordRun(runID, "interrupted", 0)
		message := interruptMessage(batchMode, *flags.Runs, opt.Generation())
		if runLog != nil {
			runLog.Warning("%s", message)
		}
		log.Printf("⚠️  %s", message)
		return
	}
	if err != nil {
		metrics.RecordRun(runID, "failed", 0)
		progress.RecordError(err)
		if runLog != nil {
			runLog.LogError("run", err)
		}
		log.Fatalf("❌ Optimization failed: %v", err)
	}

	metrics.RecordRun(runID, "success", result.Discarded)
	progress.MarkFinished()
	if runLog != nil {
		if _, best, ok := result.Best(); ok {
			runLog.Log(logger.LogLevelStatus, "finished in %s best=%.2f discarded=%d", duration.Round(time.Millisecond), best, result.Discarded)
		}
	}
	log.Printf("✅ Finished %d generations in %s", result.Generations, duration.Round(time.Millisecond))

	report := &reporting.RunReport{
		RunID:     runID,
		StartedAt: started,
		Duration:  duration,
		Catalog:   crops,
		Config:    opt.Config(),
		Result:    result,
	}

	manager := reporting.NewReportingManager(reporting.ReportingConfigFromFormats(cfg.Output.Directory, cfg.Output.Formats))
	written, err := manager.ReportResults(report)
	if err != nil {
		log.Fatalf("❌ Failed to write reports: %v", err)
	}
	for _, path := range written {
		log.Printf("💾 Saved %s", path)
	}
}

// interruptMessage describes where a cancelled run stopped. Batch runs use
// their own optimizers, so only the run count is known here.
func interruptMessage(batchMode bool, runs, generations int) string {
	if batchMode {
		return fmt.Sprintf("Batch of %d runs interrupted", runs)
	}
	return fmt.Sprintf("Run interrupted after %d generations", generations)
}

func printHeader() {
	fmt.Printf("🌾 %s v%s\n", strings.ToUpper(AppName), common.ProjectVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v), using process environment", envFile, err)
	}
}

func startMonitoringServer(port int, metrics *monitoring.Metrics, progress *monitoring.ProgressTracker) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics)
	mux.Handle("/progress", progress)

	go func() {
		log.Printf("📊 Metrics on :%d/metrics, progress on :%d/progress", port, port)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Printf("❌ Monitoring server error: %v", err)
		}
	}()
}

// runInteractive drives the optimizer from the terminal view. Standard
// logging is muted while the screen is active.
func runInteractive(opt *optimization.Optimizer, observer optimization.Observer, generations int, tick time.Duration) (*optimization.Result, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)
	defer screen.Fini()

	host := tui.NewHost(screen, opt, tui.Options{
		Generations: generations,
		Tick:        tick,
		Observer:    observer,
	})
	return host.Run()
}

// runBatch executes independent runs on consecutive seeds and returns the
// best result with the seed that produced it. Ctrl+C cancels every run at
// its next generation boundary.
func runBatch(cfg *config.Config, crops types.Catalog, runID string, seed int64, runs, workers int, metrics *monitoring.Metrics) (*optimization.Result, int64, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(workers, cfg.Optimizer, crops, func(id string) optimization.Observer {
		return metrics.Observer(id)
	})

	log.Printf("🔀 Running %d independent runs", runs)
	results, err := runner.Run(ctx, runID, batch.Seeds(seed, runs))
	if err != nil {
		return nil, seed, err
	}

	for _, res := range results {
		if res.Error != nil {
			log.Printf("❌ Run %s (seed %d) failed: %v", res.ID, res.Seed, res.Error)
			metrics.RecordRun(res.ID, "failed", 0)
			continue
		}
		fitness, _ := res.BestFitness()
		log.Printf("   %s seed=%d best=%.0f (%s)", res.ID, res.Seed, fitness, res.Duration.Round(time.Millisecond))
		metrics.RecordRun(res.ID, "success", res.Result.Discarded)
	}

	best, ok := batch.Best(results)
	if !ok {
		return nil, seed, fmt.Errorf("all %d runs failed", runs)
	}
	log.Printf("🏆 Best run %s (seed %d)", best.ID, best.Seed)
	return best.Result, best.Seed, nil
}
