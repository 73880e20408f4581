package main

import (
	"flag"
	"math"
	"strings"

	"github.com/ducminhle1904/crop-allocation-optimizer/cmd/common"
	"github.com/ducminhle1904/crop-allocation-optimizer/internal/config"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
)

var outputFormats = []string{"console", "text", "txt", "csv", "json", "xlsx", "excel", "all"}

// OptimizerFlags holds all command line flags for the optimizer command
type OptimizerFlags struct {
	// Configuration
	EnvFile     *string
	CatalogFile *string

	// Genetic algorithm parameters
	Population   *int
	MutationRate *float64
	PlotSize     *float64
	GrowthTime   *int
	Generations  *int
	Seed         *int64

	// Independent runs
	Runs    *int
	Workers *int

	// Output options
	OutputDir   *string
	LogDir      *string
	Formats     *string
	NoLogFile   *bool
	MetricsPort *int

	// Interactive mode
	TUI    *bool
	TickMS *int

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewOptimizerFlags registers the optimizer flags on fs
func NewOptimizerFlags(fs *flag.FlagSet) *OptimizerFlags {
	defaults := optimization.DefaultOptimizationConfig()
	return &OptimizerFlags{
		EnvFile:     fs.String("env", ".env", "Environment file path"),
		CatalogFile: fs.String("catalog", "", "Crop catalog file (.csv or .json); built-in catalog when empty"),

		Population:   fs.Int("population", defaults.PopulationSize, "Population size"),
		MutationRate: fs.Float64("mutation", defaults.MutationRate, "Mutation rate (0-1)"),
		PlotSize:     fs.Float64("plot-size", defaults.TotalPlotArea, "Total plot size in hectares"),
		GrowthTime:   fs.Int("growth-time", defaults.MaxGrowthTime, "Maximum growth time in days"),
		Generations:  fs.Int("generations", defaults.Generations, "Number of generations"),
		Seed:         fs.Int64("seed", 0, "Random seed (0 = time based)"),

		Runs:    fs.Int("runs", 1, "Independent runs with consecutive seeds; the best one is reported"),
		Workers: fs.Int("workers", 0, "Parallel workers for -runs (0 = one per CPU)"),

		OutputDir:   fs.String("output-dir", "results", "Directory for report files"),
		LogDir:      fs.String("log-dir", "logs", "Directory for run log files"),
		Formats:     fs.String("output", "console", "Comma-separated outputs: console,text,csv,json,xlsx,all"),
		NoLogFile:   fs.Bool("no-log-file", false, "Do not write a run log file"),
		MetricsPort: fs.Int("metrics-port", 0, "Serve /metrics and /progress on this port (0 = disabled)"),

		TUI:    fs.Bool("tui", false, "Run in the interactive terminal view"),
		TickMS: fs.Int("tick", 30, "Milliseconds per generation in the terminal view"),

		ShowVersion: fs.Bool("version", false, "Show version information"),
		ShowHelp:    fs.Bool("help", false, "Show help information"),
	}
}

// ApplyOverrides copies every flag the user set explicitly onto cfg, so
// flags win over environment values
func (f *OptimizerFlags) ApplyOverrides(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "catalog":
			cfg.Run.CatalogFile = *f.CatalogFile
		case "population":
			cfg.Optimizer.PopulationSize = *f.Population
		case "mutation":
			cfg.Optimizer.MutationRate = *f.MutationRate
		case "plot-size":
			cfg.Optimizer.TotalPlotArea = *f.PlotSize
		case "growth-time":
			cfg.Optimizer.MaxGrowthTime = *f.GrowthTime
		case "generations":
			cfg.Optimizer.Generations = *f.Generations
		case "seed":
			cfg.Run.Seed = *f.Seed
		case "output-dir":
			cfg.Output.Directory = *f.OutputDir
		case "log-dir":
			cfg.Output.LogDir = *f.LogDir
		case "output":
			cfg.Output.Formats = splitFormats(*f.Formats)
		case "metrics-port":
			cfg.Monitoring.PrometheusPort = *f.MetricsPort
		}
	})
}

// ValidateConfig checks the values that flags and env can get wrong before
// the optimizer sees them
func ValidateConfig(cfg *config.Config, tickMS, runs, workers int) error {
	v := common.NewFlagValidator()
	v.ValidateInt("runs", runs, 1, 1000).
		ValidateInt("workers", workers, 0, 1024).
		ValidateInt("population", cfg.Optimizer.PopulationSize, 1, 1_000_000).
		ValidateFloat("mutation", cfg.Optimizer.MutationRate, 0, 1).
		ValidateInt("generations", cfg.Optimizer.Generations, 1, 1_000_000).
		ValidateInt("growth-time", cfg.Optimizer.MaxGrowthTime, 1, 100_000).
		ValidateInt("metrics-port", cfg.Monitoring.PrometheusPort, 0, 65535).
		ValidateInt("tick", tickMS, 1, 60_000).
		ValidateChoices("output", cfg.Output.Formats, outputFormats).
		ValidateFile("catalog", cfg.Run.CatalogFile, false)

	if plot := cfg.Optimizer.TotalPlotArea; math.IsNaN(plot) || math.IsInf(plot, 0) || plot < 2 {
		v.AddError("plot-size must be a finite number of at least 2 hectares")
	}
	return v.GetError()
}

func splitFormats(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usage() *common.UsageFormatter {
	return common.NewUsageFormatter(AppName, "genetic search for the most profitable two-crop plot split").
		AddExample("crop-optimizer", "Default run on the built-in catalog").
		AddExample("crop-optimizer -generations 300 -population 200 -seed 42", "Larger reproducible run").
		AddExample("crop-optimizer -catalog crops.csv -output console,csv,xlsx", "Custom catalog with file reports").
		AddExample("crop-optimizer -runs 8 -workers 4 -seed 1", "Best of eight independent runs").
		AddExample("crop-optimizer -tui -tick 50", "Watch the search in the terminal").
		AddExample("crop-optimizer -metrics-port 9090", "Expose Prometheus metrics while running")
}
