package reporting

import (
	"io"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// Package reporting renders optimizer results for people and files

// RunReport bundles everything a reporter needs to describe one run
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Catalog   types.Catalog
	Config    optimization.OptimizationConfig
	Result    *optimization.Result
}

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResults(report *RunReport)
	PrintConfig(report *RunReport)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteSolutionsCSV(report *RunReport, path string) error
	WriteGenerationsCSV(report *RunReport, path string) error
	WriteSolutionsXLSX(report *RunReport, path string) error
	WriteReportJSON(report *RunReport, path string) error
	WriteText(report *RunReport, path string) error
}

// TextFormatter renders the plain-text solution listing
type TextFormatter interface {
	FormatSolution(allocation types.Allocation, fitness float64) string
	WriteTopSolutions(w io.Writer, solutions []types.Allocation, scores []float64) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(baseDir, runID string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	NumberStyle  int
	DecimalStyle int
	BaseStyle    int
	BestRowStyle int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
	TextEnabled     bool
}

// ReportingConfigFromFormats enables the writers named in formats. Known
// names are console, text, csv, json and xlsx; "all" turns every writer on.
func ReportingConfigFromFormats(outputDir string, formats []string) ReportingConfig {
	cfg := ReportingConfig{OutputDirectory: outputDir}
	for _, f := range formats {
		switch f {
		case "console":
			cfg.EnableConsole = true
		case "text", "txt":
			cfg.TextEnabled = true
		case "csv":
			cfg.CSVEnabled = true
		case "json":
			cfg.JSONEnabled = true
		case "xlsx", "excel":
			cfg.ExcelEnabled = true
		case "all":
			cfg.EnableConsole = true
			cfg.TextEnabled = true
			cfg.CSVEnabled = true
			cfg.JSONEnabled = true
			cfg.ExcelEnabled = true
		}
	}
	cfg.EnableFiles = cfg.TextEnabled || cfg.CSVEnabled || cfg.JSONEnabled || cfg.ExcelEnabled
	return cfg
}

func daysPerYear(cfg optimization.OptimizationConfig) int {
	if cfg.DaysPerYear > 0 {
		return cfg.DaysPerYear
	}
	return optimization.DaysPerYear
}

func cropAt(catalog types.Catalog, index int) (types.Crop, bool) {
	if index < 0 || index >= len(catalog) {
		return types.Crop{Name: "?"}, false
	}
	return catalog[index], true
}
