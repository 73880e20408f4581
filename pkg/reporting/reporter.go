package reporting

import (
	"os"
	"path/filepath"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return NewReporterWithConsole(NewDefaultConsoleReporter())
}

// NewReporterWithConsole creates a reporter whose console output goes through console
func NewReporterWithConsole(console *DefaultConsoleReporter) *DefaultReporter {
	return &DefaultReporter{
		console: console,
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) OutputResults(report *RunReport) {
	r.console.OutputResults(report)
}

func (r *DefaultReporter) PrintConfig(report *RunReport) {
	r.console.PrintConfig(report)
}

// File output methods
func (r *DefaultReporter) WriteSolutionsCSV(report *RunReport, path string) error {
	return r.csv.WriteSolutionsCSV(report, path)
}

func (r *DefaultReporter) WriteGenerationsCSV(report *RunReport, path string) error {
	return r.csv.WriteGenerationsCSV(report, path)
}

func (r *DefaultReporter) WriteSolutionsXLSX(report *RunReport, path string) error {
	return r.excel.WriteSolutionsXLSX(report, path)
}

func (r *DefaultReporter) WriteReportJSON(report *RunReport, path string) error {
	return WriteReportJSON(report, path)
}

func (r *DefaultReporter) WriteText(report *RunReport, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	formatter := NewDefaultTextFormatter(report.Catalog, daysPerYear(report.Config))
	return formatter.WriteTopSolutions(f, report.Result.Solutions, report.Result.FitnessScores)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(baseDir, runID string) string {
	return r.paths.GetDefaultOutputDir(baseDir, runID)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter Reporter
	config   ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	return &ReportingManager{
		reporter: NewDefaultReporter(),
		config:   config,
	}
}

// NewReportingManagerWithReporter creates a reporting manager around an existing reporter
func NewReportingManagerWithReporter(config ReportingConfig, reporter Reporter) *ReportingManager {
	return &ReportingManager{reporter: reporter, config: config}
}

// ReportResults outputs results according to configuration and returns the
// paths of the files it wrote
func (m *ReportingManager) ReportResults(report *RunReport) ([]string, error) {
	if report == nil || report.Result == nil {
		return nil, perrors.NewConfigurationError("reporting", "report", "run report has no result")
	}

	// Console output
	if m.config.EnableConsole {
		m.reporter.PrintConfig(report)
		m.reporter.OutputResults(report)
	}

	if !m.config.EnableFiles {
		return nil, nil
	}

	outputDir := m.reporter.GetDefaultOutputDir(m.config.OutputDirectory, report.RunID)

	type output struct {
		enabled bool
		name    string
		write   func(*RunReport, string) error
	}
	outputs := []output{
		{m.config.TextEnabled, "top_solutions.txt", m.reporter.WriteText},
		{m.config.CSVEnabled, "solutions.csv", m.reporter.WriteSolutionsCSV},
		{m.config.CSVEnabled, "generations.csv", m.reporter.WriteGenerationsCSV},
		{m.config.JSONEnabled, "report.json", m.reporter.WriteReportJSON},
		{m.config.ExcelEnabled, "report.xlsx", m.reporter.WriteSolutionsXLSX},
	}

	var written []string
	for _, out := range outputs {
		if !out.enabled {
			continue
		}
		path := filepath.Join(outputDir, out.name)
		if err := out.write(report, path); err != nil {
			return written, perrors.NewIOError("reporting", "write", err).WithContext("path", path)
		}
		written = append(written, path)
	}
	return written, nil
}
