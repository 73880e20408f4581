package reporting

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/optimization"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// JSONReport is the document written by WriteReportJSON
type JSONReport struct {
	RunID       string                          `json:"run_id"`
	StartedAt   time.Time                       `json:"started_at"`
	DurationMS  int64                           `json:"duration_ms"`
	Config      optimization.OptimizationConfig `json:"config"`
	Catalog     types.Catalog                   `json:"catalog"`
	Solutions   []JSONSolution                  `json:"solutions"`
	Stats       []types.GenerationStats         `json:"stats"`
	Generations int                             `json:"generations"`
	Discarded   int                             `json:"discarded"`
}

// JSONSolution is one ranked allocation with resolved crop names
type JSONSolution struct {
	Rank       int              `json:"rank"`
	Crop1      string           `json:"crop1"`
	Crop2      string           `json:"crop2"`
	Allocation types.Allocation `json:"allocation"`
	Fitness    float64          `json:"fitness"`
	Profit     float64          `json:"annual_profit"`
}

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// BuildReport converts a run report into its JSON document
func (f *DefaultJSONFormatter) BuildReport(report *RunReport) JSONReport {
	doc := JSONReport{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt,
		DurationMS: report.Duration.Milliseconds(),
		Config:     report.Config,
		Catalog:    report.Catalog,
		Solutions:  make([]JSONSolution, 0),
		Stats:      make([]types.GenerationStats, 0),
	}
	if report.Result == nil {
		return doc
	}

	for i, solution := range report.Result.Solutions {
		crop1, _ := cropAt(report.Catalog, solution.Crop1Index)
		crop2, _ := cropAt(report.Catalog, solution.Crop2Index)
		doc.Solutions = append(doc.Solutions, JSONSolution{
			Rank:       i + 1,
			Crop1:      crop1.Name,
			Crop2:      crop2.Name,
			Allocation: solution,
			Fitness:    report.Result.FitnessScores[i],
			Profit:     math.Floor(report.Result.FitnessScores[i]),
		})
	}
	doc.Stats = append(doc.Stats, report.Result.Stats...)
	doc.Generations = report.Result.Generations
	doc.Discarded = report.Result.Discarded
	return doc
}

// Format renders the report as indented JSON
func (f *DefaultJSONFormatter) Format(report *RunReport) ([]byte, error) {
	return json.MarshalIndent(f.BuildReport(report), "", "  ")
}

// WriteReportJSON writes the run report to a JSON file
func WriteReportJSON(report *RunReport, path string) error {
	data, err := NewDefaultJSONFormatter().Format(report)
	if err != nil {
		return err
	}
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
