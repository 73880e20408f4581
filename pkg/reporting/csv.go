package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct {
	paths *DefaultPathManager
}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{paths: NewDefaultPathManager()}
}

// WriteSolutionsCSV writes the ranked solutions, one row per allocation
func (r *DefaultCSVReporter) WriteSolutionsCSV(report *RunReport, path string) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("no result to write")
	}
	days := daysPerYear(report.Config)

	rows := [][]string{{
		"Rank",
		"Crop_1",
		"Crop_2",
		"Crop_1_Hct",
		"Crop_2_Hct",
		"Crop_1_Harvests",
		"Crop_2_Harvests",
		"Annual_Profit",
	}}
	for i, solution := range report.Result.Solutions {
		crop1, _ := cropAt(report.Catalog, solution.Crop1Index)
		crop2, _ := cropAt(report.Catalog, solution.Crop2Index)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			crop1.Name,
			crop2.Name,
			formatHct(solution.Crop1Hct),
			formatHct(solution.Crop2Hct),
			strconv.Itoa(crop1.HarvestsPerYear(days)),
			strconv.Itoa(crop2.HarvestsPerYear(days)),
			formatProfit(report.Result.FitnessScores[i]),
		})
	}
	return r.writeAll(path, rows)
}

// WriteGenerationsCSV writes the per-generation best and average fitness
func (r *DefaultCSVReporter) WriteGenerationsCSV(report *RunReport, path string) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("no result to write")
	}

	rows := [][]string{{"Generation", "Best_Fitness", "Average_Fitness"}}
	for _, s := range report.Result.Stats {
		rows = append(rows, statsRow(s))
	}
	return r.writeAll(path, rows)
}

func statsRow(s types.GenerationStats) []string {
	return []string{
		strconv.Itoa(s.Generation),
		strconv.FormatFloat(s.BestFitness, 'f', 2, 64),
		strconv.FormatFloat(s.AverageFitness, 'f', 2, 64),
	}
}

func (r *DefaultCSVReporter) writeAll(path string, rows [][]string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}
