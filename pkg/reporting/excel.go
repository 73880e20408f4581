package reporting

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

const (
	solutionsSheet   = "Solutions"
	generationsSheet = "Generations"
	summarySheet     = "Summary"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct {
	paths *DefaultPathManager
}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{paths: NewDefaultPathManager()}
}

// WriteSolutionsXLSX writes a workbook with the ranked solutions, the
// per-generation statistics and a run summary
func (r *DefaultExcelReporter) WriteSolutionsXLSX(report *RunReport, path string) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("no result to write")
	}
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), solutionsSheet)
	if _, err := fx.NewSheet(generationsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSolutionsSheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeGenerationsSheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - dark green background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E5E3E"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Thousands separator, no decimals
	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    3,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	// Thousands separator, two decimals
	styles.DecimalStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.BestRowStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "1B5E20"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E8F5E9"}, Pattern: 1},
		Border: border,
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeHeader(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (r *DefaultExcelReporter) writeSolutionsSheet(fx *excelize.File, report *RunReport, styles ExcelStyles) error {
	sheet := solutionsSheet
	days := daysPerYear(report.Config)

	r.writeHeader(fx, sheet, []string{
		"Rank", "Crop 1", "Crop 2", "Crop 1 (ha)", "Crop 2 (ha)",
		"Harvests 1", "Harvests 2", "Annual Profit",
	}, styles)

	fx.SetColWidth(sheet, "A", "A", 8)
	fx.SetColWidth(sheet, "B", "C", 16)
	fx.SetColWidth(sheet, "D", "G", 12)
	fx.SetColWidth(sheet, "H", "H", 16)

	for i, solution := range report.Result.Solutions {
		row := i + 2
		crop1, _ := cropAt(report.Catalog, solution.Crop1Index)
		crop2, _ := cropAt(report.Catalog, solution.Crop2Index)

		values := []interface{}{
			i + 1,
			crop1.Name,
			crop2.Name,
			solution.Crop1Hct,
			solution.Crop2Hct,
			crop1.HarvestsPerYear(days),
			crop2.HarvestsPerYear(days),
			math.Floor(report.Result.FitnessScores[i]),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := fx.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}

		end, _ := excelize.CoordinatesToCellName(len(values), row)
		if i == 0 {
			fx.SetCellStyle(sheet, start, end, styles.BestRowStyle)
			continue
		}
		fx.SetCellStyle(sheet, start, end, styles.BaseStyle)
		fx.SetCellStyle(sheet, end, end, styles.NumberStyle)
	}
	return nil
}

func (r *DefaultExcelReporter) writeGenerationsSheet(fx *excelize.File, report *RunReport, styles ExcelStyles) error {
	sheet := generationsSheet
	r.writeHeader(fx, sheet, []string{"Generation", "Best Fitness", "Average Fitness"}, styles)
	fx.SetColWidth(sheet, "A", "A", 12)
	fx.SetColWidth(sheet, "B", "C", 18)

	for i, s := range report.Result.Stats {
		row := i + 2
		values := []interface{}{s.Generation, s.BestFitness, s.AverageFitness}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := fx.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		b, _ := excelize.CoordinatesToCellName(2, row)
		c, _ := excelize.CoordinatesToCellName(3, row)
		fx.SetCellStyle(sheet, b, c, styles.DecimalStyle)
	}
	return nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, report *RunReport, styles ExcelStyles) error {
	sheet := summarySheet
	r.writeHeader(fx, sheet, []string{"Parameter", "Value"}, styles)
	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "B", "B", 40)

	cfg := report.Config
	best := 0.0
	if _, fitness, ok := report.Result.Best(); ok {
		best = math.Floor(fitness)
	}

	rows := [][]interface{}{
		{"Run ID", report.RunID},
		{"Crops", len(report.Catalog)},
		{"Population", cfg.PopulationSize},
		{"Mutation Rate", cfg.MutationRate},
		{"Plot Size (ha)", cfg.TotalPlotArea},
		{"Max Growth (days)", cfg.MaxGrowthTime},
		{"Generations", report.Result.Generations},
		{"Discarded Offspring", report.Result.Discarded},
		{"Best Profit", best},
	}
	if !report.StartedAt.IsZero() {
		rows = append(rows, []interface{}{"Started At", report.StartedAt.Format("2006-01-02 15:04:05")})
	}

	for i, values := range rows {
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		end, _ := excelize.CoordinatesToCellName(2, i+2)
		fx.SetCellStyle(sheet, start, end, styles.BaseStyle)
	}
	return nil
}
