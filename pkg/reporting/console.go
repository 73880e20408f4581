package reporting

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterWithWriter creates a console reporter writing to w
func NewConsoleReporterWithWriter(w io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: w}
}

// OutputResults prints the ranked solutions as a table
func (r *DefaultConsoleReporter) OutputResults(report *RunReport) {
	if report == nil || report.Result == nil {
		fmt.Fprintln(r.out, "⚠️  No results to display")
		return
	}
	days := daysPerYear(report.Config)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("TOP %d CROP COMBINATIONS", len(report.Result.Solutions)))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Crop 1", "Crop 2", "Harvests/yr", "Hectares", "Profit/yr"})

	for i, solution := range report.Result.Solutions {
		crop1, _ := cropAt(report.Catalog, solution.Crop1Index)
		crop2, _ := cropAt(report.Catalog, solution.Crop2Index)
		t.AppendRow(table.Row{
			i + 1,
			crop1.Name,
			crop2.Name,
			fmt.Sprintf("%d / %d", crop1.HarvestsPerYear(days), crop2.HarvestsPerYear(days)),
			fmt.Sprintf("%s / %s", formatHct(solution.Crop1Hct), formatHct(solution.Crop2Hct)),
			humanize.Commaf(math.Floor(report.Result.FitnessScores[i])),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMin: 10, Align: text.AlignLeft},
		{Number: 3, WidthMin: 10, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignCenter},
		{Number: 5, Align: text.AlignCenter},
		{Number: 6, WidthMin: 12, Align: text.AlignRight},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// PrintConfig prints the run parameters and a short summary
func (r *DefaultConsoleReporter) PrintConfig(report *RunReport) {
	if report == nil {
		return
	}
	cfg := report.Config

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("RUN CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🆔 Run ID", report.RunID},
		{"🌱 Crops", len(report.Catalog)},
		{"👥 Population", cfg.PopulationSize},
		{"🧬 Mutation Rate", fmt.Sprintf("%.2f", cfg.MutationRate)},
		{"📐 Plot Size", fmt.Sprintf("%s ha", formatHct(cfg.TotalPlotArea))},
		{"⏳ Max Growth", fmt.Sprintf("%d days", cfg.MaxGrowthTime)},
		{"🔄 Generations", cfg.Generations},
	})

	if res := report.Result; res != nil {
		t.AppendSeparator()
		best := 0.0
		if _, fitness, ok := res.Best(); ok {
			best = fitness
		}
		t.AppendRows([]table.Row{
			{"🏆 Best Profit", humanize.Commaf(math.Floor(best))},
			{"🗑️  Discarded", humanize.Comma(int64(res.Discarded))},
		})
		if report.Duration > 0 {
			t.AppendRow(table.Row{"⏱️  Duration", report.Duration.Round(time.Millisecond).String()})
		}
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}
