package reporting

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// DefaultTextFormatter renders solutions in the Portuguese listing format
type DefaultTextFormatter struct {
	catalog types.Catalog
	days    int
}

// NewDefaultTextFormatter creates a formatter for the given catalog
func NewDefaultTextFormatter(catalog types.Catalog, daysPerYear int) *DefaultTextFormatter {
	return &DefaultTextFormatter{catalog: catalog, days: daysPerYear}
}

// FormatSolution renders one allocation as a three-line entry
func (f *DefaultTextFormatter) FormatSolution(allocation types.Allocation, fitness float64) string {
	crop1, _ := cropAt(f.catalog, allocation.Crop1Index)
	crop2, _ := cropAt(f.catalog, allocation.Crop2Index)

	return fmt.Sprintf("%s e %s (%d e %d colheitas/ano),\n   %s e %s hectares,\n   %s lucro/ano.\n",
		crop1.Name, crop2.Name,
		crop1.HarvestsPerYear(f.days), crop2.HarvestsPerYear(f.days),
		formatHct(allocation.Crop1Hct), formatHct(allocation.Crop2Hct),
		formatProfit(fitness))
}

// WriteTopSolutions writes the numbered listing of ranked solutions
func (f *DefaultTextFormatter) WriteTopSolutions(w io.Writer, solutions []types.Allocation, scores []float64) error {
	if _, err := fmt.Fprintf(w, "\nTop %d Combinações de Culturas:\n\n", len(solutions)); err != nil {
		return err
	}
	for i, solution := range solutions {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, f.FormatSolution(solution, scores[i])); err != nil {
			return err
		}
	}
	return nil
}

func formatHct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatProfit(v float64) string {
	return strconv.FormatFloat(math.Floor(v), 'f', 0, 64)
}
