package optimization

import (
	"math"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// CropYield is the yearly projection for one side of an allocation
type CropYield struct {
	Index    int
	Harvests int
	Units    float64
	Revenue  float64
	Cost     float64
}

// Profit returns revenue minus cost
func (y CropYield) Profit() float64 {
	return y.Revenue - y.Cost
}

// ProfitEvaluator computes projected annual profit for allocations
type ProfitEvaluator struct {
	catalog     types.Catalog
	daysPerYear int
}

// NewProfitEvaluator creates an evaluator over a read-only catalog
func NewProfitEvaluator(catalog types.Catalog, daysPerYear int) *ProfitEvaluator {
	return &ProfitEvaluator{
		catalog:     catalog,
		daysPerYear: daysPerYear,
	}
}

// Evaluate returns the annual profit of the allocation, floored at zero.
// Invalid allocations score exactly zero.
func (e *ProfitEvaluator) Evaluate(allocation types.Allocation) float64 {
	first, second, ok := e.Breakdown(allocation)
	if !ok {
		return 0
	}

	total := (first.Revenue + second.Revenue) - (first.Cost + second.Cost)
	return math.Max(0, total)
}

// EvaluatePopulation scores every allocation, keeping population order
func (e *ProfitEvaluator) EvaluatePopulation(population []types.Allocation) []float64 {
	scores := make([]float64, len(population))
	for i, allocation := range population {
		scores[i] = e.Evaluate(allocation)
	}
	return scores
}

// Breakdown returns the per-crop projection. ok is false when the
// allocation is invalid or references a crop outside the catalog.
func (e *ProfitEvaluator) Breakdown(allocation types.Allocation) (first, second CropYield, ok bool) {
	if !allocation.IsValid() || !e.inCatalog(allocation.Crop1Index) || !e.inCatalog(allocation.Crop2Index) {
		return CropYield{}, CropYield{}, false
	}

	first = e.yield(allocation.Crop1Index, allocation.Crop1Hct)
	second = e.yield(allocation.Crop2Index, allocation.Crop2Hct)
	return first, second, true
}

func (e *ProfitEvaluator) yield(index int, hectares float64) CropYield {
	crop := e.catalog[index]
	harvests := crop.HarvestsPerYear(e.daysPerYear)
	units := math.Floor(hectares / crop.Area)

	return CropYield{
		Index:    index,
		Harvests: harvests,
		Units:    units,
		Revenue:  units * crop.Profit * float64(harvests),
		Cost:     units * crop.Cost * float64(harvests),
	}
}

func (e *ProfitEvaluator) inCatalog(index int) bool {
	return index >= 0 && index < len(e.catalog)
}
