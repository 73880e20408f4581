package optimization

import (
	"testing"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProfitEvaluator_TwoCropScenario checks the worked example: 4500+4000 revenue, 3000 cost
func TestProfitEvaluator_TwoCropScenario(t *testing.T) {
	evaluator := NewProfitEvaluator(twoCropCatalog(), DaysPerYear)

	fitness := evaluator.Evaluate(types.NewAllocation(0, 1, 5, 5))
	assert.Equal(t, 5500.0, fitness)

	first, second, ok := evaluator.Breakdown(types.NewAllocation(0, 1, 5, 5))
	require.True(t, ok)
	assert.Equal(t, 3, first.Harvests)
	assert.Equal(t, 5.0, first.Units)
	assert.Equal(t, 4500.0, first.Revenue)
	assert.Equal(t, 1500.0, first.Cost)
	assert.Equal(t, 2, second.Harvests)
	assert.Equal(t, 4000.0, second.Revenue)
	assert.Equal(t, 1500.0, second.Cost)
	assert.Equal(t, 3000.0, first.Profit())
}

func TestProfitEvaluator_DuplicateCropScoresZero(t *testing.T) {
	evaluator := NewProfitEvaluator(twoCropCatalog(), DaysPerYear)
	assert.Equal(t, 0.0, evaluator.Evaluate(types.NewAllocation(1, 1, 5, 5)))
}

func TestProfitEvaluator_OutOfCatalogScoresZero(t *testing.T) {
	evaluator := NewProfitEvaluator(twoCropCatalog(), DaysPerYear)
	assert.Equal(t, 0.0, evaluator.Evaluate(types.NewAllocation(0, 7, 5, 5)))
	assert.Equal(t, 0.0, evaluator.Evaluate(types.NewAllocation(-1, 0, 5, 5)))
}

func TestProfitEvaluator_LossIsFlooredAtZero(t *testing.T) {
	catalog := types.Catalog{
		{Name: "Loss1", Area: 1, Cost: 500, Profit: 100, Time: 100},
		{Name: "Loss2", Area: 1, Cost: 400, Profit: 100, Time: 100},
	}
	evaluator := NewProfitEvaluator(catalog, DaysPerYear)

	assert.Equal(t, 0.0, evaluator.Evaluate(types.NewAllocation(0, 1, 3, 7)))
}

func TestProfitEvaluator_FractionalUnitsAreFloored(t *testing.T) {
	catalog := types.Catalog{
		{Name: "Half", Area: 0.5, Cost: 0, Profit: 10, Time: 365},
		{Name: "Wide", Area: 3, Cost: 0, Profit: 100, Time: 365},
	}
	evaluator := NewProfitEvaluator(catalog, DaysPerYear)

	// 2.5/0.5 = 5 units of Half, floor(7.5/3) = 2 units of Wide, one harvest each
	assert.Equal(t, 5*10.0+2*100.0, evaluator.Evaluate(types.NewAllocation(0, 1, 2.5, 7.5)))
}

func TestProfitEvaluator_NeverNegativeOnRandomPopulation(t *testing.T) {
	opt := newSeeded(t, testConfig(100, 200), fourCropCatalog(), 7)

	population, err := opt.GeneratePopulation()
	require.NoError(t, err)

	for _, score := range opt.Evaluator().EvaluatePopulation(population) {
		assert.GreaterOrEqual(t, score, 0.0)
	}
}
