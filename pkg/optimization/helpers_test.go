package optimization

import (
	"math/rand"
	"testing"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/stretchr/testify/require"
)

// scriptedRandom replays a fixed sequence of draws, cycling when exhausted
type scriptedRandom struct {
	values []float64
	pos    int
}

func (s *scriptedRandom) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func twoCropCatalog() types.Catalog {
	return types.Catalog{
		{Name: "A", Area: 1, Cost: 100, Profit: 300, Time: 120},
		{Name: "B", Area: 1, Cost: 150, Profit: 400, Time: 150},
	}
}

func fourCropCatalog() types.Catalog {
	return types.Catalog{
		{Name: "A", Area: 1, Cost: 100, Profit: 300, Time: 120},
		{Name: "B", Area: 1, Cost: 150, Profit: 400, Time: 150},
		{Name: "C", Area: 0.5, Cost: 80, Profit: 200, Time: 90},
		{Name: "D", Area: 0.25, Cost: 60, Profit: 150, Time: 60},
	}
}

func testConfig(plot float64, population int) OptimizationConfig {
	cfg := DefaultOptimizationConfig()
	cfg.TotalPlotArea = plot
	cfg.PopulationSize = population
	return cfg
}

func newSeeded(t *testing.T, cfg OptimizationConfig, catalog types.Catalog, seed int64) *Optimizer {
	t.Helper()
	opt, err := NewOptimizer(cfg, catalog, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return opt
}

func newScripted(t *testing.T, cfg OptimizationConfig, catalog types.Catalog, values ...float64) *Optimizer {
	t.Helper()
	opt, err := NewOptimizer(cfg, catalog, &scriptedRandom{values: values})
	require.NoError(t, err)
	return opt
}
