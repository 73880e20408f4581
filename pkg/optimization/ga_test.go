package optimization

import (
	"errors"
	"math/rand"
	"testing"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptimizer_ConfigurationErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		mutate  func(*OptimizationConfig)
		catalog types.Catalog
	}{
		{"single crop catalog", func(*OptimizationConfig) {}, twoCropCatalog()[:1]},
		{"empty catalog", func(*OptimizationConfig) {}, types.Catalog{}},
		{"zero population", func(c *OptimizationConfig) { c.PopulationSize = 0 }, twoCropCatalog()},
		{"negative population", func(c *OptimizationConfig) { c.PopulationSize = -3 }, twoCropCatalog()},
		{"plot too small", func(c *OptimizationConfig) { c.TotalPlotArea = 1.5 }, twoCropCatalog()},
		{"mutation rate above one", func(c *OptimizationConfig) { c.MutationRate = 1.5 }, twoCropCatalog()},
		{"negative mutation rate", func(c *OptimizationConfig) { c.MutationRate = -0.1 }, twoCropCatalog()},
		{"negative tournament", func(c *OptimizationConfig) { c.TournamentSize = -1 }, twoCropCatalog()},
		{"zero crop area", func(*OptimizationConfig) {}, types.Catalog{{Name: "A", Area: 0, Time: 10}, {Name: "B", Area: 1, Time: 10}}},
		{"zero growth time", func(*OptimizationConfig) {}, types.Catalog{{Name: "A", Area: 1, Time: 0}, {Name: "B", Area: 1, Time: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultOptimizationConfig()
			tt.mutate(&cfg)

			opt, err := NewOptimizer(cfg, tt.catalog, rng)
			assert.Nil(t, opt)
			require.Error(t, err)
			assert.True(t, perrors.IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestNewOptimizer_RequiresRandomSource(t *testing.T) {
	_, err := NewOptimizer(DefaultOptimizationConfig(), twoCropCatalog(), nil)
	assert.True(t, perrors.IsConfigurationError(err))
}

func TestNewOptimizer_FillsDefaults(t *testing.T) {
	cfg := OptimizationConfig{PopulationSize: 10, MutationRate: 0.2, TotalPlotArea: 10, Generations: 5}
	opt, err := NewOptimizer(cfg, twoCropCatalog(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, DefaultTournamentSize, opt.Config().TournamentSize)
	assert.Equal(t, DefaultTopK, opt.Config().TopK)
	assert.Equal(t, DaysPerYear, opt.Config().DaysPerYear)
	assert.Equal(t, DefaultMaxAttempts, opt.Config().MaxAttempts)
	assert.Equal(t, StateIdle, opt.State())
}

func TestRun_StatsInvariants(t *testing.T) {
	opt := newSeeded(t, testConfig(100, 60), fourCropCatalog(), 2024)

	var observed []types.GenerationStats
	result, err := opt.Run(40, func(stats types.GenerationStats) error {
		observed = append(observed, stats)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, result.Stats, 40)
	assert.Equal(t, observed, result.Stats)
	assert.Equal(t, 40, result.Generations)
	assert.Equal(t, StateDone, opt.State())

	for i, stats := range result.Stats {
		assert.Equal(t, i, stats.Generation)
		assert.GreaterOrEqual(t, stats.BestFitness, stats.AverageFitness)
		if i > 0 {
			// the elite is re-scored every generation, so the best never drops
			assert.GreaterOrEqual(t, stats.BestFitness, result.Stats[i-1].BestFitness)
		}
	}
}

func TestRun_BestEverIsMonotonic(t *testing.T) {
	opt := newSeeded(t, testConfig(50, 30), fourCropCatalog(), 99)
	require.NoError(t, opt.Start(25, nil))

	previous := -1.0
	for {
		done, err := opt.Step()
		require.NoError(t, err)

		_, best, ok := opt.BestEver()
		require.True(t, ok)
		assert.GreaterOrEqual(t, best, previous)
		previous = best

		if done {
			break
		}
	}

	result, err := opt.Finish()
	require.NoError(t, err)
	_, top, ok := result.Best()
	require.True(t, ok)
	assert.GreaterOrEqual(t, top, previous, "the elite survives into the final ranking")
}

func TestRun_ResultRanking(t *testing.T) {
	opt := newSeeded(t, testConfig(100, 100), fourCropCatalog(), 5)

	result, err := opt.Run(30, nil)
	require.NoError(t, err)

	require.NotEmpty(t, result.Solutions)
	assert.LessOrEqual(t, len(result.Solutions), 10)
	assert.Len(t, result.FitnessScores, len(result.Solutions))

	keys := make(map[string]bool)
	for i, s := range result.Solutions {
		assert.True(t, s.IsValid())
		assert.False(t, keys[s.NormalizedKey()])
		keys[s.NormalizedKey()] = true
		assert.Equal(t, opt.Fitness(s), result.FitnessScores[i])
		if i > 0 {
			assert.GreaterOrEqual(t, result.FitnessScores[i-1], result.FitnessScores[i])
		}
	}
}

func TestRun_SingleIndividualTwoCrops(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 1), twoCropCatalog(), 1)

	result, err := opt.Run(1, nil)
	require.NoError(t, err)
	require.Len(t, result.Solutions, 1)
	assert.Len(t, result.Stats, 1)
}

func TestRun_ZeroMutationKeepsGenesFromInitialPool(t *testing.T) {
	cfg := testConfig(10, 1)
	cfg.MutationRate = 0
	opt := newSeeded(t, cfg, twoCropCatalog(), 8)

	require.NoError(t, opt.Start(20, nil))
	initial := opt.population[0]
	for {
		done, err := opt.Step()
		require.NoError(t, err)
		// a population of one is just the elite, carried forward unchanged
		require.Equal(t, initial, opt.population[0])
		if done {
			break
		}
	}
}

func TestRun_IsReproducibleWithSeed(t *testing.T) {
	first, err := newSeeded(t, testConfig(100, 40), fourCropCatalog(), 77).Run(20, nil)
	require.NoError(t, err)
	second, err := newSeeded(t, testConfig(100, 40), fourCropCatalog(), 77).Run(20, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_ObserverErrorIsFatal(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 10), twoCropCatalog(), 3)
	boom := errors.New("display closed")

	calls := 0
	result, err := opt.Run(10, func(types.GenerationStats) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, perrors.IsFatalError(err))
	assert.Equal(t, StateAborted, opt.State())
	assert.Equal(t, 3, calls)
}

func TestRun_DefaultGenerations(t *testing.T) {
	cfg := testConfig(10, 5)
	cfg.Generations = 7
	opt := newSeeded(t, cfg, twoCropCatalog(), 3)

	result, err := opt.Run(0, nil)
	require.NoError(t, err)
	assert.Len(t, result.Stats, 7)
}

func TestStart_RejectsNonPositiveGenerations(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 5), twoCropCatalog(), 3)
	err := opt.Start(0, nil)
	assert.True(t, perrors.IsConfigurationError(err))
}

func TestStep_RequiresRunningState(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 5), twoCropCatalog(), 3)

	_, err := opt.Step()
	assert.Error(t, err)

	_, err = opt.Finish()
	assert.Error(t, err)
}

func TestStart_ResetsPreviousRun(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 5), twoCropCatalog(), 3)

	_, err := opt.Run(5, nil)
	require.NoError(t, err)
	require.Len(t, opt.Stats(), 5)

	require.NoError(t, opt.Start(3, nil))
	assert.Empty(t, opt.Stats())
	assert.Equal(t, 0, opt.Generation())
	assert.Equal(t, 3, opt.Generations())
	assert.Equal(t, StateRunning, opt.State())
}

func TestFinish_IsIdempotent(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 5), twoCropCatalog(), 3)

	result, err := opt.Run(2, nil)
	require.NoError(t, err)

	again, err := opt.Finish()
	require.NoError(t, err)
	assert.Same(t, result, again)
}

func TestMultiObserver(t *testing.T) {
	var order []string
	boom := errors.New("stop")

	obs := MultiObserver(
		func(types.GenerationStats) error { order = append(order, "a"); return nil },
		nil,
		func(types.GenerationStats) error { order = append(order, "b"); return boom },
		func(types.GenerationStats) error { order = append(order, "c"); return nil },
	)

	err := obs(types.GenerationStats{})
	assert.Equal(t, boom, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "FINALIZING", StateFinalizing.String())
	assert.Equal(t, "UNKNOWN", State(42).String())
}

// recordingOperator delegates to the optimizer and remembers what each
// operator produced
type recordingOperator struct {
	inner    *Optimizer
	children []types.Allocation
	mutated  int
}

func (r *recordingOperator) Select(population []types.Allocation, scores []float64) types.Allocation {
	return r.inner.Select(population, scores)
}

func (r *recordingOperator) Crossover(parent1, parent2 types.Allocation) types.Allocation {
	child := r.inner.Crossover(parent1, parent2)
	r.children = append(r.children, child)
	return child
}

func (r *recordingOperator) Mutate(allocation types.Allocation) types.Allocation {
	out := r.inner.Mutate(allocation)
	r.mutated++
	return out
}

func TestRun_ZeroMutationPassesCrossoverChildrenThrough(t *testing.T) {
	cfg := testConfig(20, 30)
	cfg.MutationRate = 0
	opt := newSeeded(t, cfg, fourCropCatalog(), 8)

	rec := &recordingOperator{inner: opt}
	opt.operator = rec

	require.NoError(t, opt.Start(10, nil))
	for {
		before := len(rec.children)
		done, err := opt.Step()
		require.NoError(t, err)

		// the elite leads, every other slot is an unmodified crossover child
		bred := rec.children[before:]
		require.NotEmpty(t, bred)
		var kept []types.Allocation
		for _, child := range bred {
			if child.IsValid() {
				kept = append(kept, child)
			}
		}
		assert.Equal(t, kept, opt.population[1:])

		if done {
			break
		}
	}
	assert.Equal(t, len(rec.children), rec.mutated)
}
