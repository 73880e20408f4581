package optimization

import (
	"testing"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_PicksFittestAndKeepsFirstOnTies(t *testing.T) {
	cfg := testConfig(10, 3)
	cfg.TournamentSize = 3
	// draws map to indices 0, 1, 2
	opt := newScripted(t, cfg, fourCropCatalog(), 0.0, 0.4, 0.7)

	population := []types.Allocation{
		types.NewAllocation(0, 1, 5, 5),
		types.NewAllocation(1, 2, 4, 6),
		types.NewAllocation(2, 3, 3, 7),
	}
	scores := []float64{1, 5, 5}

	assert.Equal(t, population[1], opt.Select(population, scores))
}

func TestSelect_SingleCandidateTournament(t *testing.T) {
	cfg := testConfig(10, 3)
	cfg.TournamentSize = 1
	opt := newScripted(t, cfg, fourCropCatalog(), 0.99)

	population := []types.Allocation{
		types.NewAllocation(0, 1, 5, 5),
		types.NewAllocation(1, 2, 4, 6),
		types.NewAllocation(2, 3, 3, 7),
	}

	assert.Equal(t, population[2], opt.Select(population, []float64{100, 50, 0}))
}

func TestCrossover_CopiesSplitFromSecondParent(t *testing.T) {
	opt := newScripted(t, testConfig(10, 4), fourCropCatalog(), 0.1)

	parent1 := types.NewAllocation(0, 1, 4, 6)
	parent2 := types.NewAllocation(2, 3, 7, 3)

	child := opt.Crossover(parent1, parent2)
	assert.Equal(t, types.NewAllocation(0, 1, 7, 3), child)
}

func TestCrossover_BlendsSplitAndDrawsSecondCrop(t *testing.T) {
	// branch B, crop1 from parent1, crop2 draw 0.5 -> 2, variation draw 0.9 -> +1
	opt := newScripted(t, testConfig(10, 4), fourCropCatalog(), 0.9, 0.2, 0.5, 0.9)

	parent1 := types.NewAllocation(0, 1, 4, 6)
	parent2 := types.NewAllocation(2, 3, 7, 3)

	child := opt.Crossover(parent1, parent2)
	assert.Equal(t, types.NewAllocation(0, 2, 6, 4), child)
}

func TestCrossover_TakesCrop1FromSecondParent(t *testing.T) {
	// crop2 draw 0.0 -> 0, variation draw 0.5 -> 0
	opt := newScripted(t, testConfig(10, 4), fourCropCatalog(), 0.9, 0.7, 0.0, 0.5)

	parent1 := types.NewAllocation(0, 1, 4, 6)
	parent2 := types.NewAllocation(2, 3, 7, 3)

	child := opt.Crossover(parent1, parent2)
	assert.Equal(t, types.NewAllocation(2, 0, 5, 5), child)
}

func TestCrossover_ClampsSplit(t *testing.T) {
	opt := newScripted(t, testConfig(10, 4), fourCropCatalog(), 0.9, 0.2, 0.5, 0.9)

	child := opt.Crossover(types.NewAllocation(0, 1, 9, 1), types.NewAllocation(2, 3, 9, 1))
	assert.Equal(t, 9.0, child.Crop1Hct)
	assert.Equal(t, 1.0, child.Crop2Hct)

	opt = newScripted(t, testConfig(10, 4), fourCropCatalog(), 0.9, 0.2, 0.5, 0.0)
	child = opt.Crossover(types.NewAllocation(0, 1, 1, 9), types.NewAllocation(2, 3, 1, 9))
	assert.Equal(t, 1.0, child.Crop1Hct)
	assert.Equal(t, 9.0, child.Crop2Hct)
}

func TestCrossover_AlwaysValidFromValidParents(t *testing.T) {
	opt := newSeeded(t, testConfig(20, 10), twoCropCatalog(), 11)

	for i := 0; i < 500; i++ {
		child := opt.Crossover(types.NewAllocation(0, 1, 5, 15), types.NewAllocation(1, 0, 12, 8))
		require.True(t, child.IsValid(), "child %d: %v", i, child)
		assert.GreaterOrEqual(t, child.Crop1Hct, 1.0)
		assert.LessOrEqual(t, child.Crop1Hct, 19.0)
	}
}

func TestMutate_ZeroRateIsPassThrough(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.MutationRate = 0
	opt := newSeeded(t, cfg, fourCropCatalog(), 3)

	original := types.NewAllocation(0, 1, 4, 6)
	for i := 0; i < 200; i++ {
		assert.Equal(t, original, opt.Mutate(original))
	}
}

func TestMutate_ReplacesCrop1WithoutTouchingInput(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.MutationRate = 1
	// fire, kind 0, index draw 0.99 over the 3 crops other than crop2
	opt := newScripted(t, cfg, fourCropCatalog(), 0.0, 0.1, 0.99)

	original := types.NewAllocation(0, 1, 5, 5)
	mutated := opt.Mutate(original)

	assert.Equal(t, types.NewAllocation(3, 1, 5, 5), mutated)
	assert.Equal(t, types.NewAllocation(0, 1, 5, 5), original)
}

func TestMutate_ReplacesCrop2(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.MutationRate = 1
	// kind 1, index draw 0.0 over crops other than crop1 -> 1
	opt := newScripted(t, cfg, fourCropCatalog(), 0.0, 0.5, 0.0)

	mutated := opt.Mutate(types.NewAllocation(0, 2, 5, 5))
	assert.Equal(t, types.NewAllocation(0, 1, 5, 5), mutated)
}

func TestMutate_ShiftsSplit(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.MutationRate = 1
	// kind 2, shift draw 0.0 -> -2
	opt := newScripted(t, cfg, fourCropCatalog(), 0.0, 0.9, 0.0)
	assert.Equal(t, types.NewAllocation(0, 1, 3, 7), opt.Mutate(types.NewAllocation(0, 1, 5, 5)))

	// shift is clamped so each crop keeps a hectare
	opt = newScripted(t, cfg, fourCropCatalog(), 0.0, 0.9, 0.0)
	assert.Equal(t, types.NewAllocation(0, 1, 1, 9), opt.Mutate(types.NewAllocation(0, 1, 2, 8)))

	// draw 0.99 -> +2, clamped at total-1
	opt = newScripted(t, cfg, fourCropCatalog(), 0.0, 0.9, 0.99)
	assert.Equal(t, types.NewAllocation(0, 1, 9, 1), opt.Mutate(types.NewAllocation(0, 1, 8, 2)))
}

func TestMutate_NeverProducesDuplicateCrops(t *testing.T) {
	cfg := testConfig(10, 4)
	cfg.MutationRate = 1
	opt := newSeeded(t, cfg, twoCropCatalog(), 5)

	allocation := types.NewAllocation(0, 1, 5, 5)
	for i := 0; i < 500; i++ {
		allocation = opt.Mutate(allocation)
		require.True(t, allocation.IsValid())
		assert.Equal(t, 10.0, allocation.TotalHct())
	}
}

func TestRandomIndexExcluding(t *testing.T) {
	opt := newSeeded(t, testConfig(10, 4), fourCropCatalog(), 9)

	counts := make(map[int]int)
	for i := 0; i < 2000; i++ {
		idx := opt.randomIndexExcluding(4, 2)
		require.NotEqual(t, 2, idx)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
		counts[idx]++
	}
	assert.Len(t, counts, 3)
}

func TestRun_FractionalPlotKeepsHectareBounds(t *testing.T) {
	cfg := testConfig(10.5, 40)
	cfg.MutationRate = 0.8
	opt := newSeeded(t, cfg, fourCropCatalog(), 21)

	require.NoError(t, opt.Start(30, nil))
	for {
		done, err := opt.Step()
		require.NoError(t, err)
		for _, a := range opt.population {
			require.GreaterOrEqual(t, a.Crop1Hct, 1.0, "%v", a)
			require.LessOrEqual(t, a.Crop1Hct, 9.0, "%v", a)
			require.GreaterOrEqual(t, a.Crop2Hct, 1.0, "%v", a)
			require.LessOrEqual(t, a.Crop2Hct, 9.5, "%v", a)
		}
		if done {
			break
		}
	}
}
