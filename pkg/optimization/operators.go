package optimization

import (
	"math"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// Mutation kinds, picked uniformly when a mutation fires
const (
	mutateCrop1 = iota
	mutateCrop2
	mutateSplit
	mutationKinds
)

// Select chooses an individual using tournament selection. Candidates are
// drawn with replacement and ties keep the first one drawn.
func (o *Optimizer) Select(population []types.Allocation, scores []float64) types.Allocation {
	best := o.randomIndex(len(population))

	for i := 1; i < o.config.TournamentSize; i++ {
		candidate := o.randomIndex(len(population))
		if scores[candidate] > scores[best] {
			best = candidate
		}
	}

	return population[best]
}

// Crossover creates a child from two parents.
//
// Half of the time the child keeps parent1's crops and copies parent2's
// hectares verbatim. Otherwise it takes crop1 from either parent, a random
// second crop from the whole catalog, and a split near the parents' average.
func (o *Optimizer) Crossover(parent1, parent2 types.Allocation) types.Allocation {
	if o.rng.Float64() < 0.5 {
		return types.NewAllocation(parent1.Crop1Index, parent1.Crop2Index, parent2.Crop1Hct, parent2.Crop2Hct)
	}

	crop1 := parent1.Crop1Index
	if o.rng.Float64() >= 0.5 {
		crop1 = parent2.Crop1Index
	}
	crop2 := o.randomIndexExcluding(len(o.catalog), crop1)

	base := math.Floor((parent1.Crop1Hct + parent2.Crop1Hct) / 2)
	variation := float64(o.randomIndex(3) - 1)
	crop1Hct := o.clampHct(base + variation)

	return types.NewAllocation(crop1, crop2, crop1Hct, o.config.TotalPlotArea-crop1Hct)
}

// Mutate returns a copy of the allocation with at most one change applied:
// a new crop1, a new crop2, or a small shift of the hectare split. The
// argument is never modified.
func (o *Optimizer) Mutate(allocation types.Allocation) types.Allocation {
	if o.rng.Float64() >= o.config.MutationRate {
		return allocation
	}

	mutated := allocation
	switch o.randomIndex(mutationKinds) {
	case mutateCrop1:
		mutated.Crop1Index = o.randomIndexExcluding(len(o.catalog), allocation.Crop2Index)
	case mutateCrop2:
		mutated.Crop2Index = o.randomIndexExcluding(len(o.catalog), allocation.Crop1Index)
	default:
		shift := float64(o.randomIndex(5) - 2)
		mutated.Crop1Hct = o.clampHct(allocation.Crop1Hct + shift)
		mutated.Crop2Hct = o.config.TotalPlotArea - mutated.Crop1Hct
	}

	return mutated
}

// randomIndex draws uniformly from [0, n)
func (o *Optimizer) randomIndex(n int) int {
	idx := int(math.Floor(o.rng.Float64() * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// randomIndexExcluding draws uniformly from [0, n) without the excluded index
func (o *Optimizer) randomIndexExcluding(n, exclude int) int {
	if exclude < 0 || exclude >= n {
		return o.randomIndex(n)
	}
	idx := o.randomIndex(n - 1)
	if idx >= exclude {
		idx++
	}
	return idx
}

// maxHct is the largest whole number of hectares crop1 may take while
// leaving at least one hectare to crop2
func (o *Optimizer) maxHct() float64 {
	return math.Floor(o.config.TotalPlotArea - 1)
}

// clampHct keeps at least one hectare for each crop
func (o *Optimizer) clampHct(hct float64) float64 {
	return math.Max(1, math.Min(o.maxHct(), hct))
}
