package optimization

import (
	"fmt"
	"math"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// GeneratePopulation creates exactly PopulationSize valid random allocations
func (o *Optimizer) GeneratePopulation() ([]types.Allocation, error) {
	population := make([]types.Allocation, 0, o.config.PopulationSize)
	failures := 0

	minHct := 1.0
	maxHct := o.maxHct()

	for len(population) < o.config.PopulationSize {
		crop1, crop2, err := o.generateValidPair()
		if err != nil {
			return nil, err
		}

		crop1Hct := math.Floor(o.rng.Float64()*(maxHct-minHct+1)) + minHct
		crop2Hct := o.config.TotalPlotArea - crop1Hct

		allocation := types.NewAllocation(crop1, crop2, crop1Hct, crop2Hct)
		if err := o.checkAllocation(allocation, "generate_population"); err != nil {
			failures++
			if err := o.checkAttempts(failures, "generate_population"); err != nil {
				return nil, err
			}
			continue
		}
		population = append(population, allocation)
	}

	return population, nil
}

// generateValidPair draws two distinct crop indices, redrawing the second
// until it differs from the first
func (o *Optimizer) generateValidPair() (int, int, error) {
	n := len(o.catalog)
	crop1 := o.randomIndex(n)

	for attempts := 1; ; attempts++ {
		crop2 := o.randomIndex(n)
		if crop2 != crop1 {
			return crop1, crop2, nil
		}
		if err := o.checkAttempts(attempts, "generate_pair"); err != nil {
			return 0, 0, err
		}
	}
}

// checkAllocation returns an invalid-allocation error for individuals that
// must be rejected. These errors stay inside the rejection loops.
func (o *Optimizer) checkAllocation(allocation types.Allocation, operation string) error {
	if allocation.IsValid() {
		return nil
	}
	return perrors.NewInvalidAllocationError(component, operation, "both slots hold the same crop").
		WithContext("crop", allocation.Crop1Index)
}

// checkAttempts enforces the retry ceiling for rejection loops
func (o *Optimizer) checkAttempts(failures int, operation string) error {
	if failures < o.config.MaxAttempts {
		return nil
	}
	return perrors.NewConfigurationError(component, operation,
		fmt.Sprintf("no valid allocation after %d attempts", failures)).
		WithContext("catalog_size", len(o.catalog)).
		WithContext("population_size", o.config.PopulationSize)
}
