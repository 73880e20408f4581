package optimization

import (
	"fmt"
	"math"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// GA defaults
const (
	DefaultPopulationSize = 100
	DefaultMutationRate   = 0.2
	DefaultPlotSize       = 100
	DefaultGrowthTime     = 150
	DefaultGenerations    = 150
	DefaultTournamentSize = 5
	DefaultTopK           = 10
	DaysPerYear           = 365

	// Failed attempts tolerated while filling one population before giving up
	DefaultMaxAttempts = 100000
)

const component = "optimizer"

// OptimizationConfig holds the configuration for the genetic algorithm
type OptimizationConfig struct {
	PopulationSize int     `json:"population_size"`
	MutationRate   float64 `json:"mutation_rate"`
	TotalPlotArea  float64 `json:"total_plot_area"`
	MaxGrowthTime  int     `json:"max_growth_time"` // carried for reporting, unused by the search
	Generations    int     `json:"generations"`
	TournamentSize int     `json:"tournament_size"`
	TopK           int     `json:"top_k"`
	DaysPerYear    int     `json:"days_per_year"`
	MaxAttempts    int     `json:"max_attempts"`
}

// DefaultOptimizationConfig returns the default optimization configuration
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		PopulationSize: DefaultPopulationSize,
		MutationRate:   DefaultMutationRate,
		TotalPlotArea:  DefaultPlotSize,
		MaxGrowthTime:  DefaultGrowthTime,
		Generations:    DefaultGenerations,
		TournamentSize: DefaultTournamentSize,
		TopK:           DefaultTopK,
		DaysPerYear:    DaysPerYear,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

// withDefaults fills zero-valued knobs that have a sensible default
func (c OptimizationConfig) withDefaults() OptimizationConfig {
	if c.TournamentSize == 0 {
		c.TournamentSize = DefaultTournamentSize
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.DaysPerYear == 0 {
		c.DaysPerYear = DaysPerYear
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

// Validate checks the configuration against the catalog it will run on.
// Every failure is a configuration error and is raised before the loop starts.
func (c OptimizationConfig) Validate(catalog types.Catalog) error {
	if len(catalog) < 2 {
		return configError("catalog must contain at least 2 crops, got %d", len(catalog))
	}
	for i, crop := range catalog {
		if crop.Area <= 0 {
			return configError("crop %d (%s): area must be positive, got %.4f", i, crop.Name, crop.Area)
		}
		if crop.Time <= 0 {
			return configError("crop %d (%s): growth time must be positive, got %d", i, crop.Name, crop.Time)
		}
		if crop.Cost < 0 || crop.Profit < 0 {
			return configError("crop %d (%s): cost and profit must be non-negative", i, crop.Name)
		}
	}

	if c.PopulationSize <= 0 {
		return configError("population size must be positive, got %d", c.PopulationSize)
	}
	if math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1 {
		return configError("mutation rate must be between 0 and 1, got %.4f", c.MutationRate)
	}
	if math.IsNaN(c.TotalPlotArea) || math.IsInf(c.TotalPlotArea, 0) {
		return configError("total plot area must be a finite number, got %v", c.TotalPlotArea)
	}
	if c.TotalPlotArea < 2 {
		return configError("total plot area must be at least 2 hectares, got %.2f", c.TotalPlotArea)
	}
	if c.TournamentSize <= 0 {
		return configError("tournament size must be positive, got %d", c.TournamentSize)
	}
	if c.TopK <= 0 {
		return configError("top-k must be positive, got %d", c.TopK)
	}
	if c.DaysPerYear <= 0 {
		return configError("days per year must be positive, got %d", c.DaysPerYear)
	}
	if c.MaxAttempts < 0 {
		return configError("max attempts must be non-negative, got %d", c.MaxAttempts)
	}
	return nil
}

func configError(format string, args ...interface{}) error {
	return perrors.NewConfigurationError(component, "validate", fmt.Sprintf(format, args...))
}
