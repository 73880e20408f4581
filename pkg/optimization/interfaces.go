package optimization

import (
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// Package optimization provides the genetic algorithm that searches for
// profitable two-crop splits of a plot.

// RandomSource is the only source of randomness used by the generators and
// operators. *rand.Rand satisfies it, so a seeded generator makes a run
// reproducible.
type RandomSource interface {
	Float64() float64
}

// Observer is invoked synchronously once per generation with that
// generation's statistics. A non-nil error aborts the run.
type Observer func(stats types.GenerationStats) error

// MultiObserver fans a snapshot out to every non-nil observer in order,
// stopping at the first error.
func MultiObserver(observers ...Observer) Observer {
	return func(stats types.GenerationStats) error {
		for _, obs := range observers {
			if obs == nil {
				continue
			}
			if err := obs(stats); err != nil {
				return err
			}
		}
		return nil
	}
}

// FitnessEvaluator scores allocations
type FitnessEvaluator interface {
	Evaluate(allocation types.Allocation) float64
	EvaluatePopulation(population []types.Allocation) []float64
}

// GeneticOperator defines the operations used to breed a new generation
type GeneticOperator interface {
	Select(population []types.Allocation, scores []float64) types.Allocation
	Crossover(parent1, parent2 types.Allocation) types.Allocation
	Mutate(allocation types.Allocation) types.Allocation
}

var (
	_ FitnessEvaluator = (*ProfitEvaluator)(nil)
	_ GeneticOperator  = (*Optimizer)(nil)
)

// State is the lifecycle stage of an optimizer run
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateFinalizing
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateInitializing:
		return "INITIALIZING"
	case StateRunning:
		return "RUNNING"
	case StateFinalizing:
		return "FINALIZING"
	case StateDone:
		return "DONE"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of a completed run. Solutions and FitnessScores are
// parallel slices ordered best-first.
type Result struct {
	Solutions     []types.Allocation      `json:"solutions"`
	FitnessScores []float64               `json:"fitnessScores"`
	Stats         []types.GenerationStats `json:"stats"`
	Generations   int                     `json:"generations"`
	Discarded     int                     `json:"discarded"`
}

// Best returns the top solution and its fitness
func (r *Result) Best() (types.Allocation, float64, bool) {
	if r == nil || len(r.Solutions) == 0 {
		return types.Allocation{}, 0, false
	}
	return r.Solutions[0], r.FitnessScores[0], true
}
