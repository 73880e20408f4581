package optimization

import (
	"fmt"
	"math"
	"runtime"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// Optimizer runs the genetic search over one catalog. A run is driven one
// generation at a time through Start, Step and Finish, so a host can
// interleave its own work between generations; Run does this in a loop.
//
// An Optimizer is not safe for concurrent use.
type Optimizer struct {
	config    OptimizationConfig
	catalog   types.Catalog
	rng       RandomSource
	evaluator *ProfitEvaluator
	operator  GeneticOperator

	state       State
	generations int
	generation  int
	observer    Observer

	population      []types.Allocation
	bestEver        types.Allocation
	bestEverFitness float64
	hasBest         bool
	stats           []types.GenerationStats
	discarded       int
	result          *Result
}

// NewOptimizer validates the configuration and catalog and returns an idle
// optimizer. The catalog is treated as read-only for the optimizer's lifetime.
func NewOptimizer(config OptimizationConfig, catalog types.Catalog, rng RandomSource) (*Optimizer, error) {
	config = config.withDefaults()
	if err := config.Validate(catalog); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, perrors.NewConfigurationError(component, "new_optimizer", "random source is required")
	}

	opt := &Optimizer{
		config:    config,
		catalog:   catalog,
		rng:       rng,
		evaluator: NewProfitEvaluator(catalog, config.DaysPerYear),
		state:     StateIdle,
	}
	opt.operator = opt
	return opt, nil
}

// Config returns the effective configuration
func (o *Optimizer) Config() OptimizationConfig {
	return o.config
}

// Catalog returns the catalog the optimizer searches over
func (o *Optimizer) Catalog() types.Catalog {
	return o.catalog
}

// Evaluator returns the fitness evaluator bound to the catalog
func (o *Optimizer) Evaluator() *ProfitEvaluator {
	return o.evaluator
}

// Fitness scores a single allocation
func (o *Optimizer) Fitness(allocation types.Allocation) float64 {
	return o.evaluator.Evaluate(allocation)
}

// State returns the current lifecycle stage
func (o *Optimizer) State() State {
	return o.state
}

// Generation returns the number of completed generations in the current run
func (o *Optimizer) Generation() int {
	return o.generation
}

// Generations returns the generation budget of the current run
func (o *Optimizer) Generations() int {
	return o.generations
}

// Stats returns a copy of the statistics recorded so far in the current run
func (o *Optimizer) Stats() []types.GenerationStats {
	out := make([]types.GenerationStats, len(o.stats))
	copy(out, o.stats)
	return out
}

// BestEver returns the best allocation seen so far and its fitness
func (o *Optimizer) BestEver() (types.Allocation, float64, bool) {
	return o.bestEver, o.bestEverFitness, o.hasBest
}

// Start initializes a run of the given number of generations. Any previous
// run state, including recorded statistics, is discarded.
func (o *Optimizer) Start(generations int, observer Observer) error {
	if generations <= 0 {
		return perrors.NewConfigurationError(component, "start",
			fmt.Sprintf("generations must be positive, got %d", generations))
	}

	o.state = StateInitializing
	o.generations = generations
	o.generation = 0
	o.observer = observer
	o.stats = make([]types.GenerationStats, 0, generations)
	o.bestEver = types.Allocation{}
	o.bestEverFitness = math.Inf(-1)
	o.hasBest = false
	o.discarded = 0
	o.result = nil

	population, err := o.GeneratePopulation()
	if err != nil {
		o.state = StateAborted
		return err
	}
	o.population = population
	o.state = StateRunning
	return nil
}

// Step evolves exactly one generation. It returns done once the generation
// budget is spent, after which Finish produces the result. Errors abort the
// run.
func (o *Optimizer) Step() (bool, error) {
	if o.state != StateRunning {
		return false, perrors.NewPlannerError(perrors.ErrorCategoryFatal, component, "step",
			fmt.Sprintf("optimizer is %s, not RUNNING", o.state))
	}

	scores := o.evaluator.EvaluatePopulation(o.population)
	bestIdx, bestFitness, average := summarize(scores)

	stats := types.GenerationStats{
		Generation:     o.generation,
		BestFitness:    bestFitness,
		AverageFitness: average,
	}
	o.stats = append(o.stats, stats)

	if o.observer != nil {
		if err := o.observer(stats); err != nil {
			o.state = StateAborted
			return false, perrors.NewFatalError(component, "observer", err).
				WithContext("generation", o.generation)
		}
	}

	// Elitism: the best-ever individual only changes on a strict improvement
	if bestFitness > o.bestEverFitness {
		o.bestEver = o.population[bestIdx]
		o.bestEverFitness = bestFitness
		o.hasBest = true
	}

	next, err := o.nextGeneration(scores)
	if err != nil {
		o.state = StateAborted
		return false, err
	}

	o.population = next
	o.generation++

	if o.generation >= o.generations {
		o.state = StateFinalizing
		return true, nil
	}
	return false, nil
}

// nextGeneration seeds the elite and fills the rest with valid offspring
func (o *Optimizer) nextGeneration(scores []float64) ([]types.Allocation, error) {
	next := make([]types.Allocation, 0, o.config.PopulationSize)
	if o.hasBest {
		next = append(next, o.bestEver)
	}

	failures := 0
	for len(next) < o.config.PopulationSize {
		parent1 := o.operator.Select(o.population, scores)
		parent2 := o.operator.Select(o.population, scores)

		child := o.operator.Mutate(o.operator.Crossover(parent1, parent2))
		if err := o.checkAllocation(child, "offspring"); err != nil {
			o.discarded++
			failures++
			if err := o.checkAttempts(failures, "offspring"); err != nil {
				return nil, err
			}
			continue
		}
		next = append(next, child)
	}

	return next, nil
}

// Finish scores the final population and ranks it into the run result
func (o *Optimizer) Finish() (*Result, error) {
	if o.state == StateDone && o.result != nil {
		return o.result, nil
	}
	if o.state != StateFinalizing {
		return nil, perrors.NewPlannerError(perrors.ErrorCategoryFatal, component, "finish",
			fmt.Sprintf("optimizer is %s, not FINALIZING", o.state))
	}

	scores := o.evaluator.EvaluatePopulation(o.population)
	solutions, fitness := RankSolutions(o.population, scores, o.config.TopK)

	o.result = &Result{
		Solutions:     solutions,
		FitnessScores: fitness,
		Stats:         o.Stats(),
		Generations:   o.generations,
		Discarded:     o.discarded,
	}
	o.state = StateDone
	return o.result, nil
}

// Run executes a full run, yielding the processor between generations.
// A non-positive generation count falls back to the configured budget.
func (o *Optimizer) Run(generations int, observer Observer) (*Result, error) {
	if generations <= 0 {
		generations = o.config.Generations
	}
	if err := o.Start(generations, observer); err != nil {
		return nil, err
	}

	for {
		done, err := o.Step()
		if err != nil {
			return nil, err
		}
		runtime.Gosched()
		if done {
			break
		}
	}

	return o.Finish()
}

// summarize returns the index of the first maximum, the maximum and the mean
func summarize(scores []float64) (int, float64, float64) {
	bestIdx := 0
	sum := 0.0
	for i, score := range scores {
		sum += score
		if score > scores[bestIdx] {
			bestIdx = i
		}
	}
	return bestIdx, scores[bestIdx], sum / float64(len(scores))
}
