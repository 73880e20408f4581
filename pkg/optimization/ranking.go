package optimization

import (
	"sort"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// RankSolutions sorts a scored population best-first and returns at most
// topK allocations with distinct normalized keys, along with their fitness.
// Equal scores keep population order and the first allocation seen for a
// key wins.
func RankSolutions(population []types.Allocation, scores []float64, topK int) ([]types.Allocation, []float64) {
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	solutions := make([]types.Allocation, 0, topK)
	fitness := make([]float64, 0, topK)
	seen := make(map[string]bool, len(population))

	for _, idx := range order {
		if len(solutions) >= topK {
			break
		}
		key := population[idx].NormalizedKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		solutions = append(solutions, population[idx])
		fitness = append(fitness, scores[idx])
	}

	return solutions, fitness
}
