package types

import (
	"fmt"
	"strconv"
)

// Crop describes one catalog entry. A crop is identified by its position
// in the Catalog, not by its name.
type Crop struct {
	Name   string  `json:"name"`
	Area   float64 `json:"area"`   // hectares per planted unit
	Cost   float64 `json:"cost"`   // cost per unit per harvest
	Profit float64 `json:"profit"` // revenue per unit per harvest
	Time   int     `json:"time"`   // days to harvest
}

// HarvestsPerYear returns how many full harvests fit in the given number of days.
func (c Crop) HarvestsPerYear(daysPerYear int) int {
	if c.Time <= 0 {
		return 0
	}
	return daysPerYear / c.Time
}

// Catalog is the ordered, read-only list of crops a run chooses from.
type Catalog []Crop

// Len returns the number of crops in the catalog
func (c Catalog) Len() int {
	return len(c)
}

// Names returns the crop names in catalog order
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, crop := range c {
		names[i] = crop.Name
	}
	return names
}

// Allocation is a candidate split of the plot between two crops.
type Allocation struct {
	Crop1Index int     `json:"crop1_index"`
	Crop2Index int     `json:"crop2_index"`
	Crop1Hct   float64 `json:"crop1_hct"`
	Crop2Hct   float64 `json:"crop2_hct"`
}

// NewAllocation builds an allocation from two crop indices and their hectares
func NewAllocation(crop1, crop2 int, crop1Hct, crop2Hct float64) Allocation {
	return Allocation{
		Crop1Index: crop1,
		Crop2Index: crop2,
		Crop1Hct:   crop1Hct,
		Crop2Hct:   crop2Hct,
	}
}

// IsValid reports whether the allocation references two distinct crops.
func (a Allocation) IsValid() bool {
	return a.Crop1Index != a.Crop2Index
}

// TotalHct returns the hectares covered by both crops
func (a Allocation) TotalHct() float64 {
	return a.Crop1Hct + a.Crop2Hct
}

// NormalizedKey returns a canonical identity for the allocation. The
// (index, hectares) pairs are ordered by crop index, so an allocation and
// its swapped twin share the same key.
func (a Allocation) NormalizedKey() string {
	firstIdx, firstHct := a.Crop1Index, a.Crop1Hct
	secondIdx, secondHct := a.Crop2Index, a.Crop2Hct
	if secondIdx < firstIdx {
		firstIdx, secondIdx = secondIdx, firstIdx
		firstHct, secondHct = secondHct, firstHct
	}
	return fmt.Sprintf(`{"crops": [%d, %d], "hct": [%s, %s]}`,
		firstIdx, secondIdx, formatHct(firstHct), formatHct(secondHct))
}

func formatHct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String implements fmt.Stringer
func (a Allocation) String() string {
	return fmt.Sprintf("Allocation{%d:%s, %d:%s}",
		a.Crop1Index, formatHct(a.Crop1Hct), a.Crop2Index, formatHct(a.Crop2Hct))
}

// GenerationStats is the per-generation summary recorded by the evolution loop.
type GenerationStats struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	AverageFitness float64 `json:"average_fitness"`
}
