package catalog

import (
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// defaultCrops is the reference catalog the planner ships with
var defaultCrops = types.Catalog{
	{Name: "Milho", Area: 1, Cost: 150, Profit: 400, Time: 120},
	{Name: "Soja", Area: 1, Cost: 100, Profit: 300, Time: 120},
	{Name: "Arroz", Area: 1, Cost: 180, Profit: 500, Time: 150},
	{Name: "Batata", Area: 0.5, Cost: 80, Profit: 200, Time: 90},
	{Name: "Tomate", Area: 0.5, Cost: 100, Profit: 300, Time: 90},
	{Name: "Cenoura", Area: 0.25, Cost: 60, Profit: 150, Time: 60},
	{Name: "Pepino", Area: 0.25, Cost: 80, Profit: 200, Time: 60},
	{Name: "Pimentão", Area: 0.5, Cost: 120, Profit: 250, Time: 90},
	{Name: "Cebola", Area: 0.25, Cost: 60, Profit: 150, Time: 60},
	{Name: "Trigo", Area: 1, Cost: 120, Profit: 250, Time: 90},
}

// DefaultCatalog returns a copy of the built-in catalog
func DefaultCatalog() types.Catalog {
	out := make(types.Catalog, len(defaultCrops))
	copy(out, defaultCrops)
	return out
}
