package catalog

import (
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// Package catalog provides the crop catalogs the optimizer searches over

// CatalogProvider loads a crop catalog from some source
type CatalogProvider interface {
	// LoadCatalog loads the catalog from the specified source
	LoadCatalog(source string) (types.Catalog, error)

	// GetName returns the name of the provider
	GetName() string
}

// CSVColumnMapping defines the column positions of a crop CSV file
type CSVColumnMapping struct {
	NameCol    int
	AreaCol    int
	CostCol    int
	ProfitCol  int
	TimeCol    int
	MinColumns int
	HasHeader  bool
}

// DefaultCSVFormat is name,area,cost,profit,time with a header row
var DefaultCSVFormat = CSVColumnMapping{
	NameCol:    0,
	AreaCol:    1,
	CostCol:    2,
	ProfitCol:  3,
	TimeCol:    4,
	MinColumns: 5,
	HasHeader:  true,
}
