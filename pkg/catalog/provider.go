package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// CatalogManager picks a provider by file extension and validates what it loads
type CatalogManager struct {
	csv  CatalogProvider
	json CatalogProvider
}

// NewCatalogManager creates a catalog manager with the default providers
func NewCatalogManager() *CatalogManager {
	return &CatalogManager{
		csv:  NewCSVProvider(),
		json: NewJSONProvider(),
	}
}

// Load returns the catalog stored at source, or the built-in catalog when
// source is empty
func (m *CatalogManager) Load(source string) (types.Catalog, error) {
	if strings.TrimSpace(source) == "" {
		return DefaultCatalog(), nil
	}

	provider, err := m.providerFor(source)
	if err != nil {
		return nil, err
	}

	catalog, err := provider.LoadCatalog(source)
	if err != nil {
		return nil, perrors.NewIOError("catalog", "load", err).WithContext("source", source)
	}

	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (m *CatalogManager) providerFor(source string) (CatalogProvider, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".csv":
		return m.csv, nil
	case ".json":
		return m.json, nil
	default:
		return nil, perrors.NewConfigurationError("catalog", "load",
			fmt.Sprintf("unsupported catalog format %q (use .csv or .json)", filepath.Ext(source)))
	}
}

// ValidateCatalog checks every crop record
func ValidateCatalog(catalog types.Catalog) error {
	if len(catalog) < 2 {
		return perrors.NewConfigurationError("catalog", "validate",
			fmt.Sprintf("catalog must contain at least 2 crops, got %d", len(catalog)))
	}

	for i, crop := range catalog {
		var problem string
		switch {
		case strings.TrimSpace(crop.Name) == "":
			problem = "name is empty"
		case crop.Area <= 0:
			problem = fmt.Sprintf("area must be positive, got %.4f", crop.Area)
		case crop.Cost < 0:
			problem = fmt.Sprintf("cost must be non-negative, got %.2f", crop.Cost)
		case crop.Profit < 0:
			problem = fmt.Sprintf("profit must be non-negative, got %.2f", crop.Profit)
		case crop.Time <= 0:
			problem = fmt.Sprintf("time must be positive, got %d", crop.Time)
		}
		if problem != "" {
			return perrors.NewConfigurationError("catalog", "validate",
				fmt.Sprintf("crop %d (%s): %s", i, crop.Name, problem))
		}
	}
	return nil
}

// Load is a convenience wrapper around the default manager
func Load(source string) (types.Catalog, error) {
	return NewCatalogManager().Load(source)
}
