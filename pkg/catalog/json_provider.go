package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// JSONProvider implements CatalogProvider for JSON files holding an array of crops
type JSONProvider struct{}

// NewJSONProvider creates a new JSON catalog provider
func NewJSONProvider() *JSONProvider {
	return &JSONProvider{}
}

// GetName returns the name of the provider
func (p *JSONProvider) GetName() string {
	return "JSON Provider"
}

// LoadCatalog loads a crop catalog from a JSON file
func (p *JSONProvider) LoadCatalog(source string) (types.Catalog, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ReadCatalog(file)
}

// ReadCatalog decodes a crop catalog from a JSON stream
func (p *JSONProvider) ReadCatalog(r io.Reader) (types.Catalog, error) {
	var catalog types.Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return catalog, nil
}
