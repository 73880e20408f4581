package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
)

// CSVProvider implements CatalogProvider for CSV files
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV catalog provider with the default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV catalog provider with a custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadCatalog loads a crop catalog from a CSV file
func (p *CSVProvider) LoadCatalog(source string) (types.Catalog, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ReadCatalog(file)
}

// ReadCatalog parses a crop catalog from a CSV stream
func (p *CSVProvider) ReadCatalog(r io.Reader) (types.Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	if p.format.HasHeader {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("error reading CSV header: %w", err)
		}
	}

	var catalog types.Catalog
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < p.format.MinColumns {
			return nil, fmt.Errorf("insufficient columns at line %d (expected %d, got %d)", lineNum, p.format.MinColumns, len(record))
		}

		crop, err := p.parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		catalog = append(catalog, crop)
	}

	return catalog, nil
}

func (p *CSVProvider) parseRecord(record []string) (types.Crop, error) {
	crop := types.Crop{Name: strings.TrimSpace(record[p.format.NameCol])}

	var err error
	if crop.Area, err = parseFloat(record[p.format.AreaCol], "area"); err != nil {
		return crop, err
	}
	if crop.Cost, err = parseFloat(record[p.format.CostCol], "cost"); err != nil {
		return crop, err
	}
	if crop.Profit, err = parseFloat(record[p.format.ProfitCol], "profit"); err != nil {
		return crop, err
	}
	if crop.Time, err = strconv.Atoi(strings.TrimSpace(record[p.format.TimeCol])); err != nil {
		return crop, fmt.Errorf("invalid time '%s': %w", record[p.format.TimeCol], err)
	}
	return crop, nil
}

func parseFloat(value, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", field, value, err)
	}
	return v, nil
}
