package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/ducminhle1904/crop-allocation-optimizer/internal/errors"
	"github.com/ducminhle1904/crop-allocation-optimizer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	require.Len(t, catalog, 10)
	assert.Equal(t, "Milho", catalog[0].Name)
	assert.Equal(t, "Trigo", catalog[9].Name)
	assert.Equal(t, 0.25, catalog[5].Area)
	assert.NoError(t, ValidateCatalog(catalog))

	// callers get their own copy
	catalog[0].Name = "changed"
	assert.Equal(t, "Milho", DefaultCatalog()[0].Name)
}

func TestCSVProvider_ReadCatalog(t *testing.T) {
	input := "name,area,cost,profit,time\nMilho, 1, 150, 400, 120\nCenoura,0.25,60,150,60\n"

	catalog, err := NewCSVProvider().ReadCatalog(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, types.Catalog{
		{Name: "Milho", Area: 1, Cost: 150, Profit: 400, Time: 120},
		{Name: "Cenoura", Area: 0.25, Cost: 60, Profit: 150, Time: 60},
	}, catalog)
}

func TestCSVProvider_RejectsBadRows(t *testing.T) {
	_, err := NewCSVProvider().ReadCatalog(strings.NewReader("name,area,cost,profit,time\nMilho,1,150\n"))
	assert.ErrorContains(t, err, "insufficient columns")

	_, err = NewCSVProvider().ReadCatalog(strings.NewReader("name,area,cost,profit,time\nMilho,abc,150,400,120\n"))
	assert.ErrorContains(t, err, "invalid area")

	_, err = NewCSVProvider().ReadCatalog(strings.NewReader("name,area,cost,profit,time\nMilho,1,150,400,1.5\n"))
	assert.ErrorContains(t, err, "invalid time")
}

func TestCSVProvider_WithoutHeader(t *testing.T) {
	format := DefaultCSVFormat
	format.HasHeader = false

	catalog, err := NewCSVProviderWithFormat(format).ReadCatalog(strings.NewReader("A,1,1,2,30\nB,1,1,3,40\n"))
	require.NoError(t, err)
	assert.Len(t, catalog, 2)
}

func TestJSONProvider_ReadCatalog(t *testing.T) {
	input := `[{"name":"A","area":1,"cost":100,"profit":300,"time":120},{"name":"B","area":1,"cost":150,"profit":400,"time":150}]`

	catalog, err := NewJSONProvider().ReadCatalog(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, 150, catalog[1].Time)
}

func TestCatalogManager_Load(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "crops.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,area,cost,profit,time\nA,1,100,300,120\nB,1,150,400,150\n"), 0644))

	catalog, err := Load(csvPath)
	require.NoError(t, err)
	assert.Len(t, catalog, 2)

	jsonPath := filepath.Join(dir, "crops.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"name":"A","area":1,"cost":1,"profit":2,"time":30}]`), 0644))
	_, err = Load(jsonPath)
	assert.True(t, perrors.IsConfigurationError(err), "single crop catalog is rejected")

	_, err = Load(filepath.Join(dir, "crops.yaml"))
	assert.True(t, perrors.IsConfigurationError(err))

	_, err = Load(filepath.Join(dir, "missing.csv"))
	category, ok := perrors.CategoryOf(err)
	require.True(t, ok)
	assert.Equal(t, perrors.ErrorCategoryIO, category)

	catalog, err = Load("")
	require.NoError(t, err)
	assert.Len(t, catalog, 10)
}

func TestValidateCatalog(t *testing.T) {
	good := types.Crop{Name: "A", Area: 1, Cost: 1, Profit: 2, Time: 30}

	tests := []struct {
		name string
		bad  types.Crop
	}{
		{"empty name", types.Crop{Area: 1, Time: 30}},
		{"zero area", types.Crop{Name: "X", Area: 0, Time: 30}},
		{"negative cost", types.Crop{Name: "X", Area: 1, Cost: -1, Time: 30}},
		{"negative profit", types.Crop{Name: "X", Area: 1, Profit: -1, Time: 30}},
		{"zero time", types.Crop{Name: "X", Area: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(types.Catalog{good, tt.bad})
			assert.True(t, perrors.IsConfigurationError(err))
		})
	}
}
