package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelnik/taxidriver/internal/game/catalog"
)

const catalogYAML = `
vehicles:
  - id: cab_a
    name: "Test Cab A"
    category: ECONOMY
    price: 0
    rent_price: 50
    fuel_consumption: 12
    speed_factor: 1.0
  - id: cab_b
    name: "Test Cab B"
    category: LUXURY
    price: 90000
    rent_price: 0
    fuel_consumption: 18
    speed_factor: 1.7
`

// TestLoadFromBytes verifies YAML parsing into a validated catalog.
func TestLoadFromBytes(t *testing.T) {
	cat, err := catalog.LoadFromBytes([]byte(catalogYAML))
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	assert.Equal(t, "cab_a", cat.Starter().ID)

	b, ok := cat.Get("cab_b")
	require.True(t, ok)
	assert.Equal(t, catalog.CategoryLuxury, b.Category)
	assert.Equal(t, 90000, b.Price)
	assert.InDelta(t, 18.0, b.FuelConsumption, 1e-9)
}

// TestLoadFromBytes_RejectsBadInput verifies malformed YAML and invalid
// entries both surface errors.
func TestLoadFromBytes_RejectsBadInput(t *testing.T) {
	_, err := catalog.LoadFromBytes([]byte("vehicles: [not a mapping"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing catalog YAML")

	_, err = catalog.LoadFromBytes([]byte("vehicles:\n  - id: bad\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating catalog")
}

// TestLoadFromFile verifies the file path entry point.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	cat, err := catalog.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	_, err = catalog.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
