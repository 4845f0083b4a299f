package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_Ordenados(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])
}

func TestInit_CreaTablasTransaccionales(t *testing.T) {
	body, err := files.ReadFile("001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"purchase_invoice_items", "purchase_orders", "offer_products", "internal_consumptions", "schedules"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table)
	}
}
