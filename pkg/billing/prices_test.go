package billing_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/tenant"
)

func TestParsePriceTable(t *testing.T) {
	t.Parallel()

	table, err := billing.ParsePriceTable(strings.NewReader(`
plans:
  STARTER: [price_starter_m, price_starter_y]
  pro:
    - price_pro_m
`))
	require.NoError(t, err)

	plan, ok := table.Plan("price_starter_y")
	assert.True(t, ok)
	assert.Equal(t, tenant.PlanStarter, plan)

	plan, ok = table.Plan("price_pro_m")
	assert.True(t, ok)
	assert.Equal(t, tenant.PlanPro, plan)

	_, ok = table.Plan("price_unknown")
	assert.False(t, ok)
	_, ok = table.Plan("")
	assert.False(t, ok)
}

func TestParsePriceTable_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown plan":    "plans:\n  GOLD: [price_gold]\n",
		"duplicate price": "plans:\n  STARTER: [price_x]\n  PRO: [price_x]\n",
		"empty price":     "plans:\n  PRO: ['']\n",
		"unknown field":   "tiers:\n  PRO: [price_x]\n",
		"not yaml":        "plans: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := billing.ParsePriceTable(strings.NewReader(doc))
			assert.ErrorIs(t, err, billing.ErrInvalidPriceTable)
		})
	}

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		table, err := billing.ParsePriceTable(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, table)
	})
}

func TestConfig_PriceTable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plans:\n  PRO: [price_pro]\n"), 0o600))

	cfg := billing.Config{
		PricePlans: map[string]string{"price_starter": "starter", "price_pro": "PRO"},
		PricesFile: path,
	}
	table, err := cfg.PriceTable()
	require.NoError(t, err)
	assert.Equal(t, billing.PriceTable{
		"price_starter": tenant.PlanStarter,
		"price_pro":     tenant.PlanPro,
	}, table)

	cfg.PricePlans = map[string]string{"price_pro": "ENTERPRISE"}
	_, err = cfg.PriceTable()
	assert.ErrorIs(t, err, billing.ErrInvalidPriceTable)

	cfg = billing.Config{PricesFile: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err = cfg.PriceTable()
	assert.ErrorIs(t, err, billing.ErrInvalidPriceTable)
}
