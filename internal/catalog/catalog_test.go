package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
)

func TestDefaultCatalogOrderAndPrices(t *testing.T) {
	c := Default()
	services := c.Services()
	require.Len(t, services, 5)

	wantKeys := []string{"bw_pages", "color_pages", "scan_pages", "lamination_sheets", "binding_count"}
	wantPrices := []int64{1, 3, 2, 20, 30}
	for i, svc := range services {
		assert.Equal(t, wantKeys[i], svc.Key)
		assert.True(t, svc.UnitPrice.Equal(decimal.NewFromInt(wantPrices[i])), "price for %s", svc.Key)
	}

	bw, ok := c.Lookup("bw_pages")
	require.True(t, ok)
	assert.Equal(t, "B/W Printing (per page)", bw.Label)

	_, ok = c.Lookup("unknown")
	assert.False(t, ok)
}

func TestServicesReturnsCopy(t *testing.T) {
	c := Default()
	services := c.Services()
	services[0].Label = "changed"

	bw, _ := c.Lookup("bw_pages")
	assert.Equal(t, "B/W Printing (per page)", bw.Label)
}

func TestNewValidation(t *testing.T) {
	one := decimal.NewFromInt(1)
	cases := map[string][]domain.ServiceDefinition{
		"empty":     nil,
		"no key":    {{Key: " ", Label: "x", UnitPrice: one}},
		"no label":  {{Key: "a", UnitPrice: one}},
		"negative":  {{Key: "a", Label: "A", UnitPrice: decimal.NewFromInt(-1)}},
		"duplicate": {{Key: "a", Label: "A", UnitPrice: one}, {Key: "a", Label: "B", UnitPrice: one}},
	}
	for name, defs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(defs)
			require.Error(t, err)
		})
	}
}
