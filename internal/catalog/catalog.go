// Package catalog holds the fixed table of shop services and their unit prices.
package catalog

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
)

// Catalog is an ordered, read-only set of services. It is safe for concurrent use
// because nothing mutates it after construction.
type Catalog struct {
	services []domain.ServiceDefinition
	byKey    map[string]int
}

// Default returns the shop's standard price list.
func Default() *Catalog {
	c, err := New([]domain.ServiceDefinition{
		{Key: "bw_pages", Label: "B/W Printing (per page)", UnitPrice: decimal.NewFromInt(1)},
		{Key: "color_pages", Label: "Color Printing (per page)", UnitPrice: decimal.NewFromInt(3)},
		{Key: "scan_pages", Label: "Scanning (per page)", UnitPrice: decimal.NewFromInt(2)},
		{Key: "lamination_sheets", Label: "Lamination (per sheet)", UnitPrice: decimal.NewFromInt(20)},
		{Key: "binding_count", Label: "Binding (per book)", UnitPrice: decimal.NewFromInt(30)},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// New validates defs and builds a Catalog preserving their order.
func New(defs []domain.ServiceDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errors.New("catalog is empty")
	}
	c := &Catalog{
		services: make([]domain.ServiceDefinition, 0, len(defs)),
		byKey:    make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		key := strings.TrimSpace(d.Key)
		if key == "" {
			return nil, errors.Errorf("service %q has no key", d.Label)
		}
		if strings.TrimSpace(d.Label) == "" {
			return nil, errors.Errorf("service %q has no label", key)
		}
		if d.UnitPrice.IsNegative() {
			return nil, errors.Errorf("service %q has negative price %s", key, d.UnitPrice)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, errors.Errorf("duplicate service key %q", key)
		}
		d.Key = key
		c.byKey[key] = len(c.services)
		c.services = append(c.services, d)
	}
	return c, nil
}

// Services returns a copy of the services in catalog order.
func (c *Catalog) Services() []domain.ServiceDefinition {
	out := make([]domain.ServiceDefinition, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) Lookup(key string) (domain.ServiceDefinition, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return domain.ServiceDefinition{}, false
	}
	return c.services[i], true
}

func (c *Catalog) Len() int {
	return len(c.services)
}
