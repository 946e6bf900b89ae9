package billing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fixology/platform/pkg/tenant"
)

// PriceTable maps provider price ids to platform plans.
type PriceTable map[string]tenant.Plan

// Plan returns the plan for a price id. Unknown ids report false.
func (t PriceTable) Plan(priceID string) (tenant.Plan, bool) {
	if priceID == "" {
		return "", false
	}
	p, ok := t[priceID]
	return p, ok
}

// priceFile is the on-disk layout:
//
//	plans:
//	  STARTER: [price_starter_monthly, price_starter_yearly]
//	  PRO: [price_pro_monthly]
type priceFile struct {
	Plans map[string][]string `yaml:"plans"`
}

// ParsePriceTable reads a YAML price table.
func ParsePriceTable(r io.Reader) (PriceTable, error) {
	var f priceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriceTable, err)
	}

	table := PriceTable{}
	for name, prices := range f.Plans {
		for _, price := range prices {
			if err := table.add(price, name); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// LoadPriceTable reads a YAML price table from path.
func LoadPriceTable(path string) (PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriceTable, err)
	}
	defer f.Close()
	return ParsePriceTable(f)
}

// PriceTableFromMap builds a table from price id to plan name pairs,
// as parsed from STRIPE_PRICE_PLANS.
func PriceTableFromMap(m map[string]string) (PriceTable, error) {
	table := PriceTable{}
	for price, name := range m {
		if err := table.add(price, name); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Merge returns a table holding the entries of both. A price id mapped to
// two different plans is an error.
func (t PriceTable) Merge(other PriceTable) (PriceTable, error) {
	out := make(PriceTable, len(t)+len(other))
	for price, plan := range t {
		out[price] = plan
	}
	for price, plan := range other {
		if err := out.add(price, string(plan)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t PriceTable) add(price, name string) error {
	price = strings.TrimSpace(price)
	plan := tenant.Plan(strings.ToUpper(strings.TrimSpace(name)))
	if price == "" {
		return fmt.Errorf("%w: empty price id for plan %q", ErrInvalidPriceTable, name)
	}
	if !plan.Valid() {
		return fmt.Errorf("%w: unknown plan %q for price %s", ErrInvalidPriceTable, name, price)
	}
	if existing, ok := t[price]; ok && existing != plan {
		return fmt.Errorf("%w: price %s mapped to both %s and %s", ErrInvalidPriceTable, price, existing, plan)
	}
	t[price] = plan
	return nil
}
