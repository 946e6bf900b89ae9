package billing

import "time"

// Config holds the payment provider settings.
type Config struct {
	SecretKey        string            `env:"STRIPE_SECRET_KEY"`
	WebhookSecret    string            `env:"STRIPE_WEBHOOK_SECRET,required"`
	WebhookTolerance time.Duration     `env:"STRIPE_WEBHOOK_TOLERANCE" envDefault:"5m"`
	APIURL           string            `env:"STRIPE_API_URL"`
	PricePlans       map[string]string `env:"STRIPE_PRICE_PLANS"`
	PricesFile       string            `env:"BILLING_PRICES_FILE"`
	NotifyTimeout    time.Duration     `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
	LookupCacheTTL   time.Duration     `env:"LOOKUP_CACHE_TTL" envDefault:"10m"`
	LookupCacheSize  int               `env:"LOOKUP_CACHE_SIZE" envDefault:"10000"`
}

// PriceTable combines the prices file, if any, with STRIPE_PRICE_PLANS.
func (c Config) PriceTable() (PriceTable, error) {
	table, err := PriceTableFromMap(c.PricePlans)
	if err != nil {
		return nil, err
	}
	if c.PricesFile == "" {
		return table, nil
	}
	fromFile, err := LoadPriceTable(c.PricesFile)
	if err != nil {
		return nil, err
	}
	return fromFile.Merge(table)
}
