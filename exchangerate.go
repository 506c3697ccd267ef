package valutatrade

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const exchangeRateURL = "https://v6.exchangerate-api.com/v6"

// ExchangeRateAPI fetches fiat rates from exchangerate-api.com. The free plan
// quotes every currency against one base, so the provider asks for the
// configured base and inverts each pair to CODE -> base.
type ExchangeRateAPI struct {
	client *http.Client
	url    string
	key    string
	codes  []string
	base   string
}

// NewExchangeRateAPI creates the provider for the config's fiat codes.
// The API key comes from EXCHANGERATE_API_KEY.
func NewExchangeRateAPI(client *http.Client, cfg *Config) *ExchangeRateAPI {
	return &ExchangeRateAPI{client: client, url: exchangeRateURL, key: cfg.ExchangeRateAPIKey, codes: cfg.FiatCodes, base: cfg.BaseCurrency}
}

// Name implements Provider.
func (e *ExchangeRateAPI) Name() string { return SourceExchangeRate }

// Fetch pulls /latest/{base} and keeps only the configured codes.
func (e *ExchangeRateAPI) Fetch(ctx context.Context) ([]Quote, error) {
	if e.key == "" {
		return nil, fmt.Errorf("exchangerate-api: EXCHANGERATE_API_KEY is not set")
	}
	if len(e.codes) == 0 {
		return nil, nil
	}

	var jresp struct {
		Result          string             `json:"result"`
		ErrorType       string             `json:"error-type"`
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}
	addr := fmt.Sprintf("%s/%s/latest/%s", e.url, e.key, e.base)
	meta, err := jwget(ctx, e.client, addr, &jresp)
	if err != nil {
		return nil, fmt.Errorf("exchangerate-api: %w", err)
	}
	if jresp.Result != "success" {
		return nil, fmt.Errorf("exchangerate-api: request failed: %s", jresp.ErrorType)
	}

	now := time.Now().UTC()
	one := decimal.NewFromInt(1)
	var quotes []Quote
	for _, code := range e.codes {
		baseToCode, ok := jresp.ConversionRates[code]
		if !ok || baseToCode <= 0 {
			continue
		}
		quotes = append(quotes, Quote{
			Rate: Rate{
				From:      code,
				To:        e.base,
				Value:     one.Div(decimal.NewFromFloat(baseToCode)),
				UpdatedAt: now,
				Source:    SourceExchangeRate,
			},
			Meta: meta,
		})
	}
	return quotes, nil
}
