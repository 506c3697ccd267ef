package valutatrade

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const coingeckoURL = "https://api.coingecko.com/api/v3/simple/price"

// CoinGecko fetches crypto spot prices from the CoinGecko simple-price API.
// No API key is required for the free endpoint.
type CoinGecko struct {
	client *http.Client
	url    string
	ids    map[string]string // currency code -> CoinGecko asset id
	base   string
}

// NewCoinGecko creates the provider for the config's crypto map and base currency.
func NewCoinGecko(client *http.Client, cfg *Config) *CoinGecko {
	return &CoinGecko{client: client, url: coingeckoURL, ids: cfg.CryptoIDs, base: cfg.BaseCurrency}
}

// Name implements Provider.
func (c *CoinGecko) Name() string { return SourceCoinGecko }

// Fetch asks for all configured assets in one request and plucks each price
// out of the dynamic response object:
//
//	{"bitcoin": {"usd": 59337.21}, "ethereum": {"usd": 3720.0}, ...}
//
// Assets missing from the response are skipped, not failed.
func (c *CoinGecko) Fetch(ctx context.Context) ([]Quote, error) {
	if len(c.ids) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(c.ids))
	ids := make([]string, 0, len(c.ids))
	for code := range c.ids {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		ids = append(ids, c.ids[code])
	}

	vs := strings.ToLower(c.base)
	addr := fmt.Sprintf("%s?ids=%s&vs_currencies=%s", c.url, strings.Join(ids, ","), vs)

	var jobj interface{}
	meta, err := jwget(ctx, c.client, addr, &jobj)
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	now := time.Now().UTC()
	var quotes []Quote
	for _, code := range codes {
		v, err := jsonpath.Get(fmt.Sprintf("$.%s.%s", c.ids[code], vs), jobj)
		if err != nil {
			continue
		}
		price, ok := v.(float64)
		if !ok || price <= 0 {
			continue
		}
		quotes = append(quotes, Quote{
			Rate: Rate{
				From:      code,
				To:        c.base,
				Value:     decimal.NewFromFloat(price),
				UpdatedAt: now,
				Source:    SourceCoinGecko,
			},
			Meta: meta,
		})
	}
	return quotes, nil
}
