package valutatrade

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Known rate sources. A Rate carries the name of whichever produced it.
const (
	SourceCoinGecko    = "CoinGecko"
	SourceExchangeRate = "ExchangeRate-API"
	SourceLocalStub    = "LocalStub"
)

// Rate is one exchange rate for an ordered currency pair: 1 From = Value To.
type Rate struct {
	From      string
	To        string
	Value     decimal.Decimal
	UpdatedAt time.Time
	Source    string
}

// Pair returns the cache key for the ordered pair, e.g. "BTC_USD".
func (r Rate) Pair() string { return r.From + "_" + r.To }

// Invert returns the reverse rate, keeping the timestamp and source.
func (r Rate) Invert() Rate {
	return Rate{
		From:      r.To,
		To:        r.From,
		Value:     decimal.NewFromInt(1).Div(r.Value),
		UpdatedAt: r.UpdatedAt,
		Source:    r.Source,
	}
}

// Convert applies the rate to an amount in the From currency and returns the
// equivalent amount in the To currency.
func (r Rate) Convert(m Money) Money {
	return Money{value: m.value.Mul(r.Value), cur: r.To}
}

// ParsePair splits a "FROM_TO" pair key into its normalized codes.
func ParsePair(pair string) (from, to string, err error) {
	parts := strings.Split(strings.TrimSpace(pair), "_")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: pair %q must look like BTC_USD", ErrValidation, pair)
	}
	from, to = NormalizeCode(parts[0]), NormalizeCode(parts[1])
	if err := ValidateCode(from); err != nil {
		return "", "", err
	}
	if err := ValidateCode(to); err != nil {
		return "", "", err
	}
	return from, to, nil
}

// usdStub holds rough offline rates to USD. It is the fallback of last
// resort when the cache cannot answer, bridged through USD for cross pairs.
var usdStub = map[string]decimal.Decimal{
	"USD": decimal.NewFromFloat(1.0),
	"EUR": decimal.NewFromFloat(1.0786),
	"BTC": decimal.NewFromFloat(59337.21),
	"RUB": decimal.NewFromFloat(0.01016),
	"ETH": decimal.NewFromFloat(3720.0),
}

// RateCache is the in-memory view of rates.json: one entry per ordered pair,
// plus the time of the last successful refresh.
type RateCache struct {
	pairs       map[string]Rate
	lastRefresh time.Time
	ttl         time.Duration
}

// NewRateCache creates an empty cache whose entries stay fresh for ttl.
func NewRateCache(ttl time.Duration) *RateCache {
	return &RateCache{pairs: make(map[string]Rate), ttl: ttl}
}

// Len returns the number of cached pairs.
func (c *RateCache) Len() int { return len(c.pairs) }

// LastRefresh returns the time of the last successful update run, zero if none.
func (c *RateCache) LastRefresh() time.Time { return c.lastRefresh }

// SetLastRefresh records the time of a successful update run.
func (c *RateCache) SetLastRefresh(t time.Time) { c.lastRefresh = t }

// Get returns the cached rate for the ordered pair, fresh or not.
func (c *RateCache) Get(from, to string) (Rate, bool) {
	r, ok := c.pairs[NormalizeCode(from)+"_"+NormalizeCode(to)]
	return r, ok
}

// Fresh reports whether the rate's timestamp is within the cache's ttl.
func (c *RateCache) Fresh(r Rate) bool {
	return time.Since(r.UpdatedAt) <= c.ttl
}

// Upsert inserts or replaces the entry for the rate's pair. An existing entry
// with a newer timestamp wins: the incoming rate is dropped and Upsert
// returns false.
func (c *RateCache) Upsert(r Rate) bool {
	key := r.Pair()
	if existing, ok := c.pairs[key]; ok && r.UpdatedAt.Before(existing.UpdatedAt) {
		return false
	}
	c.pairs[key] = r
	return true
}

// Rates returns all cached rates ordered by pair key.
func (c *RateCache) Rates() []Rate {
	keys := make([]string, 0, len(c.pairs))
	for key := range c.pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	list := make([]Rate, 0, len(keys))
	for _, key := range keys {
		list = append(list, c.pairs[key])
	}
	return list
}

// Lookup returns the fresh cached rate for the ordered pair. A cached entry
// past its ttl returns ErrStaleRate; a missing one ErrRateNotFound.
func (c *RateCache) Lookup(from, to string) (Rate, error) {
	from, to = NormalizeCode(from), NormalizeCode(to)
	r, ok := c.Get(from, to)
	if !ok {
		return Rate{}, fmt.Errorf("%w for %s_%s", ErrRateNotFound, from, to)
	}
	if !c.Fresh(r) {
		return r, fmt.Errorf("%w: %s updated %s", ErrStaleRate, r.Pair(), r.UpdatedAt.Format(time.RFC3339))
	}
	return r, nil
}

// Resolve returns a usable rate for the pair.
//
// The resolution order is: identical codes, fresh direct entry, fresh reverse
// entry inverted, and finally the USD stub table. A stub answer is upserted
// into the cache so it shows up in listings with its LocalStub source.
// When even the stub cannot answer, the error is ErrRateNotFound.
func (c *RateCache) Resolve(from, to string) (Rate, error) {
	from, to = NormalizeCode(from), NormalizeCode(to)
	if from == to {
		return Rate{From: from, To: to, Value: decimal.NewFromInt(1), UpdatedAt: time.Now().UTC()}, nil
	}

	if direct, err := c.Lookup(from, to); err == nil {
		return direct, nil
	}
	if reverse, err := c.Lookup(to, from); err == nil {
		return reverse.Invert(), nil
	}

	fromUSD, okFrom := usdStub[from]
	toUSD, okTo := usdStub[to]
	if !okFrom || !okTo {
		return Rate{}, fmt.Errorf("%w for %s_%s", ErrRateNotFound, from, to)
	}
	stub := Rate{
		From:      from,
		To:        to,
		Value:     fromUSD.Div(toUSD),
		UpdatedAt: time.Now().UTC(),
		Source:    SourceLocalStub,
	}
	c.Upsert(stub)
	return stub, nil
}

// ByCurrency returns the cached rates on either side of the code, by pair order.
func (c *RateCache) ByCurrency(code string) []Rate {
	code = NormalizeCode(code)
	var list []Rate
	for _, r := range c.Rates() {
		if r.From == code || r.To == code {
			list = append(list, r)
		}
	}
	return list
}

// Top returns the n highest-valued rates, most expensive first.
// n <= 0 means all.
func (c *RateCache) Top(n int) []Rate {
	return topByValue(c.Rates(), n)
}

// topByValue sorts by value descending and keeps the first n. n <= 0 keeps all.
func topByValue(list []Rate, n int) []Rate {
	sortByValueDesc(list)
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

func sortByValueDesc(list []Rate) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Value.GreaterThan(list[j].Value)
	})
}
