package valutatrade

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Codecs for the parser service stores: rates.json (the live cache),
// exchange_rates.json (the append-only fetch history) and the optional
// currencies.json catalog override.

// EncodeRates writes the rate cache as a single document:
//
//	{"pairs": {"BTC_USD": {"rate": ..., "updated_at": ..., "source": ...}}, "last_refresh": ...}
func EncodeRates(w io.Writer, c *RateCache) error {
	var pw jsonObjectWriter
	for _, r := range c.Rates() {
		var rw jsonObjectWriter
		rw.Append("rate", r.Value)
		rw.Append("updated_at", r.UpdatedAt.UTC().Format(stampFormat))
		rw.Optional("source", r.Source)
		raw, err := rw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding rate %s: %w", r.Pair(), err)
		}
		pw.Append(r.Pair(), json.RawMessage(raw))
	}
	pairs, err := pw.MarshalJSON()
	if err != nil {
		return err
	}

	var jw jsonObjectWriter
	jw.Append("pairs", json.RawMessage(pairs))
	if !c.LastRefresh().IsZero() {
		jw.Append("last_refresh", c.LastRefresh().UTC().Format(stampFormat))
	}
	raw, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	return encodeDoc(w, raw)
}

// DecodeRates reads a rates.json document into a cache with the given ttl.
func DecodeRates(r io.Reader, ttl time.Duration) (*RateCache, error) {
	type jrate struct {
		Rate      decimal.Decimal `json:"rate"`
		UpdatedAt string          `json:"updated_at"`
		Source    string          `json:"source"`
	}
	type jdoc struct {
		Pairs       map[string]jrate `json:"pairs"`
		LastRefresh string           `json:"last_refresh"`
	}

	var doc jdoc
	if err := decodeDoc(r, &doc); err != nil {
		return nil, fmt.Errorf("format error in rates store: %w", err)
	}

	cache := NewRateCache(ttl)
	for pair, jr := range doc.Pairs {
		from, to, err := ParsePair(pair)
		if err != nil {
			return nil, fmt.Errorf("format error in rates store: %w", err)
		}
		at, err := time.Parse(stampFormat, jr.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("format error in rates store: pair %q has invalid updated_at %q: %w", pair, jr.UpdatedAt, err)
		}
		cache.Upsert(Rate{From: from, To: to, Value: jr.Rate, UpdatedAt: at, Source: jr.Source})
	}
	if doc.LastRefresh != "" {
		at, err := time.Parse(stampFormat, doc.LastRefresh)
		if err != nil {
			return nil, fmt.Errorf("format error in rates store: invalid last_refresh %q: %w", doc.LastRefresh, err)
		}
		cache.SetLastRefresh(at)
	}
	return cache, nil
}

// EncodeHistory writes the fetch history as a JSON array, oldest first.
func EncodeHistory(w io.Writer, h *History) error {
	list := make([]json.RawMessage, 0, h.Len())
	for rec := range h.Records() {
		var mw jsonObjectWriter
		mw.Append("request_ms", rec.Meta.RequestMS)
		mw.Append("status_code", rec.Meta.StatusCode)
		mw.Optional("etag", rec.Meta.ETag)
		meta, err := mw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding history record %s: %w", rec.ID, err)
		}

		var jw jsonObjectWriter
		jw.Append("id", rec.ID)
		jw.Append("from_currency", rec.From)
		jw.Append("to_currency", rec.To)
		jw.Append("rate", rec.Value)
		jw.Append("timestamp", rec.Timestamp.UTC().Format(stampFormat))
		jw.Optional("source", rec.Source)
		jw.Append("meta", json.RawMessage(meta))
		raw, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding history record %s: %w", rec.ID, err)
		}
		list = append(list, raw)
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return encodeDoc(w, raw)
}

// DecodeHistory reads an exchange_rates.json document.
func DecodeHistory(r io.Reader) (*History, error) {
	type jmeta struct {
		RequestMS  int64  `json:"request_ms"`
		StatusCode int    `json:"status_code"`
		ETag       string `json:"etag"`
	}
	type jrecord struct {
		ID        string          `json:"id"`
		From      string          `json:"from_currency"`
		To        string          `json:"to_currency"`
		Rate      decimal.Decimal `json:"rate"`
		Timestamp string          `json:"timestamp"`
		Source    string          `json:"source"`
		Meta      jmeta           `json:"meta"`
	}

	var list []jrecord
	if err := decodeDoc(r, &list); err != nil {
		return nil, fmt.Errorf("format error in history store: %w", err)
	}

	h := NewHistory()
	for _, jr := range list {
		at, err := time.Parse(stampFormat, jr.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("format error in history store: record %q has invalid timestamp %q: %w", jr.ID, jr.Timestamp, err)
		}
		h.Append(Record{
			ID:        jr.ID,
			From:      jr.From,
			To:        jr.To,
			Value:     jr.Rate,
			Timestamp: at,
			Source:    jr.Source,
			Meta:      FetchMeta{RequestMS: jr.Meta.RequestMS, StatusCode: jr.Meta.StatusCode, ETag: jr.Meta.ETag},
		})
	}
	return h, nil
}

// DecodeCurrencies reads a currencies.json catalog override.
func DecodeCurrencies(r io.Reader) ([]Currency, error) {
	type jcurrency struct {
		Code           string  `json:"code"`
		Name           string  `json:"name"`
		Kind           string  `json:"kind"`
		Precision      int     `json:"precision"`
		IssuingCountry string  `json:"issuing_country"`
		Algorithm      string  `json:"algorithm"`
		MarketCap      float64 `json:"market_cap"`
	}

	var list []jcurrency
	if err := decodeDoc(r, &list); err != nil {
		return nil, fmt.Errorf("format error in currencies file: %w", err)
	}

	currencies := make([]Currency, 0, len(list))
	for _, jc := range list {
		code := NormalizeCode(jc.Code)
		if err := ValidateCode(code); err != nil {
			return nil, fmt.Errorf("format error in currencies file: %w", err)
		}
		kind, err := ParseKind(jc.Kind)
		if err != nil {
			return nil, fmt.Errorf("format error in currencies file: currency %q: %w", code, err)
		}
		currencies = append(currencies, Currency{
			Code:           code,
			Name:           jc.Name,
			Kind:           kind,
			Precision:      jc.Precision,
			IssuingCountry: jc.IssuingCountry,
			Algorithm:      jc.Algorithm,
			MarketCap:      jc.MarketCap,
		})
	}
	return currencies, nil
}
