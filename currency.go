package valutatrade

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
)

// Kind partitions the catalog into fiat and crypto currencies.
type Kind string

const (
	Fiat   Kind = "fiat"
	Crypto Kind = "crypto"
)

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Fiat:
		return Fiat, nil
	case Crypto:
		return Crypto, nil
	}
	return "", fmt.Errorf("%w: unknown currency kind %q (want fiat or crypto)", ErrValidation, s)
}

// codePattern is the only accepted shape for a currency code, after normalization.
var codePattern = regexp.MustCompile(`^[A-Z0-9]{2,5}$`)

// NormalizeCode returns the canonical form of a currency code: trimmed and upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCode checks that a normalized code is syntactically valid.
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return fmt.Errorf("%w: currency code %q must be 2 to 5 characters A-Z or 0-9", ErrValidation, code)
	}
	return nil
}

// Currency describes one tradable currency in the catalog.
//
// Kind decides which of the optional fields are meaningful: IssuingCountry for
// fiat, Algorithm and MarketCap for crypto.
type Currency struct {
	Code      string
	Name      string
	Kind      Kind
	Precision int // display decimals

	IssuingCountry string // fiat only

	Algorithm string  // crypto only
	MarketCap float64 // crypto only, in base currency
}

// IsCrypto reports whether the currency is a crypto asset.
func (c Currency) IsCrypto() bool { return c.Kind == Crypto }

// graphemes for currencies the go-money library does not ship with.
var graphemes = map[string]string{
	"BTC": "₿",
	"ETH": "Ξ",
	"SOL": "◎",
}

// Catalog is the read-only set of currencies the application accepts.
// It is built once at startup and shared by reference afterwards.
type Catalog struct {
	currencies map[string]Currency
}

// NewCatalog builds a catalog from the given currencies and registers the
// formatting of every code unknown to go-money, so Money values render with
// the right precision.
func NewCatalog(currencies ...Currency) *Catalog {
	c := &Catalog{currencies: make(map[string]Currency, len(currencies))}
	for _, cur := range currencies {
		cur.Code = NormalizeCode(cur.Code)
		c.currencies[cur.Code] = cur
		if money.GetCurrency(cur.Code) != nil {
			continue
		}
		grapheme, ok := graphemes[cur.Code]
		if !ok {
			grapheme = cur.Code + " "
		}
		money.AddCurrency(cur.Code, grapheme, "$1", ".", ",", cur.Precision)
	}
	return c
}

// DefaultCatalog returns the built-in catalog, used when no currencies file overrides it.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Currency{Code: "USD", Name: "US Dollar", Kind: Fiat, Precision: 2, IssuingCountry: "United States"},
		Currency{Code: "EUR", Name: "Euro", Kind: Fiat, Precision: 2, IssuingCountry: "Eurozone"},
		Currency{Code: "GBP", Name: "Pound Sterling", Kind: Fiat, Precision: 2, IssuingCountry: "United Kingdom"},
		Currency{Code: "RUB", Name: "Russian Ruble", Kind: Fiat, Precision: 2, IssuingCountry: "Russia"},
		Currency{Code: "BTC", Name: "Bitcoin", Kind: Crypto, Precision: 8, Algorithm: "SHA-256"},
		Currency{Code: "ETH", Name: "Ethereum", Kind: Crypto, Precision: 8, Algorithm: "Ethash"},
		Currency{Code: "SOL", Name: "Solana", Kind: Crypto, Precision: 8, Algorithm: "PoH"},
	)
}

// Get returns the currency for a code, normalizing it first.
// The error is an *UnknownCurrencyError when the code is not in the catalog.
func (c *Catalog) Get(code string) (Currency, error) {
	code = NormalizeCode(code)
	if err := ValidateCode(code); err != nil {
		return Currency{}, err
	}
	cur, ok := c.currencies[code]
	if !ok {
		return Currency{}, &UnknownCurrencyError{Code: code}
	}
	return cur, nil
}

// Has reports whether the normalized code is in the catalog.
func (c *Catalog) Has(code string) bool {
	_, ok := c.currencies[NormalizeCode(code)]
	return ok
}

// Codes returns all catalog codes in alphabetical order.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.currencies))
	for code := range c.currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Currencies returns all currencies in code order.
func (c *Catalog) Currencies() []Currency {
	list := make([]Currency, 0, len(c.currencies))
	for _, code := range c.Codes() {
		list = append(list, c.currencies[code])
	}
	return list
}

// Len returns the number of currencies in the catalog.
func (c *Catalog) Len() int { return len(c.currencies) }
