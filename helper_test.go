package valutatrade

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

// USD is a helper for tests to create dollar money from const.
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for tests to create euro money from const.
func EUR(v float64) Money { return M(v, "EUR") }

// BTC is a helper for tests to create bitcoin money from const.
func BTC(v float64) Money { return M(v, "BTC") }

// D is a helper for tests to create decimals from const.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// testConfig returns a config rooted in a temp dir so tests never touch real stores.
func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		DataDir:        dir,
		UsersFile:      filepath.Join(dir, "users.json"),
		PortfoliosFile: filepath.Join(dir, "portfolios.json"),
		RatesFile:      filepath.Join(dir, "rates.json"),
		HistoryFile:    filepath.Join(dir, "exchange_rates.json"),
		SessionFile:    filepath.Join(dir, ".session"),
		SecretFile:     filepath.Join(dir, ".secret"),
		BaseCurrency:   "USD",
		RatesTTL:       300 * time.Second,
		RequestTimeout: 10 * time.Second,
		SessionTTL:     12 * time.Hour,
		FiatCodes:      []string{"EUR", "GBP", "RUB"},
		CryptoIDs:      map[string]string{"BTC": "bitcoin", "ETH": "ethereum", "SOL": "solana"},
	}
}

// silentLogger discards all log output in tests.
func silentLogger() log.Logger {
	return log.Logger{Level: log.PanicLevel, Writer: log.IOWriter{Writer: io.Discard}}
}

// newTestExchange wires an Exchange over a temp-dir store with silent audit logging.
func newTestExchange(t *testing.T) (*Exchange, *Store) {
	t.Helper()
	cfg := testConfig(t)
	store := NewStore(cfg)
	return NewExchange(cfg, store, DefaultCatalog(), NewSilentActionLogger(), nil), store
}

// seedRate installs one rate with the given age directly into the store.
func seedRate(t *testing.T, store *Store, from, to string, value float64, age time.Duration) {
	t.Helper()
	cache, err := store.LoadRates()
	if err != nil {
		t.Fatalf("LoadRates() error = %v", err)
	}
	cache.Upsert(Rate{From: from, To: to, Value: D(value), UpdatedAt: time.Now().UTC().Add(-age), Source: SourceCoinGecko})
	if err := store.SaveRates(cache); err != nil {
		t.Fatalf("SaveRates() error = %v", err)
	}
}

// signIn registers the user if needed and logs in, returning the session.
func signIn(t *testing.T, ex *Exchange, username, password string) *Session {
	t.Helper()
	if _, err := ex.Register(username, password); err != nil && !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("Register(%q) error = %v", username, err)
	}
	user, _, err := ex.Login(username, password)
	if err != nil {
		t.Fatalf("Login(%q) error = %v", username, err)
	}
	return &Session{UserID: user.ID, Username: user.Username}
}
