package valutatrade

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "users.json"), cfg.UsersFile)
	assert.Equal(t, filepath.Join("data", "exchange_rates.json"), cfg.HistoryFile)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, 300*time.Second, cfg.RatesTTL)
	assert.Equal(t, 300*time.Second, cfg.UpdateInterval)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(1048576), cfg.LogMaxBytes)
	assert.Equal(t, 3, cfg.LogBackups)

	assert.Equal(t, []string{"EUR", "GBP", "RUB"}, cfg.FiatCodes)
	assert.Equal(t, map[string]string{"BTC": "bitcoin", "ETH": "ethereum", "SOL": "solana"}, cfg.CryptoIDs)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/vtrade-test")
	t.Setenv("DEFAULT_BASE_CURRENCY", "eur")
	t.Setenv("RATES_TTL_SECONDS", "60")
	t.Setenv("FIAT_CODES", "jpy, chf")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vtrade-test", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/vtrade-test", "portfolios.json"), cfg.PortfoliosFile, "file paths should follow DATA_DIR")
	assert.Equal(t, "EUR", cfg.BaseCurrency, "the base code should be normalized")
	assert.Equal(t, time.Minute, cfg.RatesTTL)
	assert.Equal(t, []string{"JPY", "CHF"}, cfg.FiatCodes)
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	toml := "DATA_DIR = \"state\"\nRATES_TTL_SECONDS = 120\nFIAT_CODES = \"sek\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))
	t.Chdir(dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "state", cfg.DataDir)
	assert.Equal(t, 2*time.Minute, cfg.RatesTTL)
	assert.Equal(t, []string{"SEK"}, cfg.FiatCodes)

	t.Run("Environment still wins", func(t *testing.T) {
		t.Setenv("DATA_DIR", "envdir")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "envdir", cfg.DataDir)
		assert.Equal(t, 2*time.Minute, cfg.RatesTTL, "settings the env does not name keep their file values")
	})
}

func TestSplitIDMap(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"Defaults", "BTC:bitcoin,ETH:ethereum", map[string]string{"BTC": "bitcoin", "ETH": "ethereum"}},
		{"Lowercase code", "btc:bitcoin", map[string]string{"BTC": "bitcoin"}},
		{"Padded", " BTC : bitcoin ", map[string]string{"BTC": "bitcoin"}},
		{"Missing id is skipped", "BTC,ETH:ethereum", map[string]string{"ETH": "ethereum"}},
		{"Empty", "", map[string]string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitIDMap(tc.in))
		})
	}
}
