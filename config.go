package valutatrade

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is loaded once in main and
// passed down by value reference; nothing in the package reads the
// environment behind its back.
type Config struct {
	DataDir string

	UsersFile      string
	PortfoliosFile string
	RatesFile      string
	HistoryFile    string
	CurrenciesFile string // optional catalog override
	SessionFile    string
	SecretFile     string

	BaseCurrency   string
	RatesTTL       time.Duration
	RequestTimeout time.Duration
	UpdateInterval time.Duration
	SessionTTL     time.Duration

	ExchangeRateAPIKey string
	FiatCodes          []string          // fetched from ExchangeRate-API
	CryptoIDs          map[string]string // code -> CoinGecko id

	LogDir      string
	ActionsLog  string
	ParserLog   string
	LogLevel    string
	LogMaxBytes int64
	LogBackups  int
}

// LoadConfig loads configuration from environment variables, a .env file and
// an optional config.toml, in that order of precedence. Every setting has a
// default so a bare invocation works.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("USERS_FILE", "")
	viper.SetDefault("PORTFOLIOS_FILE", "")
	viper.SetDefault("RATES_FILE", "")
	viper.SetDefault("EXCHANGE_HISTORY_FILE", "")
	viper.SetDefault("CURRENCIES_FILE", "")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "USD")
	viper.SetDefault("RATES_TTL_SECONDS", 300)
	viper.SetDefault("REQUEST_TIMEOUT", 10)
	viper.SetDefault("UPDATE_INTERVAL_SECONDS", 300)
	viper.SetDefault("SESSION_TTL", "12h")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("FIAT_CODES", "EUR,GBP,RUB")
	viper.SetDefault("CRYPTO_IDS", "BTC:bitcoin,ETH:ethereum,SOL:solana")
	viper.SetDefault("LOG_DIR", "logs")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_MAX_BYTES", 1048576)
	viper.SetDefault("LOG_BACKUP_COUNT", 3)

	// Optional config.toml in the working directory sits between the
	// defaults and the environment: env vars still win.
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DataDir = viper.GetString("DATA_DIR")
	cfg.UsersFile = orJoin(viper.GetString("USERS_FILE"), cfg.DataDir, "users.json")
	cfg.PortfoliosFile = orJoin(viper.GetString("PORTFOLIOS_FILE"), cfg.DataDir, "portfolios.json")
	cfg.RatesFile = orJoin(viper.GetString("RATES_FILE"), cfg.DataDir, "rates.json")
	cfg.HistoryFile = orJoin(viper.GetString("EXCHANGE_HISTORY_FILE"), cfg.DataDir, "exchange_rates.json")
	cfg.CurrenciesFile = viper.GetString("CURRENCIES_FILE")
	cfg.SessionFile = filepath.Join(cfg.DataDir, ".session")
	cfg.SecretFile = filepath.Join(cfg.DataDir, ".secret")

	cfg.BaseCurrency = NormalizeCode(viper.GetString("DEFAULT_BASE_CURRENCY"))
	cfg.RatesTTL = time.Duration(viper.GetInt("RATES_TTL_SECONDS")) * time.Second
	cfg.RequestTimeout = time.Duration(viper.GetInt("REQUEST_TIMEOUT")) * time.Second
	cfg.UpdateInterval = time.Duration(viper.GetInt("UPDATE_INTERVAL_SECONDS")) * time.Second

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 12 * time.Hour
	}
	cfg.SessionTTL = sessionTTL

	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGERATE_API_KEY")
	cfg.FiatCodes = splitCodes(viper.GetString("FIAT_CODES"))
	cfg.CryptoIDs = splitIDMap(viper.GetString("CRYPTO_IDS"))

	cfg.LogDir = viper.GetString("LOG_DIR")
	cfg.ActionsLog = filepath.Join(cfg.LogDir, "actions.log")
	cfg.ParserLog = filepath.Join(cfg.LogDir, "parser.log")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.LogMaxBytes = viper.GetInt64("LOG_MAX_BYTES")
	cfg.LogBackups = viper.GetInt("LOG_BACKUP_COUNT")

	return cfg, nil
}

// orJoin returns the explicit path when set, otherwise dir/name.
func orJoin(explicit, dir, name string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dir, name)
}

// splitCodes parses a comma-separated list of currency codes.
func splitCodes(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		if code := NormalizeCode(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// splitIDMap parses a comma-separated list of CODE:provider-id pairs.
func splitIDMap(s string) map[string]string {
	ids := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		code, id, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		ids[NormalizeCode(code)] = strings.TrimSpace(id)
	}
	return ids
}
