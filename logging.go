package valutatrade

import (
	"errors"
	"io"

	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

// newFileLogger builds a rotating file logger per the config's rotation policy.
func newFileLogger(cfg *Config, filename string) log.Logger {
	return log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: "2006-01-02 15:04:05",
		Writer: &log.FileWriter{
			Filename:     filename,
			MaxSize:      cfg.LogMaxBytes,
			MaxBackups:   cfg.LogBackups,
			EnsureFolder: true,
			LocalTime:    true,
		},
	}
}

// NewParserLogger returns the logger the parser service writes to.
func NewParserLogger(cfg *Config) log.Logger {
	return newFileLogger(cfg, cfg.ParserLog)
}

// NewConsoleLogger returns a human-friendly logger for foreground daemons.
func NewConsoleLogger(level string) log.Logger {
	return log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
		},
	}
}

// ActionEntry is one audit line in the actions log. Zero fields are omitted.
type ActionEntry struct {
	Action   string
	User     string
	UserID   string
	Currency string
	Amount   decimal.Decimal
	Rate     decimal.Decimal
	Base     string
	Err      error
	Details  string
}

// ActionLogger records every account and trade operation, success or failure.
type ActionLogger struct {
	logger log.Logger
}

// NewActionLogger builds the audit logger over a rotating file.
func NewActionLogger(cfg *Config) *ActionLogger {
	return &ActionLogger{logger: newFileLogger(cfg, cfg.ActionsLog)}
}

// NewSilentActionLogger returns an audit logger that discards everything, for tests.
func NewSilentActionLogger() *ActionLogger {
	return &ActionLogger{logger: log.Logger{Level: log.PanicLevel, Writer: log.IOWriter{Writer: io.Discard}}}
}

// Log writes one audit entry. Failures log at error level with the error kind.
func (l *ActionLogger) Log(a ActionEntry) {
	e := l.logger.Info()
	if a.Err != nil {
		e = l.logger.Error()
	}
	e = e.Str("action", a.Action).Str("user", a.User)
	if a.UserID != "" {
		e = e.Str("user_id", a.UserID)
	}
	if a.Currency != "" {
		e = e.Str("currency", a.Currency)
	}
	if !a.Amount.IsZero() {
		e = e.Str("amount", a.Amount.String())
	}
	if !a.Rate.IsZero() {
		e = e.Str("rate", a.Rate.String())
	}
	if a.Base != "" {
		e = e.Str("base", a.Base)
	}
	if a.Err != nil {
		e = e.Str("result", "error").Str("error_type", errKind(a.Err)).Str("error_message", a.Err.Error())
	} else {
		e = e.Str("result", "ok")
	}
	if a.Details != "" {
		e = e.Str("details", a.Details)
	}
	e.Msg("")
}

// errKind maps an error to the short classifier used in audit lines.
func errKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrNotLoggedIn):
		return "not_logged_in"
	case errors.Is(err, ErrRateNotFound):
		return "rate_not_found"
	case errors.Is(err, ErrEmptyCache):
		return "empty_cache"
	}
	var unknown *UnknownCurrencyError
	if errors.As(err, &unknown) {
		return "unknown_currency"
	}
	var funds *InsufficientFundsError
	if errors.As(err, &funds) {
		return "insufficient_funds"
	}
	return "internal"
}
