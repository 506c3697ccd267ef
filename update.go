package valutatrade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phuslu/log"
)

// UpdateReport summarizes one updater run.
type UpdateReport struct {
	Fetched  int     // quotes received from providers
	Updated  int     // cache entries added or replaced
	Skipped  int     // quotes dropped by the freshness guard
	Appended int     // history records appended
	Errors   []error // one per failing provider
}

// Updater is the parser service: it pulls quotes from the wired providers,
// merges them into the rate cache and appends the fetch history. Provider
// failures are collected per run; a failing provider never touches the
// cache entries of the others.
type Updater struct {
	store     *Store
	providers []Provider
	logger    log.Logger
}

// NewUpdater wires the updater to its store and providers.
func NewUpdater(store *Store, logger log.Logger, providers ...Provider) *Updater {
	return &Updater{store: store, providers: providers, logger: logger}
}

// Sources returns the wired provider names, for usage text and validation.
func (u *Updater) Sources() []string {
	names := make([]string, 0, len(u.providers))
	for _, p := range u.providers {
		names = append(names, p.Name())
	}
	return names
}

// sourceKey normalizes a provider name for matching against -source values,
// so "coingecko" and "exchangerate" select "CoinGecko" and "ExchangeRate-API".
func sourceKey(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.ToLower(name))
}

// selectProviders returns the providers matching source, all when source is empty.
func (u *Updater) selectProviders(source string) ([]Provider, error) {
	if strings.TrimSpace(source) == "" {
		return u.providers, nil
	}
	key := sourceKey(source)
	var selected []Provider
	for _, p := range u.providers {
		if strings.HasPrefix(sourceKey(p.Name()), key) {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: unknown source %q (want one of %s)", ErrValidation, source, strings.Join(u.Sources(), ", "))
	}
	return selected, nil
}

// RunOnce executes one update cycle: fetch from the selected providers, merge
// every quote into the cache under the freshness guard, append history
// records, and persist both stores. Provider failures land in the report;
// the returned error is reserved for store and selection failures.
func (u *Updater) RunOnce(ctx context.Context, source string) (*UpdateReport, error) {
	selected, err := u.selectProviders(source)
	if err != nil {
		return nil, err
	}

	cache, err := u.store.LoadRates()
	if err != nil {
		return nil, err
	}
	history, err := u.store.LoadHistory()
	if err != nil {
		return nil, err
	}

	report := &UpdateReport{}
	for _, p := range selected {
		quotes, err := p.Fetch(ctx)
		if err != nil {
			u.logger.Error().Str("provider", p.Name()).Err(err).Msg("fetch failed")
			report.Errors = append(report.Errors, err)
			continue
		}
		u.logger.Info().Str("provider", p.Name()).Int("quotes", len(quotes)).Msg("fetched")
		for _, q := range quotes {
			report.Fetched++
			if cache.Upsert(q.Rate) {
				report.Updated++
			} else {
				report.Skipped++
			}
			if history.Append(NewRecord(q.Rate, q.Meta)) {
				report.Appended++
			}
		}
	}

	if len(report.Errors) < len(selected) {
		cache.SetLastRefresh(time.Now().UTC())
	}
	if err := u.store.SaveRates(cache); err != nil {
		return report, err
	}
	if err := u.store.SaveHistory(history); err != nil {
		return report, err
	}

	u.logger.Info().
		Int("fetched", report.Fetched).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("appended", report.Appended).
		Int("failures", len(report.Errors)).
		Msg("update run complete")
	return report, nil
}

// RunEvery runs RunOnce immediately and then on every interval tick, until
// the context is canceled. Failures are logged and the loop keeps going.
func (u *Updater) RunEvery(ctx context.Context, interval time.Duration, source string) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := u.RunOnce(ctx, source); err != nil {
			u.logger.Error().Err(err).Msg("update run failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
