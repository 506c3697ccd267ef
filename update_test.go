package valutatrade

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider feeds canned quotes to the updater.
type fakeProvider struct {
	name   string
	quotes []Quote
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context) ([]Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func quoteAt(from, to string, value float64, at time.Time) Quote {
	return Quote{
		Rate: Rate{From: from, To: to, Value: D(value), UpdatedAt: at, Source: "Fake"},
		Meta: FetchMeta{RequestMS: 10, StatusCode: 200},
	}
}

func TestUpdater_RunOnce(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	store := NewStore(testConfig(t))
	provider := &fakeProvider{name: "Fake", quotes: []Quote{
		quoteAt("BTC", "USD", 50000, now),
		quoteAt("ETH", "USD", 3000, now),
	}}
	updater := NewUpdater(store, silentLogger(), provider)

	report, err := updater.RunOnce(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Appended)
	assert.Empty(t, report.Errors)

	// both stores must be persisted
	cache, err := store.LoadRates()
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
	assert.False(t, cache.LastRefresh().IsZero(), "LastRefresh should be set after a successful run")
	history, err := store.LoadHistory()
	require.NoError(t, err)
	assert.Equal(t, 2, history.Len())

	t.Run("Older quotes are skipped by the freshness guard", func(t *testing.T) {
		provider.quotes = []Quote{
			quoteAt("BTC", "USD", 48000, now.Add(-time.Hour)),
		}
		report, err := updater.RunOnce(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, report.Updated)
		assert.Equal(t, 1, report.Skipped)
		// the stale fetch is still recorded in the history
		assert.Equal(t, 1, report.Appended)

		cache, err := store.LoadRates()
		require.NoError(t, err)
		got, _ := cache.Get("BTC", "USD")
		assert.True(t, got.Value.Equal(D(50000)), "the newer value must be kept, got %v", got.Value)
		assert.Equal(t, 2, cache.Len(), "pairs the run did not touch must persist")
	})

	t.Run("Refetching the same second appends nothing", func(t *testing.T) {
		provider.quotes = []Quote{
			quoteAt("BTC", "USD", 50000, now),
		}
		report, err := updater.RunOnce(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, report.Appended, "a duplicate record should not grow the history")
	})
}

func TestUpdater_FailingProvider(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(testConfig(t))
	good := &fakeProvider{name: "Good", quotes: []Quote{quoteAt("BTC", "USD", 50000, now)}}
	bad := &fakeProvider{name: "Bad", err: fmt.Errorf("connection refused")}
	updater := NewUpdater(store, silentLogger(), good, bad)

	report, err := updater.RunOnce(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, report.Errors, 1, "only the bad provider should report an error")
	assert.Equal(t, 1, report.Updated, "the good provider's quote should still be applied")

	cache, err := store.LoadRates()
	require.NoError(t, err)
	assert.False(t, cache.LastRefresh().IsZero(), "LastRefresh should be set when at least one provider succeeded")
}

func TestUpdater_AllProvidersFailing(t *testing.T) {
	store := NewStore(testConfig(t))
	bad := &fakeProvider{name: "Bad", err: fmt.Errorf("connection refused")}
	updater := NewUpdater(store, silentLogger(), bad)

	report, err := updater.RunOnce(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, 0, report.Fetched)

	cache, err := store.LoadRates()
	require.NoError(t, err)
	assert.True(t, cache.LastRefresh().IsZero(), "LastRefresh must stay zero when every provider failed")
}

func TestUpdater_SelectSource(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(testConfig(t))
	gecko := &fakeProvider{name: SourceCoinGecko, quotes: []Quote{quoteAt("BTC", "USD", 50000, now)}}
	fiat := &fakeProvider{name: SourceExchangeRate, quotes: []Quote{quoteAt("EUR", "USD", 1.07, now)}}
	updater := NewUpdater(store, silentLogger(), gecko, fiat)

	t.Run("Source prefix selects one provider", func(t *testing.T) {
		_, err := updater.RunOnce(context.Background(), "coingecko")
		require.NoError(t, err)
		assert.Equal(t, 1, gecko.calls)
		assert.Equal(t, 0, fiat.calls)
	})

	t.Run("Unknown source is a validation error", func(t *testing.T) {
		_, err := updater.RunOnce(context.Background(), "bloomberg")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Empty source selects everything", func(t *testing.T) {
		gecko.calls, fiat.calls = 0, 0
		_, err := updater.RunOnce(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 1, gecko.calls)
		assert.Equal(t, 1, fiat.calls)
	})
}

func TestUpdater_RunEvery(t *testing.T) {
	store := NewStore(testConfig(t))
	provider := &fakeProvider{name: "Fake"}
	updater := NewUpdater(store, silentLogger(), provider)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	err := updater.RunEvery(ctx, 10*time.Millisecond, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, provider.calls, 2, "RunEvery should fetch immediately and then on every tick")
}
