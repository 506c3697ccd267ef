package valutatrade

import "context"

// Quote is one normalized rate observation from a provider, with the fetch
// metadata that goes into the history log.
type Quote struct {
	Rate Rate
	Meta FetchMeta
}

// Provider fetches live rates from one external source. Implementations
// return whatever pairs they can produce for the configured base currency;
// the updater merges them into the cache.
type Provider interface {
	// Name is the source tag recorded on every rate, and the value users
	// pass to select this provider with `update -source`.
	Name() string
	// Fetch returns all quotes the provider can currently produce.
	Fetch(ctx context.Context) ([]Quote, error)
}
