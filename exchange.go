package valutatrade

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Exchange ties the stores, catalog, updater and audit log together and
// implements every user-facing operation. All collaborators are injected;
// the zero value is not usable.
type Exchange struct {
	cfg     *Config
	store   *Store
	catalog *Catalog
	actions *ActionLogger
	updater *Updater
}

// NewExchange builds the usecase layer. The updater may be nil when no
// provider access is wanted (offline use, tests).
func NewExchange(cfg *Config, store *Store, catalog *Catalog, actions *ActionLogger, updater *Updater) *Exchange {
	return &Exchange{cfg: cfg, store: store, catalog: catalog, actions: actions, updater: updater}
}

// Catalog exposes the currency catalog for listings and completion.
func (e *Exchange) Catalog() *Catalog { return e.catalog }

// BaseCurrency returns the settlement currency for trades.
func (e *Exchange) BaseCurrency() string { return e.cfg.BaseCurrency }

// Register creates a user with an empty portfolio.
func (e *Exchange) Register(username, password string) (user *User, err error) {
	defer func() {
		e.actions.Log(ActionEntry{Action: "register", User: username, UserID: userID(user), Err: err})
	}()

	user, err = NewUser(username, password)
	if err != nil {
		return nil, err
	}

	users, err := e.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	if err = users.Add(user); err != nil {
		return nil, err
	}
	if err = e.store.SaveUsers(users); err != nil {
		return nil, err
	}

	portfolios, err := e.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	portfolios[user.Username] = NewPortfolio(user.Username)
	if err = e.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns a signed session token. The caller
// decides where to keep the token; see SaveSessionFile.
func (e *Exchange) Login(username, password string) (user *User, token string, err error) {
	defer func() {
		e.actions.Log(ActionEntry{Action: "login", User: username, UserID: userID(user), Err: err})
	}()

	users, err := e.store.LoadUsers()
	if err != nil {
		return nil, "", err
	}
	found, ok := users.FindByName(username)
	if !ok || !found.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}
	user = found

	secret, err := LoadOrCreateSecret(e.cfg.SecretFile)
	if err != nil {
		return nil, "", err
	}
	token, err = NewSessionToken(user, secret, e.cfg.SessionTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout clears the stored session file. Logging out without a valid
// session is not an error.
func (e *Exchange) Logout() (err error) {
	session, _ := e.CurrentSession()
	defer func() {
		e.actions.Log(ActionEntry{Action: "logout", User: sessionName(session), Err: err})
	}()
	return ClearSessionFile(e.cfg.SessionFile)
}

// CurrentSession reads and validates the stored session file.
func (e *Exchange) CurrentSession() (*Session, error) {
	token, err := LoadSessionFile(e.cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	secret, err := LoadOrCreateSecret(e.cfg.SecretFile)
	if err != nil {
		return nil, err
	}
	return ParseSessionToken(token, secret)
}

// sessionUser maps a session back to its user record.
func (e *Exchange) sessionUser(session *Session) (*User, error) {
	if session == nil {
		return nil, ErrNotLoggedIn
	}
	users, err := e.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	user, ok := users.FindByID(session.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: account no longer exists", ErrNotLoggedIn)
	}
	return user, nil
}

// Trade is the receipt for one executed buy or sell.
type Trade struct {
	Action       string // "buy" or "sell"
	Username     string
	Asset        Money // amount traded, in the asset currency
	Price        Rate  // asset -> base rate applied
	Cost         Money // amount settled, in the base currency
	AssetBalance Money // asset wallet after the trade
	BaseBalance  Money // base wallet after the trade
}

// Buy purchases an amount of a currency, settling against the base wallet.
// The asset wallet is created on first buy; the base wallet must cover
// amount times rate or the portfolio stays untouched.
func (e *Exchange) Buy(session *Session, code string, amount decimal.Decimal) (t *Trade, err error) {
	entry := ActionEntry{Action: "buy", User: sessionName(session), Currency: NormalizeCode(code), Amount: amount, Base: e.cfg.BaseCurrency}
	defer func() { entry.Err = err; e.actions.Log(entry) }()

	user, err := e.sessionUser(session)
	if err != nil {
		return nil, err
	}
	entry.UserID = user.ID

	cur, err := e.catalog.Get(code)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount)
	}

	portfolios, err := e.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	p := portfolios[user.Username]
	if p == nil {
		p = NewPortfolio(user.Username)
		portfolios[user.Username] = p
	}

	rate, err := e.resolveRate(cur.Code, e.cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}
	entry.Rate = rate.Value

	asset := M(amount, cur.Code)
	cost := rate.Convert(asset)
	if err = p.Withdraw(cost); err != nil {
		return nil, err
	}
	if err = p.Deposit(asset); err != nil {
		return nil, err
	}
	if err = e.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}

	return &Trade{
		Action:       "buy",
		Username:     user.Username,
		Asset:        asset,
		Price:        rate,
		Cost:         cost,
		AssetBalance: p.Balance(cur.Code),
		BaseBalance:  p.Balance(e.cfg.BaseCurrency),
	}, nil
}

// Sell disposes of an amount of a currency, crediting the base wallet with
// the proceeds. Selling more than the wallet holds fails without mutating
// anything.
func (e *Exchange) Sell(session *Session, code string, amount decimal.Decimal) (t *Trade, err error) {
	entry := ActionEntry{Action: "sell", User: sessionName(session), Currency: NormalizeCode(code), Amount: amount, Base: e.cfg.BaseCurrency}
	defer func() { entry.Err = err; e.actions.Log(entry) }()

	user, err := e.sessionUser(session)
	if err != nil {
		return nil, err
	}
	entry.UserID = user.ID

	cur, err := e.catalog.Get(code)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount)
	}

	portfolios, err := e.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	p := portfolios[user.Username]
	if p == nil {
		p = NewPortfolio(user.Username)
		portfolios[user.Username] = p
	}

	rate, err := e.resolveRate(cur.Code, e.cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}
	entry.Rate = rate.Value

	asset := M(amount, cur.Code)
	proceeds := rate.Convert(asset)
	if err = p.Withdraw(asset); err != nil {
		return nil, err
	}
	if err = p.Deposit(proceeds); err != nil {
		return nil, err
	}
	if err = e.store.SavePortfolios(portfolios); err != nil {
		return nil, err
	}

	return &Trade{
		Action:       "sell",
		Username:     user.Username,
		Asset:        asset,
		Price:        rate,
		Cost:         proceeds,
		AssetBalance: p.Balance(cur.Code),
		BaseBalance:  p.Balance(e.cfg.BaseCurrency),
	}, nil
}

// Deposit credits a wallet directly, outside of any trade.
func (e *Exchange) Deposit(session *Session, code string, amount decimal.Decimal) (balance Money, err error) {
	entry := ActionEntry{Action: "deposit", User: sessionName(session), Currency: NormalizeCode(code), Amount: amount}
	defer func() { entry.Err = err; e.actions.Log(entry) }()

	user, err := e.sessionUser(session)
	if err != nil {
		return Money{}, err
	}
	entry.UserID = user.ID

	cur, err := e.catalog.Get(code)
	if err != nil {
		return Money{}, err
	}

	portfolios, err := e.store.LoadPortfolios()
	if err != nil {
		return Money{}, err
	}
	p := portfolios[user.Username]
	if p == nil {
		p = NewPortfolio(user.Username)
		portfolios[user.Username] = p
	}
	if err = p.Deposit(M(amount, cur.Code)); err != nil {
		return Money{}, err
	}
	if err = e.store.SavePortfolios(portfolios); err != nil {
		return Money{}, err
	}
	return p.Balance(cur.Code), nil
}

// Withdraw debits a wallet directly, outside of any trade.
func (e *Exchange) Withdraw(session *Session, code string, amount decimal.Decimal) (balance Money, err error) {
	entry := ActionEntry{Action: "withdraw", User: sessionName(session), Currency: NormalizeCode(code), Amount: amount}
	defer func() { entry.Err = err; e.actions.Log(entry) }()

	user, err := e.sessionUser(session)
	if err != nil {
		return Money{}, err
	}
	entry.UserID = user.ID

	cur, err := e.catalog.Get(code)
	if err != nil {
		return Money{}, err
	}

	portfolios, err := e.store.LoadPortfolios()
	if err != nil {
		return Money{}, err
	}
	p := portfolios[user.Username]
	if p == nil {
		p = NewPortfolio(user.Username)
		portfolios[user.Username] = p
	}
	if err = p.Withdraw(M(amount, cur.Code)); err != nil {
		return Money{}, err
	}
	if err = e.store.SavePortfolios(portfolios); err != nil {
		return Money{}, err
	}
	return p.Balance(cur.Code), nil
}

// Holding is one portfolio line, valued in the statement's base currency.
type Holding struct {
	Currency  Currency
	Balance   Money
	Value     Money // balance converted to the base
	Converted bool  // false when no rate could be resolved
}

// Statement is the displayable view of one portfolio. Building it never
// mutates any store: conversion is a presentation concern.
type Statement struct {
	Username string
	Base     string
	Holdings []Holding
	Total    Money
	AsOf     time.Time
}

// Statement values the session's portfolio in the given base currency,
// defaulting to the configured one.
func (e *Exchange) Statement(session *Session, base string) (*Statement, error) {
	user, err := e.sessionUser(session)
	if err != nil {
		return nil, err
	}

	if base == "" {
		base = e.cfg.BaseCurrency
	}
	baseCur, err := e.catalog.Get(base)
	if err != nil {
		return nil, err
	}

	portfolios, err := e.store.LoadPortfolios()
	if err != nil {
		return nil, err
	}
	p := portfolios[user.Username]
	if p == nil {
		p = NewPortfolio(user.Username)
	}

	rates, err := e.store.LoadRates()
	if err != nil {
		return nil, err
	}

	st := &Statement{Username: user.Username, Base: baseCur.Code, Total: M(0, baseCur.Code), AsOf: time.Now()}
	for _, code := range p.Codes() {
		cur, err := e.catalog.Get(code)
		if err != nil {
			// a stale wallet for a code no longer in the catalog still shows up
			cur = Currency{Code: code, Name: code, Kind: Fiat, Precision: 2}
		}
		h := Holding{Currency: cur, Balance: p.Balance(code)}
		if rate, err := rates.Resolve(code, baseCur.Code); err == nil {
			h.Value = rate.Convert(h.Balance)
			h.Converted = true
			st.Total = st.Total.Add(h.Value)
		}
		st.Holdings = append(st.Holdings, h)
	}
	return st, nil
}

// RateInfo is the answer to a single pair query: the rate and its reverse.
type RateInfo struct {
	Rate    Rate
	Reverse Rate
}

// RateInfo resolves a pair through the cache, falling back to the stub
// table. A stub answer is persisted so later listings show its source.
func (e *Exchange) RateInfo(from, to string) (info *RateInfo, err error) {
	entry := ActionEntry{Action: "get_rate", Details: NormalizeCode(from) + "_" + NormalizeCode(to)}
	defer func() { entry.Err = err; e.actions.Log(entry) }()

	fromCur, err := e.catalog.Get(from)
	if err != nil {
		return nil, err
	}
	toCur, err := e.catalog.Get(to)
	if err != nil {
		return nil, err
	}

	rate, err := e.resolveRate(fromCur.Code, toCur.Code)
	if err != nil {
		return nil, err
	}
	entry.Rate = rate.Value
	return &RateInfo{Rate: rate, Reverse: rate.Invert()}, nil
}

// resolveRate resolves through the cache and persists it when the stub
// table had to answer, so the LocalStub entry survives the process.
func (e *Exchange) resolveRate(from, to string) (Rate, error) {
	rates, err := e.store.LoadRates()
	if err != nil {
		return Rate{}, err
	}
	rate, err := rates.Resolve(from, to)
	if err != nil {
		return Rate{}, err
	}
	if rate.Source == SourceLocalStub {
		if err := e.store.SaveRates(rates); err != nil {
			return Rate{}, err
		}
	}
	return rate, nil
}

// RatesListing is the displayable view of the cache.
type RatesListing struct {
	Rates       []Rate
	LastRefresh time.Time
}

// Rates lists cached rates, optionally filtered to pairs touching a
// currency, to pairs quoted in a base, and truncated to the top n values.
func (e *Exchange) Rates(currency string, base string, top int) (*RatesListing, error) {
	cache, err := e.store.LoadRates()
	if err != nil {
		return nil, err
	}
	if cache.Len() == 0 {
		return nil, ErrEmptyCache
	}

	list := cache.Rates()
	if currency != "" {
		if _, err := e.catalog.Get(currency); err != nil {
			return nil, err
		}
		list = cache.ByCurrency(currency)
	}
	if base != "" {
		if _, err := e.catalog.Get(base); err != nil {
			return nil, err
		}
		code := NormalizeCode(base)
		filtered := list[:0:0]
		for _, r := range list {
			if r.To == code {
				filtered = append(filtered, r)
			}
		}
		list = filtered
	}
	if top > 0 {
		list = topByValue(list, top)
	}
	return &RatesListing{Rates: list, LastRefresh: cache.LastRefresh()}, nil
}

// UpdateRates runs the parser service once. Requires a wired updater.
func (e *Exchange) UpdateRates(ctx context.Context, source string) (report *UpdateReport, err error) {
	entry := ActionEntry{Action: "update_rates", Details: source}
	defer func() {
		if report != nil {
			entry.Details = fmt.Sprintf("fetched=%d updated=%d skipped=%d appended=%d failures=%d",
				report.Fetched, report.Updated, report.Skipped, report.Appended, len(report.Errors))
		}
		entry.Err = err
		e.actions.Log(entry)
	}()

	if e.updater == nil {
		return nil, fmt.Errorf("no rate providers wired")
	}
	return e.updater.RunOnce(ctx, source)
}

// PairHistory lists the recorded fetches for one pair, oldest first.
func (e *Exchange) PairHistory(pair string, since time.Time) ([]Record, error) {
	from, to, err := ParsePair(pair)
	if err != nil {
		return nil, err
	}
	history, err := e.store.LoadHistory()
	if err != nil {
		return nil, err
	}
	return history.Pair(from+"_"+to, since), nil
}

// PairSeries returns one pair's history as parallel time and value slices,
// ready for charting.
func (e *Exchange) PairSeries(pair string, since time.Time) ([]time.Time, []float64, error) {
	from, to, err := ParsePair(pair)
	if err != nil {
		return nil, nil, err
	}
	history, err := e.store.LoadHistory()
	if err != nil {
		return nil, nil, err
	}
	times, values := history.Series(from+"_"+to, since)
	return times, values, nil
}

// PairValueAsOf returns the pair's recorded rate at a given time, falling
// back to the most recent record before it.
func (e *Exchange) PairValueAsOf(pair string, at time.Time) (decimal.Decimal, error) {
	from, to, err := ParsePair(pair)
	if err != nil {
		return decimal.Decimal{}, err
	}
	history, err := e.store.LoadHistory()
	if err != nil {
		return decimal.Decimal{}, err
	}
	value, ok := history.ValueAsOf(from+"_"+to, at)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: nothing recorded for %s_%s on or before %s", ErrRateNotFound, from, to, at.Format(time.RFC3339))
	}
	return value, nil
}

// sessionName is the username for audit lines, tolerating a nil session.
func sessionName(s *Session) string {
	if s == nil {
		return ""
	}
	return s.Username
}

// userID tolerates the nil user of failed registrations and logins.
func userID(u *User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
