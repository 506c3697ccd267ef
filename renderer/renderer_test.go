package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirilldublin/valutatrade"
)

func TestRenderStatement(t *testing.T) {
	valutatrade.DefaultCatalog()
	st := &valutatrade.Statement{
		Username: "alice",
		Base:     "USD",
		AsOf:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Holdings: []valutatrade.Holding{
			{
				Currency:  valutatrade.Currency{Code: "BTC", Name: "Bitcoin", Kind: valutatrade.Crypto, Precision: 8},
				Balance:   valutatrade.M(0.01, "BTC"),
				Value:     valutatrade.M(500, "USD"),
				Converted: true,
			},
			{
				Currency: valutatrade.Currency{Code: "SOL", Name: "Solana", Kind: valutatrade.Crypto, Precision: 8},
				Balance:  valutatrade.M(2, "SOL"),
			},
			{
				Currency:  valutatrade.Currency{Code: "USD", Name: "US Dollar", Kind: valutatrade.Fiat, Precision: 2},
				Balance:   valutatrade.M(1000, "USD"),
				Value:     valutatrade.M(1000, "USD"),
				Converted: true,
			},
		},
		Total: valutatrade.M(1500, "USD"),
	}

	got := RenderStatement(NewStatement(st))
	want := `# Portfolio of alice

Valued in USD on 2025-06-01 12:00:00

| Currency | Kind | Balance | Value |
|:---|:---|---:|---:|
| BTC (Bitcoin) | crypto | ₿0.01000000 | $500.00 |
| SOL (Solana) | crypto | ◎2.00000000 | n/a |
| USD (US Dollar) | fiat | $1,000.00 | $1,000.00 |
| **Total** | | | **$1,500.00** |

1 holding(s) have no cached rate and are left out of the total.
`
	if got != want {
		t.Errorf("RenderStatement() mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatementEmpty(t *testing.T) {
	st := &valutatrade.Statement{
		Username: "bob",
		Base:     "USD",
		AsOf:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Total:    valutatrade.M(0, "USD"),
	}

	got := RenderStatement(NewStatement(st))
	want := `# Portfolio of bob

Valued in USD on 2025-06-01 12:00:00

The portfolio is empty. Deposit funds to start trading.
`
	if got != want {
		t.Errorf("RenderStatement() mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderTrade(t *testing.T) {
	valutatrade.DefaultCatalog()
	price := valutatrade.Rate{
		From:      "BTC",
		To:        "USD",
		Value:     decimal.NewFromInt(50000),
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:    valutatrade.SourceCoinGecko,
	}

	testCases := []struct {
		name  string
		trade *valutatrade.Trade
		want  string
	}{
		{
			name: "buy",
			trade: &valutatrade.Trade{
				Action:       "buy",
				Username:     "alice",
				Asset:        valutatrade.M(0.01, "BTC"),
				Price:        price,
				Cost:         valutatrade.M(500, "USD"),
				AssetBalance: valutatrade.M(0.01, "BTC"),
				BaseBalance:  valutatrade.M(500, "USD"),
			},
			want: `# Bought ₿0.01000000

Paid **$500.00** at 1 BTC = $50,000.00.

| Wallet | Balance |
|:---|---:|
| BTC | ₿0.01000000 |
| USD | $500.00 |
`,
		},
		{
			name: "sell",
			trade: &valutatrade.Trade{
				Action:       "sell",
				Username:     "alice",
				Asset:        valutatrade.M(0.005, "BTC"),
				Price:        price,
				Cost:         valutatrade.M(250, "USD"),
				AssetBalance: valutatrade.M(0.005, "BTC"),
				BaseBalance:  valutatrade.M(750, "USD"),
			},
			want: `# Sold ₿0.00500000

Credited **$250.00** at 1 BTC = $50,000.00.

| Wallet | Balance |
|:---|---:|
| BTC | ₿0.00500000 |
| USD | $750.00 |
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenderTrade(NewTrade(tc.trade)); got != tc.want {
				t.Errorf("RenderTrade() mismatch:\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestRenderFunding(t *testing.T) {
	testCases := []struct {
		name    string
		action  string
		amount  valutatrade.Money
		balance valutatrade.Money
		want    string
	}{
		{
			name:    "deposit",
			action:  "deposit",
			amount:  valutatrade.M(100, "USD"),
			balance: valutatrade.M(1100, "USD"),
			want: `# Deposited $100.00

| Wallet | Balance |
|:---|---:|
| USD | $1,100.00 |
`,
		},
		{
			name:    "withdraw",
			action:  "withdraw",
			amount:  valutatrade.M(50, "USD"),
			balance: valutatrade.M(1050, "USD"),
			want: `# Withdrew $50.00

| Wallet | Balance |
|:---|---:|
| USD | $1,050.00 |
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenderFunding(NewFunding(tc.action, tc.amount, tc.balance)); got != tc.want {
				t.Errorf("RenderFunding() mismatch:\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestRatesMarkdown(t *testing.T) {
	listing := &valutatrade.RatesListing{
		Rates: []valutatrade.Rate{
			{From: "BTC", To: "USD", Value: decimal.NewFromFloat(59337.21), UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), Source: valutatrade.SourceCoinGecko},
			{From: "EUR", To: "USD", Value: decimal.NewFromFloat(1.0786), UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), Source: valutatrade.SourceExchangeRate},
		},
		LastRefresh: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
	}

	got := RatesMarkdown(listing)
	for _, want := range []string{
		"# Exchange Rates",
		"Last refresh: 2025-06-01 12:05:00",
		"BTC_USD",
		"59337.21",
		"EUR_USD",
		"1.0786",
		"CoinGecko",
		"ExchangeRate-API",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RatesMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestRatesMarkdownNoRefresh(t *testing.T) {
	listing := &valutatrade.RatesListing{
		Rates: []valutatrade.Rate{
			{From: "BTC", To: "USD", Value: decimal.NewFromInt(50000), UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), Source: valutatrade.SourceLocalStub},
		},
	}

	if got := RatesMarkdown(listing); strings.Contains(got, "Last refresh") {
		t.Errorf("RatesMarkdown() should omit the refresh line when it never ran:\n%s", got)
	}
}

func TestRateMarkdown(t *testing.T) {
	valutatrade.DefaultCatalog()
	rate := valutatrade.Rate{
		From:      "BTC",
		To:        "USD",
		Value:     decimal.NewFromInt(50000),
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:    valutatrade.SourceCoinGecko,
	}
	info := &valutatrade.RateInfo{Rate: rate, Reverse: rate.Invert()}

	got := RateMarkdown(info)
	for _, want := range []string{
		"# Rate BTC_USD",
		"**1 BTC = $50,000.00**",
		"Reverse: 1 USD = ₿0.00002000",
		"Source: CoinGecko, updated 2025-06-01 12:00:00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RateMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestUpdateMarkdown(t *testing.T) {
	report := &valutatrade.UpdateReport{Fetched: 4, Updated: 3, Skipped: 1, Appended: 4}

	got := UpdateMarkdown(report)
	for _, want := range []string{"# Rates Update", "Quotes fetched", "Cache entries updated", "History records appended"} {
		if !strings.Contains(got, want) {
			t.Errorf("UpdateMarkdown() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Provider Failures") {
		t.Errorf("UpdateMarkdown() should omit the failures section on a clean run:\n%s", got)
	}
}

func TestUpdateMarkdownFailures(t *testing.T) {
	report := &valutatrade.UpdateReport{Fetched: 2, Updated: 2, Appended: 2, Errors: []error{errBoom}}

	got := UpdateMarkdown(report)
	if !strings.Contains(got, "Provider Failures") || !strings.Contains(got, "boom") {
		t.Errorf("UpdateMarkdown() missing failures section in:\n%s", got)
	}
}

var errBoom = errorString("boom")

type errorString string

func (e errorString) Error() string { return string(e) }

func TestHistoryMarkdown(t *testing.T) {
	records := []valutatrade.Record{
		{
			From: "BTC", To: "USD",
			Value:     decimal.NewFromInt(50000),
			Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Source:    valutatrade.SourceCoinGecko,
			Meta:      valutatrade.FetchMeta{RequestMS: 12, StatusCode: 200},
		},
		{
			From: "BTC", To: "USD",
			Value:     decimal.NewFromInt(51000),
			Timestamp: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
			Source:    valutatrade.SourceCoinGecko,
			Meta:      valutatrade.FetchMeta{RequestMS: 9, StatusCode: 200},
		},
	}

	got := HistoryMarkdown("BTC_USD", records)
	for _, want := range []string{
		"# History for BTC_USD",
		"2025-06-01 12:00:00",
		"2025-06-01 12:05:00",
		"50000",
		"51000",
		"12ms/200",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HistoryMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestHistoryMarkdownEmpty(t *testing.T) {
	got := HistoryMarkdown("SOL_USD", nil)
	if !strings.Contains(got, "No recorded fetches") {
		t.Errorf("HistoryMarkdown() missing empty notice in:\n%s", got)
	}
}

func TestCurrenciesMarkdown(t *testing.T) {
	got := CurrenciesMarkdown(valutatrade.DefaultCatalog())
	for _, want := range []string{
		"# Currencies",
		"## Fiat",
		"| USD | US Dollar | United States |",
		"## Crypto",
		"| BTC | Bitcoin | SHA-256 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CurrenciesMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestCurrenciesMarkdownSkipsEmptySections(t *testing.T) {
	fiatOnly := valutatrade.NewCatalog(
		valutatrade.Currency{Code: "USD", Name: "US Dollar", Kind: valutatrade.Fiat, Precision: 2, IssuingCountry: "United States"},
	)
	if got := CurrenciesMarkdown(fiatOnly); strings.Contains(got, "## Crypto") {
		t.Errorf("CurrenciesMarkdown() should omit the crypto section:\n%s", got)
	}

	cryptoOnly := valutatrade.NewCatalog(
		valutatrade.Currency{Code: "BTC", Name: "Bitcoin", Kind: valutatrade.Crypto, Precision: 8},
	)
	if got := CurrenciesMarkdown(cryptoOnly); strings.Contains(got, "## Fiat") {
		t.Errorf("CurrenciesMarkdown() should omit the fiat section:\n%s", got)
	}
}

func TestMarketCap(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{999, "999"},
		{3400000, "3.4M"},
		{2500000000, "2.5B"},
		{1171000000000, "1.2T"},
	}
	for _, tc := range testCases {
		if got := marketCap(tc.in); got != tc.want {
			t.Errorf("marketCap(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHistoryChartPNG(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC),
	}
	values := []float64{50000, 51000, 50500}

	png, err := HistoryChartPNG("BTC_USD", times, values)
	if err != nil {
		t.Fatalf("HistoryChartPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("HistoryChartPNG() did not produce a PNG, got leading bytes %q", png[:min(8, len(png))])
	}
}

func TestHistoryChartPNGTooFewPoints(t *testing.T) {
	_, err := HistoryChartPNG("BTC_USD", []time.Time{time.Now()}, []float64{50000})
	if err == nil || !strings.Contains(err.Error(), "at least 2") {
		t.Fatalf("HistoryChartPNG() error = %v, want too-few-points error", err)
	}
}
