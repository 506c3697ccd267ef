package valutatrade

import (
	"fmt"
	"sort"
)

// Portfolio holds one user's wallets, keyed by currency code.
// Balances never go negative; the only mutations are Deposit and Withdraw.
type Portfolio struct {
	username string
	wallets  map[string]Money
}

// NewPortfolio creates an empty portfolio for a user.
func NewPortfolio(username string) *Portfolio {
	return &Portfolio{username: username, wallets: make(map[string]Money)}
}

// Username returns the owning username.
func (p *Portfolio) Username() string { return p.username }

// Has reports whether a wallet exists for the code, even with a zero balance.
func (p *Portfolio) Has(code string) bool {
	_, ok := p.wallets[NormalizeCode(code)]
	return ok
}

// Balance returns the wallet balance for a code, or zero Money in that
// currency when no wallet exists.
func (p *Portfolio) Balance(code string) Money {
	code = NormalizeCode(code)
	if m, ok := p.wallets[code]; ok {
		return m
	}
	return M(0, code)
}

// Codes returns the wallet codes in alphabetical order.
func (p *Portfolio) Codes() []string {
	codes := make([]string, 0, len(p.wallets))
	for code := range p.wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Deposit credits the wallet for amount's currency, creating it on first use.
func (p *Portfolio) Deposit(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount.Decimal())
	}
	code := amount.Currency()
	p.wallets[code] = p.Balance(code).Add(amount)
	return nil
}

// Withdraw debits the wallet for amount's currency.
// It fails with *InsufficientFundsError when the balance cannot cover it,
// leaving the portfolio untouched.
func (p *Portfolio) Withdraw(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount.Decimal())
	}
	code := amount.Currency()
	balance := p.Balance(code)
	if balance.LessThan(amount) {
		return &InsufficientFundsError{Code: code, Available: balance, Required: amount}
	}
	p.wallets[code] = balance.Sub(amount)
	return nil
}

// set installs a balance directly, for decoding only.
func (p *Portfolio) set(amount Money) {
	p.wallets[amount.Currency()] = amount
}
