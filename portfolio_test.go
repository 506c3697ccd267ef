package valutatrade

import (
	"errors"
	"testing"
)

func TestPortfolio_Deposit(t *testing.T) {
	p := NewPortfolio("alice")

	if err := p.Deposit(USD(100)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if got, want := p.Balance("USD"), USD(100); !got.Equal(want) {
		t.Errorf("Balance(USD) = %v, want %v", got, want)
	}

	// second deposit accumulates
	if err := p.Deposit(USD(50.5)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if got, want := p.Balance("USD"), USD(150.5); !got.Equal(want) {
		t.Errorf("Balance(USD) = %v, want %v", got, want)
	}

	// a wallet exists only after its first deposit
	if p.Has("BTC") {
		t.Error("Has(BTC) = true before any deposit")
	}
	if err := p.Deposit(BTC(0.5)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if !p.Has("BTC") {
		t.Error("Has(BTC) = false after deposit")
	}

	if err := p.Deposit(USD(0)); !errors.Is(err, ErrValidation) {
		t.Errorf("Deposit(zero) error = %v, want ErrValidation", err)
	}
	if err := p.Deposit(USD(-1)); !errors.Is(err, ErrValidation) {
		t.Errorf("Deposit(negative) error = %v, want ErrValidation", err)
	}
}

func TestPortfolio_Withdraw(t *testing.T) {
	p := NewPortfolio("alice")
	if err := p.Deposit(USD(100)); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	if err := p.Withdraw(USD(40)); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if got, want := p.Balance("USD"), USD(60); !got.Equal(want) {
		t.Errorf("Balance(USD) = %v, want %v", got, want)
	}

	t.Run("Insufficient funds leaves the wallet untouched", func(t *testing.T) {
		err := p.Withdraw(USD(1000))
		var insufficient *InsufficientFundsError
		if !errors.As(err, &insufficient) {
			t.Fatalf("Withdraw() error = %v, want *InsufficientFundsError", err)
		}
		if !insufficient.Available.Equal(USD(60)) || !insufficient.Required.Equal(USD(1000)) {
			t.Errorf("InsufficientFundsError = %v, want available $60 required $1000", insufficient)
		}
		if got, want := p.Balance("USD"), USD(60); !got.Equal(want) {
			t.Errorf("Balance(USD) = %v, want %v after failed withdraw", got, want)
		}
	})

	t.Run("Missing wallet reports zero available", func(t *testing.T) {
		err := p.Withdraw(BTC(0.1))
		var insufficient *InsufficientFundsError
		if !errors.As(err, &insufficient) {
			t.Fatalf("Withdraw() error = %v, want *InsufficientFundsError", err)
		}
		if !insufficient.Available.IsZero() {
			t.Errorf("Available = %v, want zero for missing wallet", insufficient.Available)
		}
	})

	t.Run("Withdrawing everything keeps the empty wallet", func(t *testing.T) {
		if err := p.Withdraw(USD(60)); err != nil {
			t.Fatalf("Withdraw() error = %v", err)
		}
		if !p.Has("USD") {
			t.Error("Has(USD) = false, want true for an emptied wallet")
		}
		if !p.Balance("USD").IsZero() {
			t.Errorf("Balance(USD) = %v, want zero", p.Balance("USD"))
		}
	})
}

func TestPortfolio_Codes(t *testing.T) {
	p := NewPortfolio("alice")
	for _, m := range []Money{USD(1), BTC(1), EUR(1)} {
		if err := p.Deposit(m); err != nil {
			t.Fatalf("Deposit() error = %v", err)
		}
	}

	want := []string{"BTC", "EUR", "USD"}
	got := p.Codes()
	if len(got) != len(want) {
		t.Fatalf("Codes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Codes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
