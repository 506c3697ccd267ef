package valutatrade

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store owns the JSON files under the data dir. Every load reads the whole
// file and every save rewrites it through a temp file and a rename, so a
// crash can never leave a half-written store behind. Last writer wins.
type Store struct {
	cfg *Config
}

// NewStore creates a store over the config's file paths.
func NewStore(cfg *Config) *Store { return &Store{cfg: cfg} }

// LoadUsers reads users.json, returning an empty collection when the file
// does not exist yet.
func (s *Store) LoadUsers() (*Users, error) {
	users := NewUsers()
	err := s.read(s.cfg.UsersFile, func(r io.Reader) error {
		u, err := DecodeUsers(r)
		if err != nil {
			return err
		}
		users = u
		return nil
	})
	return users, err
}

// SaveUsers rewrites users.json.
func (s *Store) SaveUsers(users *Users) error {
	return s.write(s.cfg.UsersFile, func(w io.Writer) error {
		return EncodeUsers(w, users)
	})
}

// LoadPortfolios reads portfolios.json, empty when the file does not exist.
func (s *Store) LoadPortfolios() (map[string]*Portfolio, error) {
	portfolios := make(map[string]*Portfolio)
	err := s.read(s.cfg.PortfoliosFile, func(r io.Reader) error {
		p, err := DecodePortfolios(r)
		if err != nil {
			return err
		}
		portfolios = p
		return nil
	})
	return portfolios, err
}

// SavePortfolios rewrites portfolios.json.
func (s *Store) SavePortfolios(portfolios map[string]*Portfolio) error {
	return s.write(s.cfg.PortfoliosFile, func(w io.Writer) error {
		return EncodePortfolios(w, portfolios)
	})
}

// LoadRates reads rates.json into a cache with the config's ttl, empty when
// the file does not exist.
func (s *Store) LoadRates() (*RateCache, error) {
	cache := NewRateCache(s.cfg.RatesTTL)
	err := s.read(s.cfg.RatesFile, func(r io.Reader) error {
		c, err := DecodeRates(r, s.cfg.RatesTTL)
		if err != nil {
			return err
		}
		cache = c
		return nil
	})
	return cache, err
}

// SaveRates rewrites rates.json.
func (s *Store) SaveRates(cache *RateCache) error {
	return s.write(s.cfg.RatesFile, func(w io.Writer) error {
		return EncodeRates(w, cache)
	})
}

// LoadHistory reads exchange_rates.json, empty when the file does not exist.
func (s *Store) LoadHistory() (*History, error) {
	history := NewHistory()
	err := s.read(s.cfg.HistoryFile, func(r io.Reader) error {
		h, err := DecodeHistory(r)
		if err != nil {
			return err
		}
		history = h
		return nil
	})
	return history, err
}

// SaveHistory rewrites exchange_rates.json.
func (s *Store) SaveHistory(h *History) error {
	return s.write(s.cfg.HistoryFile, func(w io.Writer) error {
		return EncodeHistory(w, h)
	})
}

// LoadCatalog returns the currency catalog: the built-in one, or the
// currencies file when the config names one.
func (s *Store) LoadCatalog() (*Catalog, error) {
	if s.cfg.CurrenciesFile == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(s.cfg.CurrenciesFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open currencies file %q: %w", s.cfg.CurrenciesFile, err)
	}
	defer f.Close()
	currencies, err := DecodeCurrencies(f)
	if err != nil {
		return nil, err
	}
	return NewCatalog(currencies...), nil
}

// read opens the file and decodes it. A missing file decodes to nothing,
// leaving the caller's empty value in place.
func (s *Store) read(path string, decode func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open %q for reading: %w", path, err)
	}
	defer f.Close()
	return decode(f)
}

// write encodes into a temp file next to path and renames it into place.
func (s *Store) write(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create data dir %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temp file for %q: %w", path, err)
	}
	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot close temp file for %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot replace %q: %w", path, err)
	}
	return nil
}
