package valutatrade

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the codecs for the account stores: users.json and
// portfolios.json. Each store is a whole JSON document, written with a fixed
// field order so diffs stay readable, and read through small throwaway
// structs with tag annotations.

// stampFormat is how every timestamp is persisted.
const stampFormat = time.RFC3339

// encodeDoc indents a finished JSON document and terminates it with a newline.
func encodeDoc(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteString("\n")
	_, err := buf.WriteTo(w)
	return err
}

// EncodeUsers writes the users collection as a JSON array.
func EncodeUsers(w io.Writer, users *Users) error {
	list := make([]json.RawMessage, 0, users.Len())
	for _, u := range users.All() {
		var jw jsonObjectWriter
		jw.Append("id", u.ID)
		jw.Append("username", u.Username)
		jw.Append("password_hash", u.PasswordHash)
		jw.Append("registered_at", u.RegisteredAt.UTC().Format(stampFormat))
		raw, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding user %q: %w", u.Username, err)
		}
		list = append(list, raw)
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return encodeDoc(w, raw)
}

// DecodeUsers reads a users.json document.
func DecodeUsers(r io.Reader) (*Users, error) {
	// to parse a json, we use a dedicated local struct with tag annotation.
	type juser struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		PasswordHash string `json:"password_hash"`
		RegisteredAt string `json:"registered_at"`
	}

	var list []juser
	if err := decodeDoc(r, &list); err != nil {
		return nil, fmt.Errorf("format error in users store: %w", err)
	}

	users := NewUsers()
	for _, ju := range list {
		at, err := time.Parse(stampFormat, ju.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("format error in users store: user %q has invalid registered_at %q: %w", ju.Username, ju.RegisteredAt, err)
		}
		if err := users.Add(&User{
			ID:           ju.ID,
			Username:     ju.Username,
			PasswordHash: ju.PasswordHash,
			RegisteredAt: at,
		}); err != nil {
			return nil, fmt.Errorf("format error in users store: %w", err)
		}
	}
	return users, nil
}

// EncodePortfolios writes all portfolios keyed by username, balances by code.
func EncodePortfolios(w io.Writer, portfolios map[string]*Portfolio) error {
	usernames := make([]string, 0, len(portfolios))
	for username := range portfolios {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	var jw jsonObjectWriter
	for _, username := range usernames {
		p := portfolios[username]
		var pw jsonObjectWriter
		for _, code := range p.Codes() {
			pw.Append(code, p.Balance(code).Decimal())
		}
		raw, err := pw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding portfolio %q: %w", username, err)
		}
		jw.Append(username, json.RawMessage(raw))
	}
	raw, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	return encodeDoc(w, raw)
}

// DecodePortfolios reads a portfolios.json document.
func DecodePortfolios(r io.Reader) (map[string]*Portfolio, error) {
	var doc map[string]map[string]decimal.Decimal
	if err := decodeDoc(r, &doc); err != nil {
		return nil, fmt.Errorf("format error in portfolios store: %w", err)
	}

	portfolios := make(map[string]*Portfolio, len(doc))
	for username, balances := range doc {
		p := NewPortfolio(username)
		for code, balance := range balances {
			code = NormalizeCode(code)
			if err := ValidateCode(code); err != nil {
				return nil, fmt.Errorf("format error in portfolios store: portfolio %q: %w", username, err)
			}
			if balance.IsNegative() {
				return nil, fmt.Errorf("format error in portfolios store: portfolio %q has negative %s balance", username, code)
			}
			p.set(M(balance, code))
		}
		portfolios[username] = p
	}
	return portfolios, nil
}

// decodeDoc parses a whole JSON document, accepting an empty stream as empty data.
func decodeDoc(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
