package valutatrade

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sessions make one-shot commands stateful: login signs a token, writes it to
// the session file, and every trading command reads it back. The signing
// secret lives next to the data files and is generated on first use.

const sessionIssuer = "vtrade"

// Session identifies the logged-in user across command invocations.
type Session struct {
	UserID   string
	Username string
}

// sessionClaims is the token payload.
type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewSessionToken signs a session for the user, valid for ttl.
func NewSessionToken(user *User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken validates a token's signature and expiry and returns the
// session it carries. Any failure, including expiry, comes back as ErrNotLoggedIn.
func ParseSessionToken(tokenString string, secret []byte) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Don't forget to validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: session expired or invalid, run 'login' again", ErrNotLoggedIn)
	}
	return &Session{UserID: claims.Subject, Username: claims.Username}, nil
}

// SaveSessionFile stores the signed token for later invocations.
func SaveSessionFile(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create session dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}
	return nil
}

// LoadSessionFile reads the stored token. A missing file means ErrNotLoggedIn.
func LoadSessionFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: run 'login' first", ErrNotLoggedIn)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearSessionFile removes the stored token. Clearing a missing file is fine.
func ClearSessionFile(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot clear session: %w", err)
	}
	return nil
}

// LoadOrCreateSecret returns the token signing secret, creating a random one
// on first use.
func LoadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return []byte(strings.TrimSpace(string(data))), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read secret file: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("cannot generate secret: %w", err)
	}
	secret := hex.EncodeToString(raw)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create secret dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("cannot save secret: %w", err)
	}
	return []byte(secret), nil
}
