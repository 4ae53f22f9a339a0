package keys

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	DefaultKeyringService = "sprout"
	// TokenID names the integration token entry.
	TokenID = "notion.token"
)

// TokenStore keeps API secrets outside the config file.
type TokenStore interface {
	Get(id string) (string, error)
	Put(id, secret string) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// KeyringStore keeps secrets in the system keyring.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get(id string) (string, error) {
	val, err := keyring.Get(s.service(), id)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyNotFound
	}
	return val, err
}

func (s *KeyringStore) Put(id, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("empty secret")
	}
	return keyring.Set(s.service(), id, secret)
}

func (s *KeyringStore) Delete(id string) error {
	err := keyring.Delete(s.service(), id)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend appears supported.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_probe_")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveToken returns configured when set and otherwise the token kept
// in store. A missing or unreadable entry yields "".
func ResolveToken(configured string, store TokenStore) string {
	if tok := strings.TrimSpace(configured); tok != "" {
		return tok
	}
	if store == nil {
		return ""
	}
	tok, err := store.Get(TokenID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(tok)
}
