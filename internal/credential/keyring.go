package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/trainadmin/internal/model"
)

const (
	serviceName = "trainadmin"

	accessTokenKey  = "access-token"
	refreshTokenKey = "refresh-token"
)

// ErrNotFound is returned when no credential is stored under a key.
var ErrNotFound = keyring.ErrKeyNotFound

// Store persists the session tokens. The keyring-backed implementation is
// returned by Open; tests use NewMemory.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/trainadmin/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("trainadmin-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewMemory returns a Store that keeps credentials in memory only.
func NewMemory() *Store {
	return &Store{ring: keyring.NewArrayKeyring(nil)}
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key string, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// SaveTokens stores both tokens of a session.
func (s *Store) SaveTokens(tokens model.Tokens) error {
	if err := s.Set(accessTokenKey, tokens.AccessToken); err != nil {
		return err
	}
	return s.Set(refreshTokenKey, tokens.RefreshToken)
}

// LoadTokens returns the stored session. It returns ErrNotFound (wrapped)
// when the user never signed in or signed out.
func (s *Store) LoadTokens() (model.Tokens, error) {
	access, err := s.Get(accessTokenKey)
	if err != nil {
		return model.Tokens{}, err
	}
	refresh, err := s.Get(refreshTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// ClearTokens forgets the stored session.
func (s *Store) ClearTokens() error {
	if err := s.Delete(accessTokenKey); err != nil {
		return err
	}
	return s.Delete(refreshTokenKey)
}
