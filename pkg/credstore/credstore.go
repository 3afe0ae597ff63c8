// Package credstore stores push-delivery credentials in the operating
// system's native keyring service, with automatic fallback to file-based
// storage when no keyring is available (headless servers, containers).
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	appName   = "ckzvault"
	credField = "push"
)

// ErrNotFound is returned when no credentials have been saved yet.
var ErrNotFound = errors.New("credstore: credentials not found")

// Credentials holds everything the push sink needs to deliver a backup to a
// chat bot. Token is the bot API token, ChatID the destination conversation.
type Credentials struct {
	Token  string `json:"token"`
	ChatID string `json:"chatId"`
	// Proxy is an optional proxy URL (socks5:// or http://) the push client
	// dials through.
	Proxy string `json:"proxy,omitempty"`
}

// Validate reports whether the credentials are usable for delivery.
func (c Credentials) Validate() error {
	if c.Token == "" {
		return errors.New("credstore: token is required")
	}
	if c.ChatID == "" {
		return errors.New("credstore: chat id is required")
	}
	return nil
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// Store persists and retrieves push credentials. The zero value is not
// usable; construct with New.
type Store struct {
	fallback *FileStore
}

// New creates a store backed by the system keyring, falling back to a
// 0600-permission file under configDir when the keyring is unavailable.
func New(configDir string) *Store {
	return &Store{fallback: NewFileStore(configDir)}
}

// Save writes the credentials, preferring the keyring. A keyring failure
// silently degrades to the file fallback.
func (s *Store) Save(c Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("credstore: encode: %w", err)
	}
	if err := keyringSet(appName, credField, string(data)); err == nil {
		// A stale file copy must not shadow the keyring entry.
		s.fallback.Delete()
		return nil
	}
	return s.fallback.Save(data)
}

// Load retrieves the credentials, checking the keyring first and the file
// fallback second. Returns ErrNotFound when neither has an entry.
func (s *Store) Load() (Credentials, error) {
	raw, err := keyringGet(appName, credField)
	if err != nil {
		data, ferr := s.fallback.Load()
		if ferr != nil {
			return Credentials{}, ErrNotFound
		}
		raw = string(data)
	}

	var c Credentials
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Credentials{}, fmt.Errorf("credstore: decode: %w", err)
	}
	return c, nil
}

// Delete removes the credentials from both backends. Missing entries are not
// an error.
func (s *Store) Delete() error {
	kerr := keyringDelete(appName, credField)
	if errors.Is(kerr, keyring.ErrNotFound) {
		kerr = nil
	}
	ferr := s.fallback.Delete()
	if kerr != nil {
		return kerr
	}
	return ferr
}
