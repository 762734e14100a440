// Package auth holds the credential store and the login/signup flows.
// The store is explicit and injectable: commands construct one and pass
// it to whatever needs the token, so nothing reads ambient global state.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/sikshasathi/sathi/internal/sathi"
)

// ErrNoToken is returned when no access token has been stored yet.
var ErrNoToken = errors.New("no access token found, please login")

// credentials is the on-disk shape of the store.
type credentials struct {
	AccessToken string         `json:"access_token"`
	Profile     *sathi.Profile `json:"user_data,omitempty"`
}

// Store persists the access token and the cached profile to a JSON file.
// Written at login/signup success, read before every authenticated
// request, cleared on logout.
type Store struct {
	path string
}

// StateDir returns the directory where client-local state lives.
// If a config file is used, state sits in the same directory as the
// config file. Otherwise, defaults to $HOME/.config/sathi.
func StateDir() (string, error) {
	configFile := viper.ConfigFileUsed()

	if configFile != "" {
		configDir := filepath.Dir(configFile)
		if !filepath.IsAbs(configDir) {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to get current working directory: %w", err)
			}
			configDir = filepath.Join(cwd, configDir)
		}
		return configDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sathi"), nil
}

// NewStore creates a store backed by credentials.json in the state
// directory.
func NewStore() (*Store, error) {
	dir, err := StateDir()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(filepath.Join(dir, "credentials.json")), nil
}

// NewStoreAt creates a store backed by the given file. Tests use this to
// point the store at a temporary directory.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored access token, or ErrNoToken if none is stored.
func (s *Store) Token() (string, error) {
	creds, err := s.load()
	if err != nil {
		return "", err
	}
	if creds.AccessToken == "" {
		return "", ErrNoToken
	}
	return creds.AccessToken, nil
}

// SaveToken writes the access token, preserving any cached profile.
func (s *Store) SaveToken(token string) error {
	creds, err := s.load()
	if err != nil && !errors.Is(err, ErrNoToken) {
		return err
	}
	creds.AccessToken = token
	return s.write(creds)
}

// Profile returns the cached profile, or nil if none was stored.
func (s *Store) Profile() (*sathi.Profile, error) {
	creds, err := s.load()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil, nil
		}
		return nil, err
	}
	return creds.Profile, nil
}

// SaveProfile caches the profile next to the token.
func (s *Store) SaveProfile(p *sathi.Profile) error {
	creds, err := s.load()
	if err != nil && !errors.Is(err, ErrNoToken) {
		return err
	}
	creds.Profile = p
	return s.write(creds)
}

// Clear removes the credentials file. Logging out when already logged
// out is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

func (s *Store) load() (credentials, error) {
	var creds credentials
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, ErrNoToken
		}
		return creds, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return creds, nil
}

func (s *Store) write(creds credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	// Token is a secret, keep the file private.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
