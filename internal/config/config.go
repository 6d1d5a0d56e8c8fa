// Package config loads client configuration from the environment and an
// optional .env file, and persists the auth token between sessions.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when MENTORA_API_URL is not set.
const DefaultAPIURL = "http://localhost:8000"

// Config holds everything the client needs to reach the backend.
type Config struct {
	// APIURL is the backend base URL.
	APIURL string

	// Token is the bearer token, from MENTORA_TOKEN or the token file.
	Token string

	// MentorID preselects a mentor for chat commands.
	MentorID string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
}

// Load reads configuration from the environment, after loading a .env
// file from the working directory when one exists. A token stored via
// TokenStore is used when MENTORA_TOKEN is not set.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars win either way.
	godotenv.Load()

	cfg := &Config{
		APIURL:   getEnv("MENTORA_API_URL", DefaultAPIURL),
		Token:    os.Getenv("MENTORA_TOKEN"),
		MentorID: os.Getenv("MENTORA_MENTOR"),
		Timeout:  getEnvAsDuration("MENTORA_TIMEOUT", 30*time.Second),
	}

	if cfg.Token == "" {
		dir, err := DefaultDir()
		if err == nil {
			if token, err := NewTokenStore(dir).Load(); err == nil {
				cfg.Token = token
			}
		}
	}

	return cfg, nil
}

// DefaultDir returns the per-user state directory (~/.mentora).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mentora"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

const credentialsFileName = "credentials.json"

// credentials is the on-disk token file shape.
type credentials struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// TokenStore persists the auth token under a state directory.
type TokenStore struct {
	dir string
}

// NewTokenStore creates a token store rooted at dir.
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// Save writes the token with an atomic rename so a crash never leaves a
// truncated credentials file.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(credentials{
		AccessToken: token,
		SavedAt:     time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	path := filepath.Join(s.dir, credentialsFileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write credentials temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename credentials file: %w", err)
	}
	return nil
}

// Load reads the stored token.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, credentialsFileName))
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	return creds.AccessToken, nil
}

// Clear removes the stored token. Missing file is not an error.
func (s *TokenStore) Clear() error {
	err := os.Remove(filepath.Join(s.dir, credentialsFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
