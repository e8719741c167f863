package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements TokenStore using the MIRO_ACCESS_TOKEN
// environment variable. Read-only, mostly for CI and one-off runs.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token *Token) error {
	return ErrStoreUnavailable
}

// Retrieve gets the token from the environment
func (e *EnvironmentStore) Retrieve(name string) (*Token, error) {
	accessToken := os.Getenv("MIRO_ACCESS_TOKEN")
	if accessToken == "" {
		return nil, ErrTokenNotFound
	}

	// The environment carries no name, so use "default" unless one was asked for
	if name == "" {
		name = "default"
	}

	return &Token{
		Name:         name,
		AccessToken:  accessToken,
		LastModified: time.Now(),
	}, nil
}

// List returns a single token if the environment variable is set
func (e *EnvironmentStore) List() ([]*Token, error) {
	token, err := e.Retrieve("")
	if err != nil {
		return []*Token{}, nil
	}
	return []*Token{token}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment token is set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("MIRO_ACCESS_TOKEN") != ""
}
