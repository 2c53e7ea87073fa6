package auth

import (
	"os"
	"time"
)

// TokenEnv is the environment variable holding the access token
const TokenEnv = "VK_TOKEN"

// legacyTokenEnv is also honoured for older setups
const legacyTokenEnv = "VK_API_TOKEN"

// EnvironmentStore implements CredentialStore over the environment. It is
// read only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func envToken() string {
	if token := os.Getenv(TokenEnv); token != "" {
		return token
	}
	return os.Getenv(legacyTokenEnv)
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment token under name, or "env" when empty
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	token := envToken()
	if token == "" {
		return nil, ErrCredentialsNotFound
	}
	if name == "" {
		name = "env"
	}

	return &Account{
		Name:         name,
		AccessToken:  token,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if the token is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment token is set
func (e *EnvironmentStore) Exists(name string) bool {
	return envToken() != ""
}
