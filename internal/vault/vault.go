// internal/vault/vault.go
package vault

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zalando/go-keyring"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

// CredentialManager handles secure storage of API keys
type CredentialManager struct {
	service  string
	fallback *fileStore
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager(configDir, service string) (*CredentialManager, error) {
	if service == "" {
		return nil, fmt.Errorf("credential service name is required")
	}
	return &CredentialManager{
		service:  service,
		fallback: newFileStore(filepath.Join(configDir, "credentials.enc"), defaultPassphrase()),
	}, nil
}

// Store securely stores an API token
func (cm *CredentialManager) Store(account, token string) error {
	// Try system keychain first
	err := keyring.Set(cm.service, account, token)
	if err == nil {
		// A stale copy in the file would shadow a later keychain delete
		_ = cm.fallback.delete(account)
		return nil
	}

	if err := cm.fallback.store(account, token); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCredentialAccess, err)
	}
	return nil
}

// Retrieve returns the stored token or ErrAPIKeyMissing
func (cm *CredentialManager) Retrieve(account string) (string, error) {
	token, err := keyring.Get(cm.service, account)
	if err == nil && token != "" {
		return token, nil
	}

	token, err = cm.fallback.retrieve(account)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrCredentialAccess, err)
	}
	if token == "" {
		return "", apperrors.ErrAPIKeyMissing
	}
	return token, nil
}

// Delete removes the token from every backend. Deleting a missing token is
// not an error.
func (cm *CredentialManager) Delete(account string) error {
	var errs []error

	if err := keyring.Delete(cm.service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		errs = append(errs, err)
	}
	if err := cm.fallback.delete(account); err != nil {
		errs = append(errs, err)
	}

	// The keychain may simply be unavailable; that only matters if the
	// file could not be cleaned either.
	if len(errs) == 2 {
		return fmt.Errorf("%w: %v", apperrors.ErrCredentialAccess, errors.Join(errs...))
	}
	return nil
}
