//go:build darwin

package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

type darwinKeyring struct{}

func newPlatformKeyring() Keyring {
	return &darwinKeyring{}
}

// GetToken retrieves the API token from macOS Keychain
func (k *darwinKeyring) GetToken() (string, error) {
	token, err := keyring.Get(ServiceName, TokenName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("API token not found in keychain: %w", err)
		}
		return "", fmt.Errorf("failed to retrieve token from keychain: %w", err)
	}

	if token == "" {
		return "", errors.New("API token is empty")
	}

	return token, nil
}

// SetToken stores the API token in macOS Keychain
func (k *darwinKeyring) SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	if err := keyring.Set(ServiceName, TokenName, token); err != nil {
		return fmt.Errorf("failed to store token in keychain: %w", err)
	}

	return nil
}

// DeleteToken removes the API token from macOS Keychain
func (k *darwinKeyring) DeleteToken() error {
	if err := keyring.Delete(ServiceName, TokenName); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("API token not found in keychain: %w", err)
		}
		return fmt.Errorf("failed to delete token from keychain: %w", err)
	}

	return nil
}

// IsAvailable reports whether a token is stored
func (k *darwinKeyring) IsAvailable() bool {
	token, err := keyring.Get(ServiceName, TokenName)
	return err == nil && token != ""
}
