//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
)

type fallbackKeyring struct{}

func newPlatformKeyring() Keyring {
	return &fallbackKeyring{}
}

// GetToken retrieves the API token from the OPSDESK_API_TOKEN environment variable
func (k *fallbackKeyring) GetToken() (string, error) {
	token := os.Getenv("OPSDESK_API_TOKEN")
	if token == "" {
		return "", errors.New("OPSDESK_API_TOKEN environment variable not set")
	}

	return token, nil
}

// SetToken returns an error suggesting to set the environment variable
func (k *fallbackKeyring) SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	return fmt.Errorf("keyring not available on this platform: please set OPSDESK_API_TOKEN environment variable to '%s'", token)
}

// DeleteToken returns an error suggesting to unset the environment variable
func (k *fallbackKeyring) DeleteToken() error {
	return errors.New("keyring not available on this platform: please unset OPSDESK_API_TOKEN environment variable manually")
}

// IsAvailable checks if the OPSDESK_API_TOKEN environment variable is set
func (k *fallbackKeyring) IsAvailable() bool {
	return os.Getenv("OPSDESK_API_TOKEN") != ""
}
