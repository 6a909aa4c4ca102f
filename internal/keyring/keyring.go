package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the given name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Names lists the secrets the CLI manages through `strivetrack keyring`.
var Names = []string{
	constants.DefaultKeyringUser,
	constants.KeyringBackendAnonKey,
	constants.KeyringCloudinaryURL,
	constants.KeyringJWTSecret,
}

// Get returns the secret stored under name.
func Get(name string) (string, error) {
	value, err := keyring.Get(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores value under name, replacing any previous secret.
func Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, name, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

func Delete(name string) error {
	if err := keyring.Delete(constants.AppName, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// Lookup returns the stored secret or fallback when the keyring has none or
// cannot be reached.
func Lookup(name, fallback string) string {
	value, err := Get(name)
	if err != nil {
		return fallback
	}
	return value
}

// SigningSecret returns the session signing secret, generating and storing a
// random one on first use.
func SigningSecret() ([]byte, error) {
	value, err := Get(constants.KeyringJWTSecret)
	if err == nil {
		return []byte(value), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	if err := Set(constants.KeyringJWTSecret, secret); err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	return Set(constants.DefaultKeyringUser, connStr)
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
