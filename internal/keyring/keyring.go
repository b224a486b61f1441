package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/lifequest/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are stored for the profile
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials stores PostgreSQL connection strings in the OS keyring, one per profile.
type Credentials struct {
	service string
	profile string
}

// New returns credentials for the given profile. An empty profile uses the default account.
func New(profile string) *Credentials {
	return &Credentials{service: constants.AppName, profile: strings.TrimSpace(profile)}
}

func (c *Credentials) account() string {
	if c.profile == "" || c.profile == "default" {
		return constants.DefaultKeyringUser
	}
	return constants.DefaultKeyringUser + "/" + c.profile
}

// ConnectionString returns the stored connection string or ErrNotFound.
func (c *Credentials) ConnectionString() (string, error) {
	connStr, err := keyring.Get(c.service, c.account())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the connection string for the profile.
func (c *Credentials) SetConnectionString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(c.service, c.account(), connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored connection string.
func (c *Credentials) DeleteConnectionString() error {
	if err := keyring.Delete(c.service, c.account()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
