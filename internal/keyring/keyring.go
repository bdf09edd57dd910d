// Package keyring keeps remote database passwords in the OS keyring so they
// never appear in connection strings or settings.
package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/tally/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Account derives the keyring account name for a connection string as
// user@host/dbname. Unparseable strings fall back to the default account.
func Account(connStr string) string {
	var user, host, db string
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return constants.DefaultKeyringUser
		}
		if u.User != nil {
			user = u.User.Username()
		}
		host = u.Hostname()
		db = strings.TrimPrefix(u.Path, "/")
	} else {
		for _, pair := range strings.Fields(connStr) {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			switch strings.ToLower(k) {
			case "user":
				user = v
			case "host":
				host = v
			case "dbname":
				db = v
			}
		}
	}
	if host == "" && db == "" {
		return constants.DefaultKeyringUser
	}
	return fmt.Sprintf("%s@%s/%s", user, host, db)
}

// GetPassword retrieves the password stored for account.
// Returns ErrNotFound if nothing is stored.
func GetPassword(account string) (string, error) {
	password, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return password, nil
}

// SetPassword stores password for account.
func SetPassword(account, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account, password); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeletePassword removes the password stored for account.
func DeletePassword(account string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
