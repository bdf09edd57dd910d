// Package factory picks a storage backend from a config value.
package factory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

// Kind names a storage backend.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindJSON     Kind = "json"
)

// Detect classifies target: a PostgreSQL URI or DSN, a .json file, or
// anything else as a SQLite path.
func Detect(target string) Kind {
	if postgres.IsConnString(target) {
		return KindPostgres
	}
	if strings.EqualFold(filepath.Ext(target), ".json") {
		return KindJSON
	}
	return KindSQLite
}

// ExpandPath resolves a leading ~ to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// WithKeyringPassword rejects connection strings carrying a password and adds
// the one stored in the keyring for this account, if any.
func WithKeyringPassword(connStr string) (string, error) {
	if ok, err := postgres.ValidateConnString(connStr); !ok {
		return "", err
	}

	account := keyring.Account(connStr)
	password, err := keyring.GetPassword(account)
	switch {
	case err == nil:
		return postgres.WithPassword(connStr, password)
	case errors.Is(err, keyring.ErrNotFound):
		logger.Debug("No keyring password for account, connecting without one", "account", account)
	default:
		logger.Warn("Keyring unavailable, connecting without a password", "error", err)
	}
	return connStr, nil
}

// New returns an unopened provider for target.
func New(target string) (storage.Provider, error) {
	switch Detect(target) {
	case KindPostgres:
		connStr, err := WithKeyringPassword(target)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	case KindJSON:
		return storage.NewJSONStore(ExpandPath(target)), nil
	default:
		return sqlite.NewStore(ExpandPath(target)), nil
	}
}
