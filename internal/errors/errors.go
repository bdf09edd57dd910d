// Package errors formats command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotInitialized, "run 'tally init' to create the database"},
	{postgres.ErrEmbeddedCredentials, "remove the password and store it with 'tally keyring set'"},
	{keyring.ErrNotFound, "store the remote password with 'tally keyring set'"},
	{keyring.ErrKeyringUnavailable, "no OS keyring found; use a passwordless connection or a .pgpass file"},
}

// Hint returns a follow-up suggestion for well-known errors, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}
