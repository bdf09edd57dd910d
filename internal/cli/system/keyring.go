package system

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

// connTarget resolves the connection string a keyring command applies to:
// the argument, then TALLY_REMOTE.
func connTarget(ctx *cli.Context, arg string) (string, error) {
	connStr := arg
	if connStr == "" {
		connStr = ctx.Config.Remote
	}
	if connStr == "" || !postgres.IsConnString(connStr) {
		return "", errors.New("a PostgreSQL connection string is required (argument or TALLY_REMOTE)")
	}
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", fmt.Errorf("%w: store the password with 'tally keyring set' and remove it from the connection string", err)
		}
		return "", fmt.Errorf("invalid connection string: %w", err)
	}
	return connStr, nil
}

// KeyringSetCmd stores the password for a PostgreSQL connection in the OS keyring.
type KeyringSetCmd struct {
	Connection string `arg:"" optional:"" help:"PostgreSQL connection string without password. Defaults to TALLY_REMOTE."`
	Password   string `help:"Password to store. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr, err := connTarget(ctx, cmd.Connection)
	if err != nil {
		return err
	}
	account := keyring.Account(connStr)

	password := cmd.Password
	if password == "" {
		err := huh.NewInput().
			Title("Password for " + account).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Run()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	if err := keyring.SetPassword(account, password); err != nil {
		return err
	}
	ctx.Printf("✓ Password for %s stored in OS keyring\n", account)
	return nil
}

// KeyringGetCmd reports whether a password is stored, without printing it.
type KeyringGetCmd struct {
	Connection string `arg:"" optional:"" help:"PostgreSQL connection string. Defaults to TALLY_REMOTE."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := connTarget(ctx, cmd.Connection)
	if err != nil {
		return err
	}
	account := keyring.Account(connStr)

	password, err := keyring.GetPassword(account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no password stored for %s. Use 'tally keyring set' to store one", account)
		}
		return err
	}
	ctx.Printf("%s: %s\n", account, maskPassword(password))
	return nil
}

// KeyringDeleteCmd removes a stored password.
type KeyringDeleteCmd struct {
	Connection string `arg:"" optional:"" help:"PostgreSQL connection string. Defaults to TALLY_REMOTE."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	connStr, err := connTarget(ctx, cmd.Connection)
	if err != nil {
		return err
	}
	account := keyring.Account(connStr)

	if err := keyring.DeletePassword(account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no password stored for %s", account)
		}
		return err
	}
	ctx.Printf("✓ Password for %s deleted from OS keyring\n", account)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	if ctx.Config.Remote == "" || !postgres.IsConnString(ctx.Config.Remote) {
		return nil
	}
	account := keyring.Account(ctx.Config.Remote)
	if _, err := keyring.GetPassword(account); err == nil {
		ctx.Printf("✓ Password stored for %s\n", account)
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Printf("ℹ No password stored for %s\n", account)
	}
	return nil
}

func maskPassword(password string) string {
	if len(password) <= 2 {
		return "****"
	}
	return password[:1] + "****" + password[len(password)-1:]
}
