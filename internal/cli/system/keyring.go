package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/keyring"
	"github.com/campusmate/campusmate/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !looksLikePostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here.
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Println("✓ Connection string stored successfully in OS keyring")
	ctx.Printf("  %s will use PostgreSQL unless %s is set\n", constants.AppName, constants.EnvDBConnection)
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string found in keyring. Use '%s keyring set' to store one", constants.AppName)
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.Println("Connection string retrieved from keyring:")
	ctx.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	ctx.Println("✓ OS keyring is available")
	_, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		ctx.Println("✓ Connection string is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No connection string stored in keyring")
	default:
		return err
	}
	return nil
}

func looksLikePostgres(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") ||
		strings.HasPrefix(connStr, "postgresql://") ||
		strings.Contains(connStr, "host=")
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			// url.String escapes the mask; undo that for display.
			return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
