package system

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/keyring"
	"github.com/iamhollywoodpro/strivetrack/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability and stored secrets."`
}

func secretName(name string) (string, error) {
	if slices.Contains(keyring.Names, name) {
		return name, nil
	}
	return "", fmt.Errorf("unknown secret %q (one of: %s)", name, strings.Join(keyring.Names, ", "))
}

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Name  string `arg:"" help:"Secret name."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	name, err := secretName(cmd.Name)
	if err != nil {
		return err
	}

	if name == constants.DefaultKeyringUser {
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
		err = keyring.SetConnectionString(cmd.Value)
	} else {
		err = keyring.Set(name, cmd.Value)
	}
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s stored in OS keyring\n", name)
	return nil
}

// KeyringGetCmd shows a stored secret with its sensitive part masked
type KeyringGetCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	name, err := secretName(cmd.Name)
	if err != nil {
		return err
	}
	value, err := keyring.Get(name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'strivetrack keyring set %s <value>' to store one", name, name)
		}
		return err
	}
	fmt.Println(mask(value))
	return nil
}

type KeyringDeleteCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	name, err := secretName(cmd.Name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", name)
		}
		return err
	}
	fmt.Printf("✓ %s deleted from OS keyring\n", name)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")
	for _, name := range keyring.Names {
		if _, err := keyring.Get(name); err == nil {
			fmt.Printf("✓ %s is stored\n", name)
		} else {
			fmt.Printf("ℹ %s is not stored\n", name)
		}
	}
	return nil
}

// mask hides passwords in connection strings and URLs and everything but
// the first four characters of other secrets.
func mask(secret string) string {
	if i := strings.Index(secret, "://"); i != -1 {
		rest := secret[i+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			if colon := strings.Index(rest[:at], ":"); colon != -1 {
				return secret[:i+3] + rest[:colon] + ":****" + rest[at:]
			}
		}
		return secret
	}
	if strings.Contains(secret, "password=") {
		parts := strings.Fields(secret)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + strings.Repeat("*", 8)
}
