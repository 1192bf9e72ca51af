package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alwitt/keyvault"
	"github.com/alwitt/keyvault/config"
	"github.com/alwitt/keyvault/encryption"
	"github.com/alwitt/keyvault/store"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keyvault",
		Short: "keyvault - encrypted store for third-party API keys",
		Long: `keyvault stores third-party API keys encrypted with AES-256-GCM under a key
derived from ENCRYPTION_SECRET, and reads back every historical storage format.

Configuration is read from the environment:
  ENCRYPTION_SECRET   secret the vault key is derived from (required)
  LOG_LEVEL           debug, info, warn, error (default info)
  DATABASE_DRIVER     sqlite or postgres (default sqlite)
  DATABASE_DSN        sqlite file or Postgres DSN (default ./keyvault.db)
  DATABASE_LOG_LEVEL  silent, error, warn, info (default error)
  SERVER_LISTEN       API listen address (default :8080)
`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newMaskCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newAuditCmd())

	return rootCmd
}

// loadConfig read the config and apply the log level
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openVaultStore connect to the configured database and build the vault store
func openVaultStore(
	ctx context.Context, cfg config.Config, defineTables bool,
) (store.VaultStore, error) {
	dialector, err := cfg.Database.Dialector()
	if err != nil {
		return nil, err
	}

	return keyvault.NewVaultStore(
		ctx,
		dialector,
		cfg.Database.GORMLogLevel(),
		encryption.CacheDerivedKey(encryption.NewEnvKeyProvider()),
		defineTables,
	)
}

// newEnvCodec codec keyed from ENCRYPTION_SECRET
func newEnvCodec() (encryption.Codec, error) {
	return encryption.NewCodec(encryption.CodecParams{Keys: encryption.NewEnvKeyProvider()})
}

// readValue the flag value when set, else the whole of the input
func readValue(flagValue string, input io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	raw, err := io.ReadAll(input)
	if err != nil {
		return "", fmt.Errorf("failed to read input [%w]", err)
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}
