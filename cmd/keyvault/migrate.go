package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var defineTables bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Re-encrypt every legacy format vault key in the current format",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			vaultStore, err := openVaultStore(cmd.Context(), cfg, defineTables)
			if err != nil {
				return err
			}

			report, err := vaultStore.MigrateLegacyKeys(cmd.Context(), nil)
			if err != nil {
				return err
			}

			rendered, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(rendered))

			if report.Failed > 0 {
				return fmt.Errorf("%d vault keys could not be recovered", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&defineTables, "define-tables", false, "create the vault tables first")

	return cmd
}
