package main

import (
	"encoding/json"
	"fmt"

	"github.com/alwitt/keyvault/db"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "audit KEY_ID",
		Short: "Print the audit trail of a vault key, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			vaultStore, err := openVaultStore(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}

			pagination := db.CommonListEntryQueryFilter{}
			if limit > 0 {
				pagination.Limit = &limit
			}
			if offset > 0 {
				pagination.Offset = &offset
			}

			events, err := vaultStore.ListKeyEvents(cmd.Context(), args[0], pagination, nil)
			if err != nil {
				return err
			}

			rendered, err := json.MarshalIndent(events, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events to print")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of events to skip")

	return cmd
}
