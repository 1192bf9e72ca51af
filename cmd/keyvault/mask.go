package main

import (
	"fmt"

	"github.com/alwitt/keyvault/vault"
	"github.com/spf13/cobra"
)

func newMaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mask VALUE",
		Short: "Print the masked display form of a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), vault.MaskKeyValue(args[0]))
			return nil
		},
	}
}
