package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEncryptCmd() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a value and print the stored payload",
		Long:  "Encrypt a value given with --value, or read from stdin, and print the stored payload.",
		RunE: func(cmd *cobra.Command, args []string) error {
			plainText, err := readValue(value, cmd.InOrStdin())
			if err != nil {
				return err
			}

			codec, err := newEnvCodec()
			if err != nil {
				return err
			}

			payload, err := codec.Encrypt(cmd.Context(), plainText)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "value to encrypt; read from stdin when not set")

	return cmd
}
