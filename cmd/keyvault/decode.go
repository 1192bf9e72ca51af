package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a stored payload in any supported format",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readValue(payload, cmd.InOrStdin())
			if err != nil {
				return err
			}

			codec, err := newEnvCodec()
			if err != nil {
				return err
			}

			decoded, err := codec.DecodeStoredValue(cmd.Context(), raw)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "value: %s\nneeds_reencrypt: %t\n", decoded.Value, decoded.NeedsReencrypt)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "stored payload; read from stdin when not set")

	return cmd
}
