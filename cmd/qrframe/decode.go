package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashokshau/qrframe/qrcode"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <image>",
		Short: "Read the QR code in a PNG, JPEG or BMP image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			text, err := qrcode.Decode(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
