package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evoq-ethereum/ethgo/abi"
)

func newKeccakCmd() *cobra.Command {
	var asHex bool
	cmd := &cobra.Command{
		Use:   "keccak [input]",
		Short: "Keccak-256 hash a string or (--hex) a byte string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b []byte
			if asHex {
				decoded, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
				if err != nil {
					return err
				}
				b = decoded
			} else {
				b = []byte(args[0])
			}
			fmt.Println("0x" + hex.EncodeToString(abi.Keccak256(b)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHex, "hex", false, "treat input as a 0x-prefixed hex byte string rather than raw text")
	return cmd
}
