package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evoq-ethereum/ethgo/rlp"
)

func newRlpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rlp",
		Short: "RLP-encode a string or a comma-separated flat list of strings",
	}
	cmd.AddCommand(newRlpEncodeCmd())
	return cmd
}

func newRlpEncodeCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "encode [value]",
		Short: "RLP-encode a single hex/string value, or --list a comma-separated one",
		Args:  cobra.ExactArgs(1),
		Example: `  ethgo rlp encode 0x636174
  ethgo rlp encode --list 0x01,0x02,0x03`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var item rlp.Item
			if list {
				var elems rlp.List
				for _, tok := range strings.Split(args[0], ",") {
					b, err := hexOrRaw(strings.TrimSpace(tok))
					if err != nil {
						return err
					}
					elems = append(elems, rlp.Bytes(b))
				}
				item = elems
			} else {
				b, err := hexOrRaw(args[0])
				if err != nil {
					return err
				}
				item = rlp.Bytes(b)
			}
			fmt.Println("0x" + hex.EncodeToString(rlp.Encode(item)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "treat the comma-separated argument as an RLP list of byte strings")
	return cmd
}

func hexOrRaw(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hex.DecodeString(s[2:])
	}
	return []byte(s), nil
}
