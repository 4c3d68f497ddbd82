package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/units"
)

func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Decimal unit conversion and address checksumming",
	}
	cmd.AddCommand(newUnitsParseCmd())
	cmd.AddCommand(newUnitsFormatCmd())
	cmd.AddCommand(newUnitsChecksumCmd())
	return cmd
}

func newUnitsParseCmd() *cobra.Command {
	var decimals int
	cmd := &cobra.Command{
		Use:   "parse [amount]",
		Short: "Convert a decimal amount to its smallest-unit integer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := units.ParseUnits(args[0], decimals)
			if err != nil {
				return err
			}
			fmt.Println(n.String())
			return nil
		},
	}
	cmd.Flags().IntVar(&decimals, "decimals", units.Ether, "number of decimals")
	return cmd
}

func newUnitsFormatCmd() *cobra.Command {
	var decimals int
	cmd := &cobra.Command{
		Use:   "format [amount]",
		Short: "Convert a smallest-unit integer amount to a decimal string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return fmt.Errorf("invalid integer amount %q", args[0])
			}
			fmt.Println(units.FormatUnits(n, decimals))
			return nil
		},
	}
	cmd.Flags().IntVar(&decimals, "decimals", units.Ether, "number of decimals")
	return cmd
}

func newUnitsChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum [address]",
		Short: "Render an address in its EIP-55 checksummed form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := abi.HexToAddress(args[0])
			if err != nil {
				return err
			}
			fmt.Println(units.ToChecksumAddress(addr))
			return nil
		},
	}
}
