package main

import (
	"context"
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/evoq-ethereum/ethgo/networks"
	"github.com/evoq-ethereum/ethgo/rpc"
)

func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Query a JSON-RPC node and look up well-known chain presets",
	}
	cmd.AddCommand(newChainInfoCmd())
	cmd.AddCommand(newChainListCmd())
	return cmd
}

func newChainInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print chain id, block height, and gas price for --rpc-url",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rpcURL == "" {
				return fmt.Errorf("no RPC endpoint given, pass --rpc-url or set ETHGO_RPC_URL")
			}
			tr := rpc.NewTransport(rpcURL, nil)
			ctx := context.Background()

			chainID, err := tr.ChainID(ctx)
			if err != nil {
				return fmt.Errorf("eth_chainId: %w", err)
			}
			block, err := tr.BlockNumber(ctx)
			if err != nil {
				return fmt.Errorf("eth_blockNumber: %w", err)
			}
			gasPrice, err := tr.GasPrice(ctx)
			if err != nil {
				return fmt.Errorf("eth_gasPrice: %w", err)
			}

			name := "unknown"
			if n, ok := networks.ByChainID(chainID); ok {
				name = n.Name
			}

			fmt.Printf("%s  %d (%s)\n", bold("chain id:"), chainID, cyan(name))
			fmt.Printf("%s     %d\n", bold("block:"), block)
			fmt.Printf("%s %s wei\n", bold("gas price:"), gasPrice.String())
			return nil
		},
	}
}

func newChainListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List well-known chain presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := table.New("Name", "Chain ID", "Currency")
			for _, n := range networks.All() {
				tbl.AddRow(n.Name, n.ChainID, n.CurrencySymbol)
			}
			tbl.Print()
			return nil
		},
	}
}
