// Command ethgo is a small CLI over this module's abi/rlp/units/rpc
// packages — the spiritual successor to the three flag-driven demo
// binaries (go-abi-encoder, go-rlp-encoder, go-keccak-hasher) this repo
// grew out of, rewired as cobra subcommands of one tool and pointed at
// ethgo's own codecs instead of go-ethereum's.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	bold = color.New(color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

var rpcURL string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ethgo",
		Short: "Ethereum ABI/RLP/RPC toolkit",
		Long:  "ethgo encodes, decodes, and hashes Ethereum ABI and RLP data, and speaks JSON-RPC to a node for quick chain lookups.",
	}
	root.PersistentFlags().StringVar(&rpcURL, "rpc-url", os.Getenv("ETHGO_RPC_URL"), "JSON-RPC endpoint (or set ETHGO_RPC_URL)")

	root.AddCommand(newAbiCmd())
	root.AddCommand(newRlpCmd())
	root.AddCommand(newKeccakCmd())
	root.AddCommand(newUnitsCmd())
	root.AddCommand(newChainCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
