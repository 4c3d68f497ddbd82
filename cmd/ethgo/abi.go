package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/evoq-ethereum/ethgo/abi"
)

func newAbiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi",
		Short: "ABI encode/decode/format utilities",
	}
	cmd.AddCommand(newAbiEncodeCmd())
	cmd.AddCommand(newAbiDecodeCmd())
	cmd.AddCommand(newAbiFormatCmd())
	return cmd
}

func newAbiEncodeCmd() *cobra.Command {
	var typesFlag, valuesFlag string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "ABI-encode a comma-separated type/value list",
		Example: `  ethgo abi encode --types uint256,bool --values 42,true
  ethgo abi encode --types bytes,bool,uint256[] --values 0x64617665,true,"1;2;3"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseTypeList(typesFlag)
			if err != nil {
				return err
			}
			values, err := parseValueList(types, valuesFlag)
			if err != nil {
				return err
			}
			enc, err := abi.EncodeArguments(types, values)
			if err != nil {
				return err
			}
			fmt.Println("0x" + hex.EncodeToString(enc))
			return nil
		},
	}
	cmd.Flags().StringVar(&typesFlag, "types", "", "comma-separated canonical type list")
	cmd.Flags().StringVar(&valuesFlag, "values", "", "comma-separated value list, aligned with --types")
	cmd.MarkFlagRequired("types")
	cmd.MarkFlagRequired("values")
	return cmd
}

func newAbiDecodeCmd() *cobra.Command {
	var typesFlag, dataFlag string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode ABI-encoded data against a type list",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseTypeList(typesFlag)
			if err != nil {
				return err
			}
			data, err := hexDecodeArg(dataFlag)
			if err != nil {
				return err
			}
			values, err := abi.DecodeArguments(types, data)
			if err != nil {
				return err
			}
			tbl := table.New("#", "Type", "Value")
			for i, v := range values {
				tbl.AddRow(i, types[i].Canonical(), fmt.Sprint(v))
			}
			tbl.Print()
			return nil
		},
	}
	cmd.Flags().StringVar(&typesFlag, "types", "", "comma-separated canonical type list")
	cmd.Flags().StringVar(&dataFlag, "data", "", "0x-prefixed ABI-encoded data")
	cmd.MarkFlagRequired("types")
	cmd.MarkFlagRequired("data")
	return cmd
}

func newAbiFormatCmd() *cobra.Command {
	var modeFlag string
	cmd := &cobra.Command{
		Use:   "format [declaration]",
		Short: "Reformat a terse ABI fragment declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frag, err := abi.ParseFragment(args[0])
			if err != nil {
				return err
			}
			var mode abi.FormatMode
			switch modeFlag {
			case "sighash":
				mode = abi.FormatSighash
			case "full":
				mode = abi.FormatFull
			case "json":
				mode = abi.FormatJSON
			default:
				return fmt.Errorf("unknown --mode %q (want sighash, full, or json)", modeFlag)
			}
			fmt.Println(frag.Format(mode))
			return nil
		},
	}
	cmd.Flags().StringVar(&modeFlag, "mode", "full", "output mode: sighash, full, json")
	return cmd
}

func hexDecodeArg(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

func parseTypeList(s string) ([]abi.Type, error) {
	var out []abi.Type
	for _, tok := range splitRespectingBrackets(s) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		t, err := abi.ParseType(tok)
		if err != nil {
			return nil, fmt.Errorf("parsing type %q: %w", tok, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// splitRespectingBrackets splits on top-level commas, the same way the
// ABI fragment parser splits parameter lists, so an array type like
// "uint256[]" never gets cut at the wrong comma.
func splitRespectingBrackets(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// parseValueList parses one value per declared type. Values are comma
// separated at the top level; a value that is itself a list (for array/
// slice types) is written as a quoted, semicolon-separated sub-list, e.g.
// --values "1;2;3",true for types uint256[],bool.
func parseValueList(types []abi.Type, s string) ([]interface{}, error) {
	toks := splitRespectingBrackets(s)
	if len(toks) != len(types) {
		return nil, fmt.Errorf("%d values given for %d types", len(toks), len(types))
	}
	out := make([]interface{}, len(types))
	for i, t := range types {
		v, err := parseValue(t, strings.TrimSpace(toks[i]))
		if err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, t.Canonical(), err)
		}
		out[i] = v
	}
	return out, nil
}

func parseValue(t abi.Type, tok string) (interface{}, error) {
	tok = strings.Trim(tok, `"`)
	switch t.Kind {
	case abi.KindUint, abi.KindInt:
		n, ok := new(big.Int).SetString(tok, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", tok)
		}
		return n, nil
	case abi.KindBool:
		b, err := strconv.ParseBool(tok)
		if err != nil {
			return nil, err
		}
		return b, nil
	case abi.KindAddress:
		return abi.HexToAddress(tok)
	case abi.KindBytes, abi.KindFixedBytes:
		return hexDecodeArg(tok)
	case abi.KindString:
		return tok, nil
	case abi.KindSlice, abi.KindArray:
		elems := strings.Split(tok, ";")
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			v, err := parseValue(*t.Elem, strings.TrimSpace(e))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %s for CLI value parsing", t.Canonical())
	}
}
