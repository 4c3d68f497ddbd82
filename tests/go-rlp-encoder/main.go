// go-rlp-encoder is a fixture generator: each --test case RLP-encodes a
// known value and prints the resulting hex, letting the results be diffed
// against another implementation's output for the same case numbers.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/rlp"
	"github.com/evoq-ethereum/ethgo/tx"
)

func main() {
	testNum := flag.Int("test", 0, "Test case number (1-18)")
	flag.Parse()

	if *testNum < 1 || *testNum > 18 {
		fmt.Println("Please specify a test case with --test (1-18)")
		os.Exit(1)
	}

	var item rlp.Item

	switch *testNum {
	case 1:
		// Empty string. Expected: 0x80.
		item = rlp.String("")

	case 2:
		// Single byte below 0x80. Expected: the byte itself.
		item = rlp.Bytes{0x7f}

	case 3:
		// Short string. Expected: 0x80+len, then the bytes.
		item = rlp.String("hello world")

	case 4:
		// Long string (>=56 bytes). Expected: 0xb7+lenOfLen, length, bytes.
		longStr := make([]byte, 100)
		for i := range longStr {
			longStr[i] = byte(i % 256)
		}
		item = rlp.Bytes(longStr)

	case 5:
		// Zero. Expected: 0x80 (zero encodes as the empty string).
		item = rlp.Uint64(0)

	case 6:
		// Small integer. Expected: the byte itself, since 42 < 0x80.
		item = rlp.Uint64(42)

	case 7:
		// Medium integer. Expected: length-prefixed minimal big-endian bytes.
		item = rlp.Uint64(1024)

	case 8:
		// Large integer via big.Int.
		item = rlp.Uint(big.NewInt(1000000000000000))

	case 9:
		// RLP has no signed-integer encoding; Uint only ever sees magnitudes,
		// so a caller holding a negative big.Int must take Abs() first.
		n := big.NewInt(-1000000)
		item = rlp.Uint(new(big.Int).Abs(n))

	case 10:
		// Empty list. Expected: 0xc0.
		item = rlp.List{}

	case 11:
		// List with a single element.
		item = rlp.List{rlp.Uint64(1)}

	case 12:
		// List with multiple elements of the same type.
		item = rlp.List{rlp.Uint64(1), rlp.Uint64(2), rlp.Uint64(3)}

	case 13:
		// List with mixed item types.
		item = rlp.List{rlp.Uint64(1), rlp.String("hello"), rlp.Bytes{0x42}}

	case 14:
		// Nested list.
		item = rlp.List{
			rlp.Uint64(1),
			rlp.List{rlp.Uint64(2), rlp.Uint64(3)},
			rlp.String("hello"),
		}

	case 15:
		// Deeply nested list.
		item = rlp.List{
			rlp.Uint64(1),
			rlp.List{
				rlp.Uint64(2),
				rlp.List{rlp.Uint64(3), rlp.String("nested")},
			},
			rlp.String("hello"),
		}

	case 16:
		// Fixed-size byte strings of varying lengths, as a list.
		item = rlp.List{
			rlp.Bytes{0x01},
			rlp.Bytes{0x02, 0x03},
			rlp.Bytes{0x04, 0x05, 0x06},
			rlp.Bytes{0x07, 0x08, 0x09, 0x0a},
		}

	case 17:
		// Unsigned legacy EIP-155 transaction payload — the exact bytes that
		// get keccak256-hashed and signed, not a final signed envelope.
		to := abi.Address{}
		for i := range to {
			to[i] = byte(i + 1)
		}
		txn := &tx.Transaction{
			Nonce:    42,
			GasPrice: big.NewInt(30000000000), // 30 Gwei
			GasLimit: 21000,
			To:       &to,
			Value:    big.NewInt(1000000000000000000), // 1 ETH
			Data:     []byte{},
		}
		fmt.Printf("0x%x\n", txn.SignaturePayloadFor(1).Bytes())
		return

	case 18:
		// Unsigned EIP-1559 transaction payload.
		to := abi.Address{}
		for i := range to {
			to[i] = byte(i + 1)
		}
		txn := &tx.Transaction{
			Nonce:                123,
			MaxPriorityFeePerGas: big.NewInt(2000000000),  // 2 Gwei
			MaxFeePerGas:         big.NewInt(50000000000), // 50 Gwei
			GasLimit:             21000,
			To:                   &to,
			Value:                big.NewInt(1000000000000000000), // 1 ETH
			Data:                 []byte{0xca, 0xfe, 0xba, 0xbe},
		}
		fmt.Printf("0x%x\n", txn.SignaturePayloadFor(1).Bytes())
		return
	}

	fmt.Printf("0x%x\n", rlp.Encode(item))
}
