// go-abi-encoder is a fixture generator: each --test case encodes a known
// argument list and prints the resulting hex, letting the results be diffed
// against another implementation's output for the same case numbers.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/evoq-ethereum/ethgo/abi"
)

func main() {
	testNum := flag.Int("test", 0, "Test case number (1-20)")
	flag.Parse()

	if *testNum < 1 || *testNum > 20 {
		fmt.Println("Please specify a test case with --test (1-20)")
		os.Exit(1)
	}

	var canonical []string
	var values []interface{}

	switch *testNum {
	case 1: // foo(uint256) - 1
		canonical = []string{"uint256"}
		values = []interface{}{big.NewInt(1)}

	case 2: // foo(bool) - true
		canonical = []string{"bool"}
		values = []interface{}{true}

	case 3: // foo(uint8, uint256) - (1, 1)
		canonical = []string{"uint8", "uint256"}
		values = []interface{}{big.NewInt(1), big.NewInt(1)}

	case 4: // foo(uint8[2]) - [1, 2]
		canonical = []string{"uint8[2]"}
		values = []interface{}{[]interface{}{big.NewInt(1), big.NewInt(2)}}

	case 5: // foo(uint8[4][2]) - [[10,20,30,40],[1,2,3,4]]
		canonical = []string{"uint8[4][2]"}
		values = []interface{}{[]interface{}{
			[]interface{}{big.NewInt(10), big.NewInt(20), big.NewInt(30), big.NewInt(40)},
			[]interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4)},
		}}

	case 6: // foo(uint8[3][2][1]) - [[[1,2,3],[1,2,3]]]
		canonical = []string{"uint8[3][2][1]"}
		values = []interface{}{[]interface{}{
			[]interface{}{
				[]interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
				[]interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
			},
		}}

	case 7: // foo((uint256 id, uint256 balance) account) - (3, 10)
		canonical = []string{"(uint256,uint256)"}
		values = []interface{}{[]interface{}{big.NewInt(3), big.NewInt(10)}}

	case 8: // foo(bool isActive, (uint256 id, uint256 balance) account) - (true, (3, 10))
		canonical = []string{"bool", "(uint256,uint256)"}
		values = []interface{}{true, []interface{}{big.NewInt(3), big.NewInt(10)}}

	case 9: // foo((bool,uint256) prof, (uint256,uint256) account) - ((true,20),(3,10))
		canonical = []string{"(bool,uint256)", "(uint256,uint256)"}
		values = []interface{}{
			[]interface{}{true, big.NewInt(20)},
			[]interface{}{big.NewInt(3), big.NewInt(10)},
		}

	case 10: // foo(((bool,uint256) prof, uint256 id, uint256 balance) account) - ((true,20),3,10)
		canonical = []string{"((bool,uint256),uint256,uint256)"}
		values = []interface{}{[]interface{}{
			[]interface{}{true, big.NewInt(20)},
			big.NewInt(3),
			big.NewInt(10),
		}}

	case 11: // foo(bytes) - [1]
		canonical = []string{"bytes"}
		values = []interface{}{[]byte{1}}

	case 12: // foo(uint8[]) - [1, 2]
		canonical = []string{"uint8[]"}
		values = []interface{}{[]interface{}{big.NewInt(1), big.NewInt(2)}}

	case 13: // foo(uint8[2][]) - [[1,2],[3,4]]
		canonical = []string{"uint8[2][]"}
		values = []interface{}{[]interface{}{
			[]interface{}{big.NewInt(1), big.NewInt(2)},
			[]interface{}{big.NewInt(3), big.NewInt(4)},
		}}

	case 14: // foo(uint8[][]) - [[1,2],[3,4]]
		canonical = []string{"uint8[][]"}
		values = []interface{}{[]interface{}{
			[]interface{}{big.NewInt(1), big.NewInt(2)},
			[]interface{}{big.NewInt(3), big.NewInt(4)},
		}}

	case 15: // foo(bool, (string,uint256)) - (true, ("abc", 9))
		canonical = []string{"bool", "(string,uint256)"}
		values = []interface{}{true, []interface{}{"abc", big.NewInt(9)}}

	case 16: // foo(bool, ((string,string),uint256)) - (true, (("a","abc"),9))
		canonical = []string{"bool", "((string,string),uint256)"}
		values = []interface{}{true, []interface{}{
			[]interface{}{"a", "abc"},
			big.NewInt(9),
		}}

	case 17: // bar(bytes3[2]) - ["abc", "def"]
		canonical = []string{"bytes3[2]"}
		values = []interface{}{[]interface{}{[]byte("abc"), []byte("def")}}

	case 18: // baz(uint256 x, bool y) - (69, true)
		canonical = []string{"uint256", "bool"}
		values = []interface{}{big.NewInt(69), true}

	case 19: // sam(bytes, bool, uint256[]) - ("dave", true, [1, 2, 3])
		canonical = []string{"bytes", "bool", "uint256[]"}
		values = []interface{}{
			[]byte("dave"),
			true,
			[]interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
		}

	case 20: // foo(uint256, uint32[], bytes10, bytes) - (0x123, [0x456,0x789], "1234567890", "Hello, world!")
		canonical = []string{"uint256", "uint32[]", "bytes10", "bytes"}
		values = []interface{}{
			big.NewInt(0x123),
			[]interface{}{big.NewInt(0x456), big.NewInt(0x789)},
			[]byte("1234567890"),
			[]byte("Hello, world!"),
		}
	}

	types := make([]abi.Type, len(canonical))
	for i, c := range canonical {
		t, err := abi.ParseType(c)
		if err != nil {
			fmt.Printf("parsing type %q: %v\n", c, err)
			os.Exit(1)
		}
		types[i] = t
	}

	encoded, err := abi.EncodeArguments(types, values)
	if err != nil {
		fmt.Printf("Encoding error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("0x%x\n", encoded)
}
