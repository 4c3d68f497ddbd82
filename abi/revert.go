package abi

// errorStringSelector is the 4-byte selector of Solidity's built-in
// "Error(string)" revert reason, used by require()/revert("msg").
var errorStringSelector = Selector("Error(string)")

// panicSelector is Solidity's built-in "Panic(uint256)", emitted for
// assert()/overflow/division-by-zero/out-of-bounds-array-access failures.
var panicSelector = Selector("Panic(uint256)")

// DecodeRevertReason inspects revert data returned by a failed eth_call or
// eth_estimateGas and recovers the embedded reason string, following
// spec.md §4.E/§7: if data begins with the standard Error(string) selector,
// the string is decoded and returned with ok=true; if it begins with the
// Panic(uint256) selector, "panic: code N" is returned with ok=true;
// otherwise ok is false and callers fall back to matching the leading 4 bytes against a contract's own
// declared custom errors (abi.DecodeErrorResult).
func DecodeRevertReason(data []byte) (reason string, ok bool, err error) {
	if len(data) < 4 {
		return "", false, nil
	}
	var sel [4]byte
	copy(sel[:], data[:4])
	switch sel {
	case errorStringSelector:
		vals, derr := DecodeArguments([]Type{{Kind: KindString}}, data[4:])
		if derr != nil {
			return "", false, derr
		}
		s, _ := vals[0].(string)
		return s, true, nil
	case panicSelector:
		vals, derr := DecodeArguments([]Type{{Kind: KindUint, Size: 256}}, data[4:])
		if derr != nil {
			return "", false, derr
		}
		return "panic: code " + formatPanicCode(vals[0]), true, nil
	default:
		return "", false, nil
	}
}

func formatPanicCode(v interface{}) string {
	n, ok := v.(interface{ String() string })
	if !ok {
		return "unknown"
	}
	return n.String()
}
