package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which branch of the canonical ABI type grammar a Type is.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindAddress
	KindBool
	KindBytes      // dynamic "bytes"
	KindFixedBytes // "bytesN"
	KindString
	KindArray // fixed-size "[K]"
	KindSlice // dynamic-size "[]"
	KindTuple
)

// Component is one named element of a tuple type.
type Component struct {
	Name string
	Type Type
}

// Type is the canonical on-wire type grammar: elementary names, tuples,
// and array suffixes. Parameter names, storage-location
// qualifiers, and `indexed` are never part of a Type — only of the Input/
// Output that wraps one (see fragment.go) — except for tuple component
// names, which are carried here because decoding must be able to produce
// named aliases for nested tuple fields too.
type Type struct {
	Kind       Kind
	Size       int // bit width for uintN/intN; byte width for bytesN
	ArrayLen   int // element count for KindArray
	Elem       *Type
	Components []Component // for KindTuple
}

// Canonical renders the type in the exact form selector/topic hashing uses:
// no names, no modifiers, no indexed flags.
func (t Type) Canonical() string {
	switch t.Kind {
	case KindUint:
		return "uint" + strconv.Itoa(t.Size)
	case KindInt:
		return "int" + strconv.Itoa(t.Size)
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	case KindString:
		return "string"
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.Elem.Canonical(), t.ArrayLen)
	case KindSlice:
		return t.Elem.Canonical() + "[]"
	case KindTuple:
		parts := make([]string, len(t.Components))
		for i, c := range t.Components {
			parts[i] = c.Type.Canonical()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "<invalid>"
	}
}

// IsDynamic reports whether values of this type occupy a variable-length
// tail slot.
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case KindBytes, KindString, KindSlice:
		return true
	case KindArray:
		return t.Elem.IsDynamic()
	case KindTuple:
		for _, c := range t.Components {
			if c.Type.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// headWords is the number of 32-byte words a static type's head slot
// occupies — always 1, except a static fixed array/tuple, which occupies
// one word per flattened static element. Only meaningful for !IsDynamic().
func (t Type) headWords() int {
	switch t.Kind {
	case KindArray:
		return t.ArrayLen * t.Elem.headWords()
	case KindTuple:
		n := 0
		for _, c := range t.Components {
			n += c.Type.headWords()
		}
		return n
	default:
		return 1
	}
}

// ParseType parses a single canonical-or-terse type descriptor, including
// nested tuple syntax with optional component names (e.g. "(uint256 id,
// address owner)[]"). It is used both for fully canonical strings (no
// names) and for the terse human-readable fragment parser's param types.
func ParseType(s string) (Type, error) {
	t, names, rest, err := parseTypeAndSuffixes(strings.TrimSpace(s))
	if err != nil {
		return Type{}, err
	}
	_ = names
	if rest != "" {
		return Type{}, fmt.Errorf("abi: unexpected trailing input %q in type %q", rest, s)
	}
	return t, nil
}

// parseTypeAndSuffixes parses a base type (elementary or tuple) followed by
// zero or more array suffixes, returning any unconsumed trailing text.
func parseTypeAndSuffixes(s string) (Type, []string, string, error) {
	var base Type
	var err error
	var rem string

	if strings.HasPrefix(s, "(") {
		base, rem, err = parseTuple(s)
	} else {
		base, rem, err = parseElementary(s)
	}
	if err != nil {
		return Type{}, nil, "", err
	}

	base, rem, err = applyArraySuffixes(base, rem)
	if err != nil {
		return Type{}, nil, "", err
	}
	return base, nil, rem, nil
}

// applyArraySuffixes consumes leading "[...]"/"[N]" suffixes from rem,
// wrapping base in KindSlice/KindArray left-to-right (so "T[4][2]" yields
// an outer array of length 2 whose elements are T[4]), and returns
// whatever text remains unconsumed.
func applyArraySuffixes(base Type, rem string) (Type, string, error) {
	for {
		rem = strings.TrimSpace(rem)
		if !strings.HasPrefix(rem, "[") {
			break
		}
		close := strings.IndexByte(rem, ']')
		if close < 0 {
			return Type{}, "", fmt.Errorf("abi: unterminated array suffix in %q", rem)
		}
		inner := rem[1:close]
		rem = rem[close+1:]
		elemCopy := base
		if inner == "" {
			base = Type{Kind: KindSlice, Elem: &elemCopy}
		} else {
			n, convErr := strconv.Atoi(inner)
			if convErr != nil || n < 0 {
				return Type{}, "", fmt.Errorf("abi: invalid array length %q", inner)
			}
			base = Type{Kind: KindArray, ArrayLen: n, Elem: &elemCopy}
		}
	}
	return base, rem, nil
}

// parseElementary parses one of the elementary base type names, returning
// unconsumed text (which may start with array suffixes).
func parseElementary(s string) (Type, string, error) {
	i := 0
	for i < len(s) && s[i] != '[' && !isSpace(s[i]) {
		i++
	}
	name := s[:i]
	rest := s[i:]

	switch {
	case name == "address":
		return Type{Kind: KindAddress}, rest, nil
	case name == "bool":
		return Type{Kind: KindBool}, rest, nil
	case name == "string":
		return Type{Kind: KindString}, rest, nil
	case name == "bytes":
		return Type{Kind: KindBytes}, rest, nil
	case name == "tuple":
		return Type{}, "", fmt.Errorf("abi: bare %q requires component list, use \"(...)\" syntax", name)
	case strings.HasPrefix(name, "bytes"):
		n, err := strconv.Atoi(name[len("bytes"):])
		if err != nil || n < 1 || n > 32 {
			return Type{}, "", fmt.Errorf("abi: invalid fixed bytes type %q", name)
		}
		return Type{Kind: KindFixedBytes, Size: n}, rest, nil
	case strings.HasPrefix(name, "uint"):
		n, err := parseBitSize(name[len("uint"):])
		if err != nil {
			return Type{}, "", fmt.Errorf("abi: invalid uint type %q: %w", name, err)
		}
		return Type{Kind: KindUint, Size: n}, rest, nil
	case strings.HasPrefix(name, "int"):
		n, err := parseBitSize(name[len("int"):])
		if err != nil {
			return Type{}, "", fmt.Errorf("abi: invalid int type %q: %w", name, err)
		}
		return Type{Kind: KindInt, Size: n}, rest, nil
	default:
		return Type{}, "", fmt.Errorf("abi: unknown type %q", name)
	}
}

func parseBitSize(s string) (int, error) {
	if s == "" {
		return 256, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 8 || n > 256 || n%8 != 0 {
		return 0, fmt.Errorf("bit size %d out of range", n)
	}
	return n, nil
}

// parseTuple parses a parenthesized, comma-separated component list; each
// component may itself carry a name (e.g. "(uint256 id, address owner)").
func parseTuple(s string) (Type, string, error) {
	if s == "" || s[0] != '(' {
		return Type{}, "", fmt.Errorf("abi: expected '(' at start of tuple type %q", s)
	}
	depth := 0
	end := -1
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 && s[i] == ')' {
				end = i
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return Type{}, "", fmt.Errorf("abi: unterminated tuple type %q", s)
	}
	inner := s[1:end]
	rest := s[end+1:]

	var components []Component
	for _, part := range splitTopLevel(inner, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		typ, name, _, err := parseNamedComponent(part)
		if err != nil {
			return Type{}, "", err
		}
		components = append(components, Component{Name: name, Type: typ})
	}
	return Type{Kind: KindTuple, Components: components}, rest, nil
}

// parseNamedComponent parses "TYPE [NAME]" for one tuple component (no
// indexed/location modifiers — those belong only to top-level fragment
// params, handled in fragment.go).
func parseNamedComponent(s string) (Type, string, string, error) {
	typ, _, rem, err := parseTypeAndSuffixes(s)
	if err != nil {
		return Type{}, "", "", err
	}
	name := strings.TrimSpace(rem)
	return typ, name, "", nil
}

// splitTopLevel splits s on sep, ignoring separators nested inside ()/[] .
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }
