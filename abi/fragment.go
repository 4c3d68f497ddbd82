package abi

import (
	"fmt"
	"strings"
)

// FragmentKind distinguishes the ABI item kinds a fragment can be.
type FragmentKind string

const (
	KindFunction    FragmentKind = "function"
	KindEvent       FragmentKind = "event"
	KindConstructor FragmentKind = "constructor"
	KindError       FragmentKind = "error"
	KindReceive     FragmentKind = "receive"
	KindFallback    FragmentKind = "fallback"
)

// StateMutability mirrors Solidity's four mutability annotations.
type StateMutability string

const (
	Pure       StateMutability = "pure"
	View       StateMutability = "view"
	Nonpayable StateMutability = "nonpayable"
	Payable    StateMutability = "payable"
)

// Input is one function/event/error/constructor parameter.
type Input struct {
	Name    string
	Type    Type
	Indexed bool // meaningful only on event inputs
}

// Output is one function/error return value.
type Output struct {
	Name string
	Type Type
}

// Fragment is a single parsed ABI item: a function, event, error,
// constructor, receive, or fallback declaration.
type Fragment struct {
	Kind            FragmentKind
	Name            string
	Inputs          []Input
	Outputs         []Output
	StateMutability StateMutability
	Anonymous       bool // events only
}

// Signature renders "name(type,type,...)" — the string selectors and
// topic0 hashes are computed from.
func (f Fragment) Signature() string {
	parts := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		parts[i] = in.Type.Canonical()
	}
	return f.Name + "(" + strings.Join(parts, ",") + ")"
}

// Selector is the 4-byte function/error selector. Only meaningful for
// KindFunction and KindError fragments.
func (f Fragment) Selector() [4]byte { return Selector(f.Signature()) }

// Topic0 is the 32-byte event topic hash. Only meaningful for KindEvent.
func (f Fragment) Topic0() [32]byte { return Topic0(f.Signature()) }

func (f Fragment) inputTypes() []Type {
	out := make([]Type, len(f.Inputs))
	for i, in := range f.Inputs {
		out[i] = in.Type
	}
	return out
}

func (f Fragment) outputTypes() []Type {
	out := make([]Type, len(f.Outputs))
	for i, o := range f.Outputs {
		out[i] = o.Type
	}
	return out
}

// ParseFragment parses one human-readable ("terse") ABI declaration, in the
// style ethers.js popularized: e.g.
//
//	function transfer(address to, uint256 amount) returns (bool)
//	event Transfer(address indexed from, address indexed to, uint256 value)
//	error InsufficientBalance(uint256 available, uint256 required)
//	constructor(address admin) payable
//	receive() external payable
func ParseFragment(s string) (Fragment, error) {
	s = strings.TrimSpace(s)
	keyword, rest := splitFirstWord(s)
	switch keyword {
	case "function":
		return parseFunctionLike(rest, KindFunction, true)
	case "error":
		return parseFunctionLike(rest, KindError, false)
	case "event":
		return parseEvent(rest)
	case "constructor":
		return parseConstructor(rest)
	case "receive":
		return Fragment{Kind: KindReceive, StateMutability: Payable}, nil
	case "fallback":
		return parseFallback(rest)
	default:
		return Fragment{}, fmt.Errorf("abi: unknown fragment keyword %q in %q", keyword, s)
	}
}

func splitFirstWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t(")
	if i < 0 {
		return s, ""
	}
	if s[i] == '(' {
		return s[:i], s[i:]
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// splitNameAndParens splits "NAME(...)TAIL" into name, the text inside the
// matched parens, and whatever trails after the closing paren.
func splitNameAndParens(s string) (name, params, tail string, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", "", "", fmt.Errorf("abi: expected '(' in %q", s)
	}
	name = strings.TrimSpace(s[:open])
	depth := 0
	end := -1
	for i := open; i < len(s); i++ {
		switch s[i] {
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
		return "", "", "", fmt.Errorf("abi: unterminated parameter list in %q", s)
	}
	params = s[open+1 : end]
	tail = strings.TrimSpace(s[end+1:])
	return name, params, tail, nil
}

func parseInputList(params string) ([]Input, error) {
	var out []Input
	for _, tok := range splitTopLevel(params, ',') {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		in, err := parseInputToken(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	assignDefaultInputNames(out)
	return out, nil
}

// assignDefaultInputNames fills in "argN" (N = position) for any input left
// unnamed by the terse parser, per spec.md §4.D.
func assignDefaultInputNames(inputs []Input) {
	for i := range inputs {
		if inputs[i].Name == "" {
			inputs[i].Name = fmt.Sprintf("arg%d", i)
		}
	}
}

// assignDefaultOutputNames is assignDefaultInputNames' counterpart for
// function/error return values parsed from JSON ABI fragments.
func assignDefaultOutputNames(outputs []Output) {
	for i := range outputs {
		if outputs[i].Name == "" {
			outputs[i].Name = fmt.Sprintf("arg%d", i)
		}
	}
}

func parseInputToken(tok string) (Input, error) {
	typ, _, rem, err := parseTypeAndSuffixes(strings.TrimSpace(tok))
	if err != nil {
		return Input{}, err
	}
	var indexed bool
	var name string
	for _, w := range strings.Fields(rem) {
		switch w {
		case "indexed":
			indexed = true
		case "memory", "calldata", "storage":
		default:
			name = w
		}
	}
	return Input{Name: name, Type: typ, Indexed: indexed}, nil
}

func parseOutputList(params string) ([]Output, error) {
	ins, err := parseInputList(params)
	if err != nil {
		return nil, err
	}
	out := make([]Output, len(ins))
	for i, in := range ins {
		out[i] = Output{Name: in.Name, Type: in.Type}
	}
	return out, nil
}

// parseFunctionLike handles both "function" and "error" fragments, which
// share the same "NAME(params) [mutability] [returns (params)]" grammar
// (error declarations never carry mutability or a returns clause, but
// tolerating their absence costs nothing).
func parseFunctionLike(rest string, kind FragmentKind, allowReturns bool) (Fragment, error) {
	name, paramStr, tail, err := splitNameAndParens(rest)
	if err != nil {
		return Fragment{}, err
	}
	inputs, err := parseInputList(paramStr)
	if err != nil {
		return Fragment{}, err
	}

	frag := Fragment{Kind: kind, Name: name, Inputs: inputs, StateMutability: Nonpayable}
	if !allowReturns {
		return frag, nil
	}

	mutPart, retPart := tail, ""
	if idx := strings.Index(tail, "returns"); idx >= 0 {
		mutPart = tail[:idx]
		retPart = strings.TrimSpace(tail[idx+len("returns"):])
	}
	for _, w := range strings.Fields(mutPart) {
		switch w {
		case "view":
			frag.StateMutability = View
		case "pure":
			frag.StateMutability = Pure
		case "payable":
			frag.StateMutability = Payable
		case "external", "public":
		default:
			return Fragment{}, fmt.Errorf("abi: unexpected modifier %q in %q", w, rest)
		}
	}
	if retPart != "" {
		_, outParams, _, err := splitNameAndParens("x" + retPart)
		if err != nil {
			return Fragment{}, fmt.Errorf("abi: invalid returns clause %q: %w", retPart, err)
		}
		outputs, err := parseOutputList(outParams)
		if err != nil {
			return Fragment{}, err
		}
		frag.Outputs = outputs
	}
	return frag, nil
}

func parseEvent(rest string) (Fragment, error) {
	name, paramStr, tail, err := splitNameAndParens(rest)
	if err != nil {
		return Fragment{}, err
	}
	inputs, err := parseInputList(paramStr)
	if err != nil {
		return Fragment{}, err
	}
	anon := false
	for _, w := range strings.Fields(tail) {
		if w == "anonymous" {
			anon = true
		}
	}
	return Fragment{Kind: KindEvent, Name: name, Inputs: inputs, Anonymous: anon}, nil
}

func parseConstructor(rest string) (Fragment, error) {
	_, paramStr, tail, err := splitNameAndParens("x" + rest)
	if err != nil {
		return Fragment{}, err
	}
	inputs, err := parseInputList(paramStr)
	if err != nil {
		return Fragment{}, err
	}
	frag := Fragment{Kind: KindConstructor, Inputs: inputs, StateMutability: Nonpayable}
	for _, w := range strings.Fields(tail) {
		if w == "payable" {
			frag.StateMutability = Payable
		}
	}
	return frag, nil
}

func parseFallback(rest string) (Fragment, error) {
	frag := Fragment{Kind: KindFallback, StateMutability: Nonpayable}
	for _, w := range strings.Fields(rest) {
		if w == "payable" {
			frag.StateMutability = Payable
		}
	}
	return frag, nil
}
