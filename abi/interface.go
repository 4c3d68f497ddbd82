package abi

import "fmt"

// Interface is a parsed contract ABI: a set of fragments indexed for fast
// lookup by name, selector, and event topic.
type Interface struct {
	Fragments   []Fragment
	Constructor *Fragment

	byName     map[string][]Fragment
	bySelector map[[4]byte]Fragment
	byTopic0   map[[32]byte]Fragment
}

// NewInterface indexes a fragment list. Fragments sharing a name
// (overloads) are kept together under that name and disambiguated by
// argument count/selector at call time.
func NewInterface(fragments []Fragment) *Interface {
	iface := &Interface{
		Fragments:  fragments,
		byName:     make(map[string][]Fragment),
		bySelector: make(map[[4]byte]Fragment),
		byTopic0:   make(map[[32]byte]Fragment),
	}
	for _, f := range fragments {
		switch f.Kind {
		case KindConstructor:
			fCopy := f
			iface.Constructor = &fCopy
		case KindFunction, KindError:
			iface.byName[f.Name] = append(iface.byName[f.Name], f)
			iface.bySelector[f.Selector()] = f
		case KindEvent:
			iface.byName[f.Name] = append(iface.byName[f.Name], f)
			iface.byTopic0[f.Topic0()] = f
		}
	}
	return iface
}

// ParseInterface parses a slice of terse human-readable fragment strings.
func ParseInterface(decls []string) (*Interface, error) {
	frags := make([]Fragment, 0, len(decls))
	for _, d := range decls {
		f, err := ParseFragment(d)
		if err != nil {
			return nil, err
		}
		frags = append(frags, f)
	}
	return NewInterface(frags), nil
}

// Function looks up a function or error fragment by name, resolving
// overloads (multiple fragments sharing the name) by matching the given
// argument count. It returns an error if no candidate matches, or if more
// than one candidate shares that arity — an ambiguous overload directs
// callers to disambiguate by full signature instead, via FunctionBySignature.
func (i *Interface) Function(name string, argc int) (Fragment, error) {
	candidates := i.byName[name]
	if len(candidates) == 0 {
		return Fragment{}, fmt.Errorf("abi: no function or error named %q", name)
	}
	var match *Fragment
	for idx := range candidates {
		c := candidates[idx]
		if (c.Kind == KindFunction || c.Kind == KindError) && len(c.Inputs) == argc {
			if match != nil {
				return Fragment{}, fmt.Errorf("abi: ambiguous overload %q with %d args, use FunctionBySignature", name, argc)
			}
			match = &c
		}
	}
	if match == nil {
		return Fragment{}, fmt.Errorf("abi: no overload of %q takes %d args", name, argc)
	}
	return *match, nil
}

// FunctionBySignature looks up a function/error fragment by its exact
// "name(type,type,...)" signature, the unambiguous way to select among
// overloads.
func (i *Interface) FunctionBySignature(signature string) (Fragment, error) {
	for _, f := range i.Fragments {
		if (f.Kind == KindFunction || f.Kind == KindError) && f.Signature() == signature {
			return f, nil
		}
	}
	return Fragment{}, fmt.Errorf("abi: no function or error with signature %q", signature)
}

// FunctionBySelector looks up a function/error fragment by its 4-byte
// selector, as extracted from the first 4 bytes of call data.
func (i *Interface) FunctionBySelector(sel [4]byte) (Fragment, bool) {
	f, ok := i.bySelector[sel]
	return f, ok
}

// Event looks up an event fragment by name, resolving overloads by input
// count the same way Function does.
func (i *Interface) Event(name string, argc int) (Fragment, error) {
	candidates := i.byName[name]
	var match *Fragment
	for idx := range candidates {
		c := candidates[idx]
		if c.Kind == KindEvent && len(c.Inputs) == argc {
			if match != nil {
				return Fragment{}, fmt.Errorf("abi: ambiguous event overload %q with %d args", name, argc)
			}
			match = &c
		}
	}
	if match == nil {
		return Fragment{}, fmt.Errorf("abi: no event %q with %d args", name, argc)
	}
	return *match, nil
}

// EventByTopic0 looks up an event fragment by its topic0 hash, as found in
// a log's first topic.
func (i *Interface) EventByTopic0(topic0 [32]byte) (Fragment, bool) {
	f, ok := i.byTopic0[topic0]
	return f, ok
}

// EncodeFunctionData builds the call data for invoking fn with args:
// selector || head/tail-encoded arguments.
func EncodeFunctionData(fn Fragment, args []interface{}) ([]byte, error) {
	enc, err := EncodeArguments(fn.inputTypes(), args)
	if err != nil {
		return nil, fmt.Errorf("abi: encoding call to %s: %w", fn.Signature(), err)
	}
	sel := fn.Selector()
	out := make([]byte, 0, 4+len(enc))
	out = append(out, sel[:]...)
	return append(out, enc...), nil
}

// DecodeFunctionData strips and verifies fn's selector from data and
// decodes the remaining bytes as fn's input arguments.
func DecodeFunctionData(fn Fragment, data []byte) ([]interface{}, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("abi: call data shorter than a selector")
	}
	var got [4]byte
	copy(got[:], data[:4])
	if got != fn.Selector() {
		return nil, fmt.Errorf("abi: selector %x does not match %s", got, fn.Signature())
	}
	return DecodeArguments(fn.inputTypes(), data[4:])
}

// DecodeFunctionResult decodes a function call's return data against fn's
// declared outputs.
func DecodeFunctionResult(fn Fragment, data []byte) ([]interface{}, error) {
	vals, err := DecodeArguments(fn.outputTypes(), data)
	if err != nil {
		return nil, fmt.Errorf("abi: decoding result of %s: %w", fn.Signature(), err)
	}
	return vals, nil
}

// Results is a decoded return-value list with both positional and
// name-based access: spec.md §4.D requires every decoded result tuple to
// expose named aliases for outputs that declare a (possibly
// parser-assigned) name, alongside the plain ordered list.
type Results struct {
	Values []interface{}
	names  map[string]int
}

// At returns the i'th positional result.
func (r Results) At(i int) interface{} { return r.Values[i] }

// Len is the number of results.
func (r Results) Len() int { return len(r.Values) }

// Get looks up a result by its output name (including parser-assigned
// "argN" aliases).
func (r Results) Get(name string) (interface{}, bool) {
	i, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.Values[i], true
}

// DecodeFunctionResultNamed is DecodeFunctionResult plus name-based lookup
// over fn's declared (or default "argN") output names.
func DecodeFunctionResultNamed(fn Fragment, data []byte) (Results, error) {
	vals, err := DecodeFunctionResult(fn, data)
	if err != nil {
		return Results{}, err
	}
	names := make(map[string]int, len(fn.Outputs))
	for i, o := range fn.Outputs {
		if o.Name != "" {
			names[o.Name] = i
		}
	}
	return Results{Values: vals, names: names}, nil
}

// DecodeErrorResult decodes revert data against a declared custom error,
// mirroring DecodeFunctionData's selector-then-arguments shape.
func DecodeErrorResult(errFrag Fragment, data []byte) ([]interface{}, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("abi: revert data shorter than a selector")
	}
	var got [4]byte
	copy(got[:], data[:4])
	if got != errFrag.Selector() {
		return nil, fmt.Errorf("abi: selector %x does not match error %s", got, errFrag.Signature())
	}
	return DecodeArguments(errFrag.inputTypes(), data[4:])
}

// EncodeDeploy builds constructor deployment data: runtime bytecode
// followed by head/tail-encoded constructor arguments (there is no
// selector — constructors are identified by position, not a 4-byte hash).
func EncodeDeploy(ctor *Fragment, bytecode []byte, args []interface{}) ([]byte, error) {
	if ctor == nil {
		if len(args) != 0 {
			return nil, fmt.Errorf("abi: constructor takes no arguments but %d were given", len(args))
		}
		return bytecode, nil
	}
	enc, err := EncodeArguments(ctor.inputTypes(), args)
	if err != nil {
		return nil, fmt.Errorf("abi: encoding constructor args: %w", err)
	}
	out := make([]byte, 0, len(bytecode)+len(enc))
	out = append(out, bytecode...)
	return append(out, enc...), nil
}

// EncodeEventTopics builds the topic filter list for querying logs of an
// event: topic0 followed by one entry per indexed parameter (nil for a
// wildcard match on that position).
func EncodeEventTopics(ev Fragment, indexedArgs []interface{}) ([][32]byte, error) {
	topics := make([][32]byte, 0, len(ev.Inputs)+1)
	topics = append(topics, ev.Topic0())
	argIdx := 0
	for _, in := range ev.Inputs {
		if !in.Indexed {
			continue
		}
		if argIdx >= len(indexedArgs) || indexedArgs[argIdx] == nil {
			argIdx++
			continue
		}
		t, err := EncodeIndexedTopic(in.Type, indexedArgs[argIdx])
		if err != nil {
			return nil, fmt.Errorf("abi: encoding topic for %s: %w", in.Name, err)
		}
		topics = append(topics, t)
		argIdx++
	}
	return topics, nil
}

// DecodedLog is an event log decoded against its fragment: indexed values
// recovered where possible (dynamic indexed parameters only recover their
// keccak256 hash, never the original value — see EncodeIndexedTopic), plus
// the non-indexed values from the log's data, in declaration order.
type DecodedLog struct {
	Name      string
	Values    []interface{} // full parameter order, indexed slots filled from topics
	NonIndex  []interface{} // just the non-indexed values, in declaration order
	Anonymous bool
}

// DecodeEventLog decodes one log's topics and data against ev.
func DecodeEventLog(ev Fragment, topics [][32]byte, data []byte) (DecodedLog, error) {
	topicOffset := 0
	if !ev.Anonymous {
		if len(topics) == 0 {
			return DecodedLog{}, fmt.Errorf("abi: log has no topics, expected topic0 for %s", ev.Signature())
		}
		topicOffset = 1
	}

	var nonIndexedTypes []Type
	for _, in := range ev.Inputs {
		if !in.Indexed {
			nonIndexedTypes = append(nonIndexedTypes, in.Type)
		}
	}
	nonIndexed, err := DecodeArguments(nonIndexedTypes, data)
	if err != nil {
		return DecodedLog{}, fmt.Errorf("abi: decoding data of %s: %w", ev.Signature(), err)
	}

	values := make([]interface{}, len(ev.Inputs))
	topicIdx := topicOffset
	dataIdx := 0
	for i, in := range ev.Inputs {
		if in.Indexed {
			if topicIdx >= len(topics) {
				return DecodedLog{}, fmt.Errorf("abi: log missing topic for indexed param %q", in.Name)
			}
			if in.Type.IsDynamic() {
				values[i] = topics[topicIdx] // only the hash is recoverable
			} else {
				v, err := decodeValue(in.Type, topics[topicIdx][:])
				if err != nil {
					return DecodedLog{}, fmt.Errorf("abi: decoding topic for %q: %w", in.Name, err)
				}
				values[i] = v
			}
			topicIdx++
		} else {
			values[i] = nonIndexed[dataIdx]
			dataIdx++
		}
	}

	return DecodedLog{Name: ev.Name, Values: values, NonIndex: nonIndexed, Anonymous: ev.Anonymous}, nil
}
