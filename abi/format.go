package abi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatMode selects how Fragment.Format renders a fragment: round-tripping
// between the three textual forms an ABI item can take.
type FormatMode int

const (
	// FormatSighash renders just "name(type,type,...)" — the signature
	// string selectors and topics are hashed from.
	FormatSighash FormatMode = iota
	// FormatFull renders the complete human-readable terse declaration,
	// including names, modifiers, and the returns clause.
	FormatFull
	// FormatJSON renders the standard Solidity ABI JSON fragment.
	FormatJSON
)

// Format renders f according to mode. FormatJSON never fails; FormatSighash
// and FormatFull are always representable too, so Format itself never
// returns an error — JSON marshaling failures are only possible from
// malformed types, which ParseFragment/ParseFragmentJSON already reject.
func (f Fragment) Format(mode FormatMode) string {
	switch mode {
	case FormatSighash:
		return f.Signature()
	case FormatJSON:
		b, err := json.Marshal(f.toJSON())
		if err != nil {
			return fmt.Sprintf(`{"error":%q}`, err.Error())
		}
		return string(b)
	default:
		return f.formatFull()
	}
}

func (f Fragment) formatFull() string {
	var b strings.Builder
	b.WriteString(string(f.Kind))
	if f.Name != "" {
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte('(')
	b.WriteString(formatParamList(f.Inputs, f.Kind == KindEvent))
	b.WriteByte(')')
	if f.Anonymous {
		b.WriteString(" anonymous")
	}
	if f.StateMutability != "" && f.StateMutability != Nonpayable {
		b.WriteByte(' ')
		b.WriteString(string(f.StateMutability))
	}
	if len(f.Outputs) > 0 {
		outs := make([]Input, len(f.Outputs))
		for i, o := range f.Outputs {
			outs[i] = Input{Name: o.Name, Type: o.Type}
		}
		b.WriteString(" returns (")
		b.WriteString(formatParamList(outs, false))
		b.WriteByte(')')
	}
	return b.String()
}

func formatParamList(inputs []Input, withIndexed bool) string {
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		s := in.Type.Canonical()
		if withIndexed && in.Indexed {
			s += " indexed"
		}
		if in.Name != "" {
			s += " " + in.Name
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// --- JSON ABI interop --------------------------------------------------

type jsonParam struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Indexed    bool        `json:"indexed,omitempty"`
	Components []jsonParam `json:"components,omitempty"`
}

type jsonFragment struct {
	Type            string      `json:"type"`
	Name            string      `json:"name,omitempty"`
	Inputs          []jsonParam `json:"inputs,omitempty"`
	Outputs         []jsonParam `json:"outputs,omitempty"`
	StateMutability string      `json:"stateMutability,omitempty"`
	Anonymous       bool        `json:"anonymous,omitempty"`
}

func (f Fragment) toJSON() jsonFragment {
	jf := jsonFragment{
		Type:            string(f.Kind),
		Name:            f.Name,
		StateMutability: string(f.StateMutability),
		Anonymous:       f.Anonymous,
	}
	for _, in := range f.Inputs {
		jp := toJSONParam(in.Name, in.Type)
		jp.Indexed = in.Indexed
		jf.Inputs = append(jf.Inputs, jp)
	}
	for _, o := range f.Outputs {
		jf.Outputs = append(jf.Outputs, toJSONParam(o.Name, o.Type))
	}
	return jf
}

func toJSONParam(name string, t Type) jsonParam {
	jp := jsonParam{Name: name, Type: jsonTypeString(t)}
	base := t
	for base.Kind == KindArray || base.Kind == KindSlice {
		base = *base.Elem
	}
	if base.Kind == KindTuple {
		for _, c := range base.Components {
			jp.Components = append(jp.Components, toJSONParam(c.Name, c.Type))
		}
	}
	return jp
}

func jsonTypeString(t Type) string {
	switch t.Kind {
	case KindArray:
		return fmt.Sprintf("%s[%d]", jsonTypeString(*t.Elem), t.ArrayLen)
	case KindSlice:
		return jsonTypeString(*t.Elem) + "[]"
	case KindTuple:
		return "tuple"
	default:
		return t.Canonical()
	}
}

// ParseFragmentJSON parses one standard Solidity ABI JSON fragment object.
func ParseFragmentJSON(raw []byte) (Fragment, error) {
	var jf jsonFragment
	if err := json.Unmarshal(raw, &jf); err != nil {
		return Fragment{}, fmt.Errorf("abi: invalid JSON fragment: %w", err)
	}
	frag := Fragment{
		Kind:            FragmentKind(jf.Type),
		Name:            jf.Name,
		StateMutability: StateMutability(jf.StateMutability),
		Anonymous:       jf.Anonymous,
	}
	for _, jp := range jf.Inputs {
		t, err := fromJSONParam(jp)
		if err != nil {
			return Fragment{}, err
		}
		frag.Inputs = append(frag.Inputs, Input{Name: jp.Name, Type: t, Indexed: jp.Indexed})
	}
	for _, jp := range jf.Outputs {
		t, err := fromJSONParam(jp)
		if err != nil {
			return Fragment{}, err
		}
		frag.Outputs = append(frag.Outputs, Output{Name: jp.Name, Type: t})
	}
	assignDefaultInputNames(frag.Inputs)
	assignDefaultOutputNames(frag.Outputs)
	if frag.Kind == KindFunction && frag.StateMutability == "" {
		frag.StateMutability = Nonpayable
	}
	return frag, nil
}

// ParseInterfaceJSON parses a full ABI JSON array into fragments.
func ParseInterfaceJSON(raw []byte) ([]Fragment, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("abi: invalid ABI JSON array: %w", err)
	}
	out := make([]Fragment, 0, len(items))
	for _, item := range items {
		f, err := ParseFragmentJSON(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func fromJSONParam(jp jsonParam) (Type, error) {
	base := jp.Type
	var suffix string
	for {
		idx := strings.LastIndexByte(base, '[')
		if idx < 0 || !strings.HasSuffix(base, "]") {
			break
		}
		suffix = base[idx:] + suffix
		base = base[:idx]
	}

	var core Type
	if base == "tuple" {
		comps := make([]Component, len(jp.Components))
		for i, c := range jp.Components {
			ct, err := fromJSONParam(c)
			if err != nil {
				return Type{}, err
			}
			comps[i] = Component{Name: c.Name, Type: ct}
		}
		core = Type{Kind: KindTuple, Components: comps}
	} else {
		t, _, rem, err := parseTypeAndSuffixes(base)
		if err != nil {
			return Type{}, fmt.Errorf("abi: json type %q: %w", jp.Type, err)
		}
		if rem != "" {
			return Type{}, fmt.Errorf("abi: unexpected trailing %q in json type %q", rem, jp.Type)
		}
		core = t
	}

	wrapped, rem, err := applyArraySuffixes(core, suffix)
	if err != nil {
		return Type{}, fmt.Errorf("abi: json type %q: %w", jp.Type, err)
	}
	if rem != "" {
		return Type{}, fmt.Errorf("abi: unparsed suffix %q in json type %q", rem, jp.Type)
	}
	return wrapped, nil
}
