package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the coarse runtime category of a field value. Type-consistency
// checks compare kinds only, never field semantics.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBool
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the JSON value space. Records arrive with no
// schema guarantees, so every field is carried as a Value and inspected by
// kind at analysis time.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	Seq    []Value
	Map    map[string]Value
}

func Text(s string) Value   { return Value{Kind: KindText, Text: s} }
func Integer(n int64) Value { return Value{Kind: KindInteger, Number: float64(n)} }
func Float(f float64) Value { return Value{Kind: KindFloat, Number: f} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Null() Value           { return Value{Kind: KindNull} }

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindText:
		return json.Marshal(v.Text)
	case KindInteger:
		return json.Marshal(int64(v.Number))
	case KindFloat:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindSequence:
		if v.Seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Seq)
	case KindMapping:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	default:
		return nil, fmt.Errorf("feed: cannot marshal value of kind %d", v.Kind)
	}
}

// Display renders the value for report previews. Composite values fall back
// to their JSON encoding.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindText:
		return v.Text
	case KindInteger:
		return strconv.FormatInt(int64(v.Number), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func fromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case string:
		return Value{Kind: KindText, Text: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("feed: bad number %q: %w", t.String(), err)
		}
		if strings.ContainsAny(t.String(), ".eE") {
			return Value{Kind: KindFloat, Number: f}, nil
		}
		return Value{Kind: KindInteger, Number: f}, nil
	case []interface{}:
		seq := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := fromInterface(item)
			if err != nil {
				return Value{}, err
			}
			seq = append(seq, v)
		}
		return Value{Kind: KindSequence, Seq: seq}, nil
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for key, item := range t {
			v, err := fromInterface(item)
			if err != nil {
				return Value{}, err
			}
			m[key] = v
		}
		return Value{Kind: KindMapping, Map: m}, nil
	default:
		return Value{}, fmt.Errorf("feed: unsupported value type %T", raw)
	}
}
