package encode

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/simcase/internal/value"
)

// JSONOptions control the text encoding.
type JSONOptions struct {
	// Indent is the number of spaces per nesting level.
	// Zero or negative produces single-line output.
	Indent int

	// SortKeys encodes object keys in lexical order instead of
	// insertion order.
	SortKeys bool
}

// MarshalJSON encodes a value as JSON text. It is deterministic given
// identical input and options, and may be invoked on any sub-tree of a
// record, which the fault diagnoser relies on to probe keys in isolation.
//
// Returns an EncodingError when any reachable value is an Opaque leaf or a
// non-finite float; no partial output is returned.
func MarshalJSON(v value.Value, opts JSONOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, opts, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONEncoder returns an encode function with the options bound, in the
// shape the fault diagnoser consumes.
func JSONEncoder(opts JSONOptions) Func {
	return func(v value.Value) ([]byte, error) {
		return MarshalJSON(v, opts)
	}
}

func writeJSON(buf *bytes.Buffer, v value.Value, opts JSONOptions, depth int) error {
	switch val := v.(type) {
	case value.Null:
		buf.WriteString("null")
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case value.Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case value.Float:
		return writeJSONFloat(buf, float64(val))
	case value.String:
		writeJSONString(buf, string(val))
	case value.Array:
		return writeJSONArray(buf, val, opts, depth)
	case *value.Object:
		return writeJSONObject(buf, val, opts, depth)
	case value.Opaque:
		return unsupportedError(FormatJSON, fmt.Sprintf("cannot encode value of type %T", val.V))
	default:
		return unsupportedError(FormatJSON, fmt.Sprintf("unknown value type %T", v))
	}
	return nil
}

func writeJSONArray(buf *bytes.Buffer, arr value.Array, opts JSONOptions, depth int) error {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeNewlineIndent(buf, opts, depth+1)
		if err := writeJSON(buf, elem, opts, depth+1); err != nil {
			return err
		}
	}
	writeNewlineIndent(buf, opts, depth)
	buf.WriteByte(']')
	return nil
}

func writeJSONObject(buf *bytes.Buffer, obj *value.Object, opts JSONOptions, depth int) error {
	if obj.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	keys := obj.Keys()
	if opts.SortKeys {
		keys = obj.SortedKeys()
	}
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeNewlineIndent(buf, opts, depth+1)
		writeJSONString(buf, k)
		buf.WriteString(": ")
		elem, _ := obj.Get(k)
		if err := writeJSON(buf, elem, opts, depth+1); err != nil {
			return err
		}
	}
	writeNewlineIndent(buf, opts, depth)
	buf.WriteByte('}')
	return nil
}

// writeNewlineIndent starts an indented line when pretty-printing, or a
// single space separator after a comma when compact.
func writeNewlineIndent(buf *bytes.Buffer, opts JSONOptions, depth int) {
	if opts.Indent <= 0 {
		if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == ',' {
			buf.WriteByte(' ')
		}
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", opts.Indent*depth))
}

// writeJSONFloat formats floats the way encoding/json does: fixed notation
// for the common range, exponent notation outside it. Non-finite values
// have no JSON representation and fail the encode.
func writeJSONFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return unsupportedError(FormatJSON, fmt.Sprintf("cannot encode non-finite float %v", f))
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	buf.Write(strconv.AppendFloat(nil, f, format, -1, 64))
	return nil
}

// writeJSONString quotes a string per JSON, without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
