package store

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/simcase/internal/value"
)

// marshalStable produces the deterministic JSON used for content hashes
// and stored record text. It differs from the wire encoding in ways that
// matter for hashing, not for readers:
//
//  1. Object keys sorted by UTF-16 code units (RFC 8785 ordering)
//  2. Strings NFC normalized
//  3. No indentation, no HTML escaping
//
// Opaque leaves and non-finite floats fail, same as the wire encoders.
func marshalStable(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeStable(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeStable(buf *bytes.Buffer, v value.Value) error {
	switch val := v.(type) {
	case value.Null:
		buf.WriteString("null")
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case value.Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case value.Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite float %v has no stable encoding", f)
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case value.String:
		writeStableString(buf, string(val))
	case value.Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeStable(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *value.Object:
		keys := val.Keys()
		slices.SortFunc(keys, compareUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeStableString(buf, k)
			buf.WriteByte(':')
			elem, _ := val.Get(k)
			if err := writeStable(buf, elem); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case value.Opaque:
		return fmt.Errorf("cannot hash value of type %T", val.V)
	default:
		return fmt.Errorf("unknown value type %T", v)
	}
	return nil
}

// writeStableString quotes an NFC-normalized string without HTML escaping.
func writeStableString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
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

// compareUTF16 compares strings by UTF-16 code units, the RFC 8785 key
// order. Go's native string comparison works over UTF-8 bytes and
// produces a different order for supplementary-plane characters.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
