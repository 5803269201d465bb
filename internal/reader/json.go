package reader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/simcase/internal/value"
)

// ParseJSON decodes a single JSON value, preserving object key order.
func ParseJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

// ReadJSON parses a recorded text document. Unlike a plain
// encoding/json unmarshal into a map, the token-level decode preserves
// key order, so the document's emission order survives the round trip.
func ReadJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	obj, ok := root.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("read document: root is not an object")
	}

	doc := &Document{}
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		doc.Sections = append(doc.Sections, Section{Key: key, Value: v})
	}
	return doc, nil
}

// decodeValue decodes the next JSON value from the token stream into the
// value model, preserving object key order.
func decodeValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return value.String(t), nil
	case bool:
		return value.Bool(t), nil
	case nil:
		return value.Null{}, nil
	case json.Number:
		return numberValue(t)
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (value.Value, error) {
	obj := value.NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj.Set(key, v)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (value.Value, error) {
	arr := value.Array{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(arr), err)
		}
		arr = append(arr, v)
	}
	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func numberValue(n json.Number) (value.Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err == nil {
			return value.Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", s, err)
	}
	return value.Float(f), nil
}
