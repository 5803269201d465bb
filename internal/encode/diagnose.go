package encode

import (
	"log/slog"
	"slices"

	"github.com/roach88/simcase/internal/value"
)

// Func encodes one value. Both MarshalJSON (with options bound) and
// MarshalBSON fit this shape.
type Func func(v value.Value) ([]byte, error)

// EncodeSection encodes a record section, diagnosing failures per key.
//
// On the happy path the section encodes wholesale and no diagnosis runs.
// On failure, each top-level key is re-encoded in isolation to find the
// offending ones. If the first bad key (in sorted order) is one of the
// caller's drillable subcategories and holds a nested mapping, diagnosis
// re-runs once on that nested mapping under the label
// "<category>.<key>", exactly one level deep, never recursively.
//
// One error line is logged per bad key, then a single EncodingError is
// returned naming the category, the bad keys, and the underlying encoder
// error. The overall call still fails: diagnosis narrows the report, it
// never swallows the failure.
func EncodeSection(enc Func, format Format, obj *value.Object, category string, subcategories []string, logger *slog.Logger) ([]byte, error) {
	data, err := enc(obj)
	if err == nil {
		return data, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	bad := badKeys(enc, obj)

	if len(subcategories) > 0 && len(bad) > 0 && slices.Contains(subcategories, bad[0]) {
		if sub, ok := drillTarget(obj, bad[0]); ok {
			category = category + "." + bad[0]
			obj = sub
			bad = badKeys(enc, obj)
		}
	}

	logger.Error(string(format)+" write failed", "category", category)
	for _, key := range bad {
		v, _ := obj.Get(key)
		logger.Error("unencodable key", "category", category, "key", key, "value", value.Describe(v))
	}

	return nil, &EncodingError{
		Format:   format,
		Category: category,
		Keys:     bad,
		Err:      err,
	}
}

// badKeys re-encodes each top-level value in isolation and returns the
// keys that individually fail, in sorted order.
func badKeys(enc Func, obj *value.Object) []string {
	var bad []string
	for _, key := range obj.SortedKeys() {
		v, _ := obj.Get(key)
		if _, err := enc(v); err != nil {
			bad = append(bad, key)
		}
	}
	return bad
}

// drillTarget returns the nested mapping under key, if it is one.
func drillTarget(obj *value.Object, key string) (*value.Object, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*value.Object)
	return sub, ok
}
