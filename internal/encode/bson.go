package encode

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roach88/simcase/internal/value"
)

// MarshalBSON encodes a value as a BSON document. Objects encode directly;
// any other value is wrapped as a single-field document so the fault
// diagnoser can probe arbitrary sub-trees, scalars included.
//
// BSON has no pretty-printing concept, so there are no options.
// Returns an EncodingError when any reachable value is an Opaque leaf.
func MarshalBSON(v value.Value) ([]byte, error) {
	converted, err := toBSON(v)
	if err != nil {
		return nil, err
	}
	if doc, ok := converted.(bson.D); ok {
		data, err := bson.Marshal(doc)
		if err != nil {
			return nil, &EncodingError{Format: FormatBSON, Message: "marshal document", Err: err}
		}
		return data, nil
	}
	data, err := bson.Marshal(bson.D{{Key: "value", Value: converted}})
	if err != nil {
		return nil, &EncodingError{Format: FormatBSON, Message: "marshal value", Err: err}
	}
	return data, nil
}

// BSONEncoder is the binary encode function in the shape the fault
// diagnoser consumes.
func BSONEncoder() Func {
	return MarshalBSON
}

// toBSON converts a value tree into mongo-driver types, preserving object
// key order via bson.D.
func toBSON(v value.Value) (any, error) {
	switch val := v.(type) {
	case value.Null:
		return primitive.Null{}, nil
	case value.Bool:
		return bool(val), nil
	case value.Int:
		return int64(val), nil
	case value.Float:
		return float64(val), nil
	case value.String:
		return string(val), nil
	case value.Array:
		arr := make(bson.A, len(val))
		for i, elem := range val {
			converted, err := toBSON(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = converted
		}
		return arr, nil
	case *value.Object:
		doc := make(bson.D, 0, val.Len())
		for _, k := range val.Keys() {
			elem, _ := val.Get(k)
			converted, err := toBSON(elem)
			if err != nil {
				return nil, err
			}
			doc = append(doc, bson.E{Key: k, Value: converted})
		}
		return doc, nil
	case value.Opaque:
		return nil, unsupportedError(FormatBSON, fmt.Sprintf("cannot encode value of type %T", val.V))
	default:
		return nil, unsupportedError(FormatBSON, fmt.Sprintf("unknown value type %T", v))
	}
}

// FromBSON converts decoded mongo-driver data back into the value model.
// Used by the reader side; key order of bson.D documents is preserved.
func FromBSON(v any) value.Value {
	switch val := v.(type) {
	case nil, primitive.Null:
		return value.Null{}
	case bool:
		return value.Bool(val)
	case int32:
		return value.Int(val)
	case int64:
		return value.Int(val)
	case float64:
		return value.Float(val)
	case string:
		return value.String(val)
	case primitive.A:
		arr := make(value.Array, len(val))
		for i, elem := range val {
			arr[i] = FromBSON(elem)
		}
		return arr
	case bson.D:
		obj := value.NewObject()
		for _, e := range val {
			obj.Set(e.Key, FromBSON(e.Value))
		}
		return obj
	}
	return value.Opaque{V: v}
}
