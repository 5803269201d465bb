package value

import (
	"reflect"
	"sort"
)

// FromGo converts an arbitrary Go value into the encodable value model.
// The conversion is total: numeric n-dimensional slices and arrays flatten
// to nested sequences, string-keyed maps become ordered objects (sorted key
// order, since Go map iteration order is undefined), and anything outside
// the closed set is wrapped as an Opaque leaf rather than rejected here.
func FromGo(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case int:
		return Int(val)
	case int8:
		return Int(val)
	case int16:
		return Int(val)
	case int32:
		return Int(val)
	case int64:
		return Int(val)
	case uint:
		return Int(val)
	case uint8:
		return Int(val)
	case uint16:
		return Int(val)
	case uint32:
		return Int(val)
	case uint64:
		return Int(val)
	case float32:
		return Float(val)
	case float64:
		return Float(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			arr[i] = FromGo(elem)
		}
		return arr
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromGo(val[k]))
		}
		return obj
	}
	return fromReflect(reflect.ValueOf(v))
}

// fromReflect handles typed slices, arrays, and string-keyed maps, e.g.
// []float64, [][]int, or map[string]float64. Arrays are never treated as
// opaque blobs: every dimension becomes a nested sequence.
func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			arr[i] = FromGo(rv.Index(i).Interface())
		}
		return arr
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Opaque{V: rv.Interface()}
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromGo(rv.MapIndex(reflect.ValueOf(k)).Interface()))
		}
		return obj
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return FromGo(rv.Elem().Interface())
	}
	return Opaque{V: rv.Interface()}
}

// ToGo converts a value back to plain Go data: objects become
// map[string]any (insertion order is lost), arrays become []any.
// Opaque leaves return their wrapped Go value unchanged.
func ToGo(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	case *Object:
		out := make(map[string]any, val.Len())
		for _, k := range val.Keys() {
			elem, _ := val.Get(k)
			out[k] = ToGo(elem)
		}
		return out
	case Opaque:
		return val.V
	}
	return nil
}
