package value

import (
	"slices"
	"sort"
)

// Object represents a string-keyed mapping that remembers insertion order.
// The recorded document's section ordering is significant, so a plain Go map
// cannot serve here; keys iterate in the order they were first set unless a
// caller asks for sorted order explicitly.
type Object struct {
	keys []string
	vals map[string]Value
}

func (*Object) value() {}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Pair represents a key-value pair for ordered object construction.
type Pair struct {
	Key string
	Val Value
}

// FromPairs creates an Object preserving the given pair order.
func FromPairs(pairs ...Pair) *Object {
	obj := NewObject()
	for _, p := range pairs {
		obj.Set(p.Key, p.Val)
	}
	return obj
}

// Set inserts or replaces a key. A replaced key keeps its original position.
func (o *Object) Set(key string, v Value) {
	if o.vals == nil {
		o.vals = make(map[string]Value)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// SortedKeys returns the keys in lexical order. The slice is a copy.
func (o *Object) SortedKeys() []string {
	keys := slices.Clone(o.keys)
	sort.Strings(keys)
	return keys
}
