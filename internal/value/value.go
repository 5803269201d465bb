package value

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface representing the closed set of encodable types.
// Only Null, Bool, Int, Float, String, Array, Object, and Opaque implement it.
//
// Opaque is the escape hatch: conversion from Go values never fails, and
// anything outside the closed set is carried as an Opaque leaf that the
// encoders reject. This keeps validation at encode time, where the fault
// diagnoser can narrow a failure to the exact offending keys.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an explicit null value.
type Null struct{}

func (Null) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) value() {}

// Float represents a floating-point value.
type Float float64

func (Float) value() {}

// String represents a string value.
type String string

func (String) value() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) value() {}

// Opaque wraps a Go value outside the encodable set.
// Encoders fail when they reach one; nothing else inspects it.
type Opaque struct {
	V any
}

func (Opaque) value() {}

// Describe returns a short textual rendering of a value for diagnostics.
// Opaque values render as their Go representation so an error log points
// at the actual unencodable payload.
func Describe(v Value) string {
	switch val := v.(type) {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case String:
		return strconv.Quote(string(val))
	case Array:
		return fmt.Sprintf("array[%d]", len(val))
	case *Object:
		return fmt.Sprintf("object{%d keys}", val.Len())
	case Opaque:
		return fmt.Sprintf("%#v", val.V)
	default:
		return fmt.Sprintf("unknown value type %T", v)
	}
}
