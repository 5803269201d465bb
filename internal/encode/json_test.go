package encode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simcase/internal/value"
)

func obj(pairs ...value.Pair) *value.Object {
	return value.FromPairs(pairs...)
}

func TestMarshalJSONScalars(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"null", value.Null{}, "null"},
		{"true", value.Bool(true), "true"},
		{"int", value.Int(-42), "-42"},
		{"float", value.Float(1.5), "1.5"},
		{"float whole", value.Float(4), "4"},
		{"string", value.String("hi"), `"hi"`},
		{"empty array", value.Array{}, "[]"},
		{"empty object", value.NewObject(), "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalJSON(tt.v, JSONOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalJSONCompactSeparators(t *testing.T) {
	v := obj(
		value.Pair{Key: "a", Val: value.Int(1)},
		value.Pair{Key: "b", Val: value.Array{value.Int(1), value.Int(2)}},
	)
	got, err := MarshalJSON(v, JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1, "b": [1, 2]}`, string(got))
}

func TestMarshalJSONIndented(t *testing.T) {
	v := obj(
		value.Pair{Key: "a", Val: value.Int(1)},
		value.Pair{Key: "b", Val: obj(value.Pair{Key: "c", Val: value.Int(2)})},
	)
	got, err := MarshalJSON(v, JSONOptions{Indent: 4})
	require.NoError(t, err)
	want := "{\n" +
		"    \"a\": 1,\n" +
		"    \"b\": {\n" +
		"        \"c\": 2\n" +
		"    }\n" +
		"}"
	assert.Equal(t, want, string(got))
}

func TestMarshalJSONSortKeys(t *testing.T) {
	v := obj(
		value.Pair{Key: "zebra", Val: value.Int(1)},
		value.Pair{Key: "apple", Val: value.Int(2)},
	)

	got, err := MarshalJSON(v, JSONOptions{SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"apple": 2, "zebra": 1}`, string(got))

	got, err = MarshalJSON(v, JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"zebra": 1, "apple": 2}`, string(got))
}

func TestMarshalJSONDeterministic(t *testing.T) {
	v := obj(
		value.Pair{Key: "x", Val: value.Array{value.Float(2.0), value.Float(4.0)}},
		value.Pair{Key: "y", Val: value.String("ok")},
	)
	first, err := MarshalJSON(v, JSONOptions{Indent: 4, SortKeys: true})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalJSON(v, JSONOptions{Indent: 4, SortKeys: true})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMarshalJSONFloatNotation(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0, "0"},
		{1e-6, "0.000001"},
		{1e-7, "1e-07"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		got, err := MarshalJSON(value.Float(tt.f), JSONOptions{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got), "float %v", tt.f)
	}
}

func TestMarshalJSONNonFiniteFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalJSON(value.Float(f), JSONOptions{})
		require.Error(t, err)
		assert.True(t, IsEncodingError(err))
	}
}

func TestMarshalJSONStringEscapes(t *testing.T) {
	got, err := MarshalJSON(value.String("a\"b\\c\nd\te\x01"), JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, "\"a\\\"b\\\\c\\nd\\te\\u0001\"", string(got))
}

func TestMarshalJSONNoHTMLEscaping(t *testing.T) {
	got, err := MarshalJSON(value.String("<x> & y"), JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, `"<x> & y"`, string(got))
}

func TestMarshalJSONOpaqueFails(t *testing.T) {
	v := obj(value.Pair{Key: "bad", Val: value.Opaque{V: make(chan int)}})
	_, err := MarshalJSON(v, JSONOptions{})
	require.Error(t, err)

	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, FormatJSON, ee.Format)
	assert.Contains(t, ee.Error(), "chan int")
}

func TestMarshalJSONSubTree(t *testing.T) {
	// Any sub-tree of a record must encode in isolation; the fault
	// diagnoser depends on probing single values.
	for _, v := range []value.Value{
		value.Int(1),
		value.Array{value.Float(2.0)},
		obj(value.Pair{Key: "k", Val: value.Null{}}),
	} {
		_, err := MarshalJSON(v, JSONOptions{Indent: 4})
		assert.NoError(t, err)
	}
}
