package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simcase/internal/value"
)

func TestReadJSONPreservesSectionOrder(t *testing.T) {
	input := `{
"simulation_info": {"uuid": "run-1"}
, "driver_info_1": {"name": "d"}
, "iteration_case_1": {"_id": "c1"}
, "iteration_case_2": {"_id": "c2"}
}`
	doc, err := ReadJSON(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"simulation_info", "driver_info_1", "iteration_case_1", "iteration_case_2",
	}, doc.Keys())
	assert.Len(t, doc.DriverInfos(), 1)
	assert.Len(t, doc.Cases(), 2)
}

func TestReadJSONPreservesKeyOrderInsideSections(t *testing.T) {
	input := `{"s": {"zebra": 1, "apple": 2, "mango": 3}}`
	doc, err := ReadJSON(strings.NewReader(input))
	require.NoError(t, err)

	v, ok := doc.Get("s")
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, v.(*value.Object).Keys())
}

func TestReadJSONNumberTypes(t *testing.T) {
	input := `{"s": {"i": 42, "neg": -3, "f": 1.5, "exp": 1e3, "big": 123456789012345678901234567890}}`
	doc, err := ReadJSON(strings.NewReader(input))
	require.NoError(t, err)

	s, _ := doc.Get("s")
	obj := s.(*value.Object)

	i, _ := obj.Get("i")
	assert.Equal(t, value.Int(42), i)
	neg, _ := obj.Get("neg")
	assert.Equal(t, value.Int(-3), neg)
	f, _ := obj.Get("f")
	assert.Equal(t, value.Float(1.5), f)
	exp, _ := obj.Get("exp")
	assert.Equal(t, value.Float(1000), exp)
	// Integers beyond int64 degrade to float rather than failing.
	big, _ := obj.Get("big")
	_, isFloat := big.(value.Float)
	assert.True(t, isFloat)
}

func TestReadJSONNestedStructures(t *testing.T) {
	input := `{"s": {"arr": [1, [2, 3], {"k": null}], "b": true}}`
	doc, err := ReadJSON(strings.NewReader(input))
	require.NoError(t, err)

	s, _ := doc.Get("s")
	arr, _ := s.(*value.Object).Get("arr")
	want := value.Array{
		value.Int(1),
		value.Array{value.Int(2), value.Int(3)},
		value.FromPairs(value.Pair{Key: "k", Val: value.Null{}}),
	}
	assert.Equal(t, want, arr)
}

func TestReadJSONRootNotObject(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[1, 2]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an object")
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"a": `))
	assert.Error(t, err)
}

func TestParseJSONValue(t *testing.T) {
	v, err := ParseJSON([]byte(`{"x": 2, "y": [4.5]}`))
	require.NoError(t, err)
	obj := v.(*value.Object)
	assert.Equal(t, []string{"x", "y"}, obj.Keys())
}
