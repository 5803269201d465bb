package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simcase/internal/value"
)

func newTestSession(meta MetadataSource, tokens ...string) *Session {
	return NewSession(meta, FixedClock{T: 10.5}, NewFixedTokens(tokens...))
}

func TestSessionMetadataDenylist(t *testing.T) {
	meta := &StaticMetadata{
		Variables: map[string]map[string]any{
			"x": {
				"units":            "m",
				"desc":             "descriptive only",
				"framework_var":    true,
				"type":             "float",
				"validation_trait": "positive",
			},
		},
	}
	s := newTestSession(meta, "run-1")
	s.Register("step", []string{"x"}, nil)

	info := s.SimulationInfo(nil)
	vm, _ := info.Get("variable_metadata")
	x, ok := vm.(*value.Object).Get("x")
	require.True(t, ok)
	assert.Equal(t, []string{"units"}, x.(*value.Object).Keys())
}

func TestSessionConstantsGetMetadataToo(t *testing.T) {
	meta := &StaticMetadata{
		Variables: map[string]map[string]any{
			"g": {"units": "m/s**2"},
		},
	}
	s := newTestSession(meta, "run-1")

	info := s.SimulationInfo(map[string]any{"g": 9.81, "unknown": 1})
	vm, _ := info.Get("variable_metadata")
	_, ok := vm.(*value.Object).Get("g")
	assert.True(t, ok)
	// Constants without known metadata are skipped, not errors.
	_, ok = vm.(*value.Object).Get("unknown")
	assert.False(t, ok)
}

func TestSessionDriverInfoCapabilityOmission(t *testing.T) {
	meta := &StaticMetadata{
		Steps: map[string]Capabilities{
			"opt": {
				Parameters: []string{"x"},
				Objectives: []string{}, // present but empty
				Responses:  nil,        // absent: field omitted
			},
		},
	}
	s := newTestSession(meta, "run-1")
	s.Register("opt", nil, nil)

	infos := s.DriverInfos()
	require.Len(t, infos, 1)
	di := infos[0]

	name, _ := di.Get("name")
	assert.Equal(t, value.String("opt"), name)

	params, ok := di.Get("parameters")
	require.True(t, ok)
	assert.Equal(t, value.Array{value.String("x")}, params)

	obj, ok := di.Get("objectives")
	require.True(t, ok)
	assert.Equal(t, value.Array{}, obj)

	_, ok = di.Get("responses")
	assert.False(t, ok)
	_, ok = di.Get("eq_constraints")
	assert.False(t, ok)
}

func TestSessionDriverInfosSortedByStepName(t *testing.T) {
	s := newTestSession(nil, "run-1")
	s.Register("zeta", nil, nil)
	s.Register("alpha", nil, nil)

	infos := s.DriverInfos()
	require.Len(t, infos, 2)
	first, _ := infos[0].Get("name")
	second, _ := infos[1].Get("name")
	assert.Equal(t, value.String("alpha"), first)
	assert.Equal(t, value.String("zeta"), second)
}

func TestSessionRegisterLastWins(t *testing.T) {
	s := newTestSession(nil, "run-1", "case-1")
	s.Register("step", []string{"old"}, nil)
	s.Register("step", []string{"new"}, nil)
	s.SimulationInfo(nil)

	rec, err := s.BuildCase("step", []any{1.0}, nil, nil, "", "")
	require.NoError(t, err)
	data, _ := rec.Get("data")
	assert.Equal(t, []string{"new"}, data.(*value.Object).Keys())
}

func TestSessionZipStopsAtShorterList(t *testing.T) {
	s := newTestSession(nil, "run-1", "case-1")
	s.Register("step", []string{"a", "b", "c"}, nil)
	s.SimulationInfo(nil)

	rec, err := s.BuildCase("step", []any{1.0}, nil, nil, "", "")
	require.NoError(t, err)
	data, _ := rec.Get("data")
	assert.Equal(t, []string{"a"}, data.(*value.Object).Keys())
}

func TestSessionCaseNumbering(t *testing.T) {
	s := newTestSession(nil, "run-1")
	s.SimulationInfo(nil)
	assert.Equal(t, 1, s.NextCaseNumber())
	assert.Equal(t, 2, s.NextCaseNumber())
}

func TestSessionRunTokenGeneratedOnce(t *testing.T) {
	s := newTestSession(nil, "first", "second")
	assert.False(t, s.Started())
	assert.Empty(t, s.RunID())

	s.SimulationInfo(nil)
	assert.True(t, s.Started())
	assert.Equal(t, "first", s.RunID())
}

func TestSessionExpressionsSortedByText(t *testing.T) {
	meta := &StaticMetadata{
		Exprs: map[string]Expression{
			"z - 1":  {Kind: ExprConstraint, Step: "opt"},
			"a + b":  {Kind: ExprObjective, Step: "opt"},
			"mid(x)": {Kind: ExprResponse, Step: "opt"},
		},
	}
	s := newTestSession(meta, "run-1")

	info := s.SimulationInfo(nil)
	exprs, _ := info.Get("expressions")
	assert.Equal(t, []string{"a + b", "mid(x)", "z - 1"}, exprs.(*value.Object).Keys())

	e, _ := exprs.(*value.Object).Get("a + b")
	kind, _ := e.(*value.Object).Get("data_type")
	step, _ := e.(*value.Object).Get("pcomp_name")
	assert.Equal(t, value.String("Objective"), kind)
	assert.Equal(t, value.String("opt"), step)
}

func TestSessionBuildCaseRecordShape(t *testing.T) {
	s := newTestSession(nil, "run-1", "case-1")
	s.Register("step", []string{"x"}, []string{"y"})
	s.SimulationInfo(nil)

	rec, err := s.BuildCase("step", []any{2.0}, []any{4.0}, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"_id", "_parent_id", "_driver_id",
		"error_status", "error_message", "timestamp", "data",
	}, rec.Keys())

	ts, _ := rec.Get("timestamp")
	assert.Equal(t, value.Float(10.5), ts)
	status, _ := rec.Get("error_status")
	assert.Equal(t, value.Null{}, status)
}
