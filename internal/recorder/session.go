package recorder

import (
	"slices"
	"sort"

	"github.com/roach88/simcase/internal/value"
)

// FormatVersion tags every recorded document. Written under the
// "OpenMDAO_Version" key for compatibility with existing case readers.
const FormatVersion = "0.13.0"

// Expression kinds reported in the simulation info section.
const (
	ExprObjective  = "Objective"
	ExprResponse   = "Response"
	ExprConstraint = "Constraint"
)

// Expression describes one recorded objective, response, or constraint
// expression: its kind and the computational step it originates from.
type Expression struct {
	Kind string
	Step string
}

// Capabilities lists the optional capability lists a step exposes. A nil
// list means the capability is absent and its field is omitted from the
// driver info section; an empty non-nil list records the capability as
// present but empty. The set is decided once, at registration time.
type Capabilities struct {
	Parameters      []string
	Objectives      []string
	Responses       []string
	EqConstraints   []string
	IneqConstraints []string
}

// MetadataSource supplies, on demand, the already-assembled metadata the
// recorder includes in the simulation info and driver info sections.
// Collecting this data from a live simulation object graph is the
// collaborator's concern, not the recorder's.
type MetadataSource interface {
	// VariableMetadata returns the attribute mapping for a variable, or
	// false if none is known. Descriptive-only attributes are pruned by
	// the recorder before inclusion.
	VariableMetadata(name string) (map[string]any, bool)

	// Capabilities returns the optional capability lists for a step.
	Capabilities(step string) Capabilities

	// Expressions returns all recorded expressions keyed by their text.
	Expressions() map[string]Expression
}

// StaticMetadata is a MetadataSource over fixed maps. Callers that
// assemble metadata up front, and tests, use it directly.
type StaticMetadata struct {
	Variables map[string]map[string]any
	Steps     map[string]Capabilities
	Exprs     map[string]Expression
}

func (m *StaticMetadata) VariableMetadata(name string) (map[string]any, bool) {
	md, ok := m.Variables[name]
	return md, ok
}

func (m *StaticMetadata) Capabilities(step string) Capabilities {
	return m.Steps[step]
}

func (m *StaticMetadata) Expressions() map[string]Expression {
	return m.Exprs
}

// metadataDenylist names descriptive-only variable attributes stripped
// from recorded metadata.
var metadataDenylist = []string{"desc", "framework_var", "type", "validation_trait"}

// registration is one registration table entry.
type registration struct {
	inputs  []string
	outputs []string
	caps    Capabilities
}

// Session holds the per-run recording state shared by every recorder
// implementation: the registration table, the run token, and the case
// counter. It builds the record sections; framing and sinks belong to the
// recorders.
//
// Single-threaded by contract, like the recorders that own it.
type Session struct {
	meta   MetadataSource
	clock  Clock
	tokens TokenSource

	steps map[string]registration
	runID string
	cases int
}

// NewSession creates a session with an empty registration table.
func NewSession(meta MetadataSource, clock Clock, tokens TokenSource) *Session {
	if clock == nil {
		clock = WallClock{}
	}
	if tokens == nil {
		tokens = UUIDSource{}
	}
	return &Session{
		meta:   meta,
		clock:  clock,
		tokens: tokens,
		steps:  make(map[string]registration),
	}
}

// Register stores the ordered input and output names for a step, and
// snapshots its capability set from the metadata source. The last
// registration for a step wins. Must be called before recording begins.
func (s *Session) Register(step string, inputs, outputs []string) {
	reg := registration{
		inputs:  slices.Clone(inputs),
		outputs: slices.Clone(outputs),
	}
	if s.meta != nil {
		reg.caps = s.meta.Capabilities(step)
	}
	s.steps[step] = reg
}

// Started reports whether the run token has been generated, i.e. whether
// SimulationInfo has been built for this session.
func (s *Session) Started() bool {
	return s.runID != ""
}

// RunID returns the run token, or "" before SimulationInfo runs.
func (s *Session) RunID() string {
	return s.runID
}

// stepNames returns registered step names in sorted order, the fixed
// emission order of driver info sections.
func (s *Session) stepNames() []string {
	names := make([]string, 0, len(s.steps))
	for name := range s.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimulationInfo builds the run's first section. As a side effect it
// generates the run token, the first and only generation point, and
// resets the case counter.
func (s *Session) SimulationInfo(constants map[string]any) *value.Object {
	s.runID = s.tokens.NewToken()
	s.cases = 0

	meta := value.NewObject()
	for _, step := range s.stepNames() {
		reg := s.steps[step]
		for _, name := range append(slices.Clone(reg.inputs), reg.outputs...) {
			s.addVariableMetadata(meta, name)
		}
	}
	constantNames := make([]string, 0, len(constants))
	for name := range constants {
		constantNames = append(constantNames, name)
	}
	sort.Strings(constantNames)
	for _, name := range constantNames {
		s.addVariableMetadata(meta, name)
	}

	exprs := value.NewObject()
	if s.meta != nil {
		all := s.meta.Expressions()
		texts := make([]string, 0, len(all))
		for text := range all {
			texts = append(texts, text)
		}
		sort.Strings(texts)
		for _, text := range texts {
			e := all[text]
			exprs.Set(text, value.FromPairs(
				value.Pair{Key: "data_type", Val: value.String(e.Kind)},
				value.Pair{Key: "pcomp_name", Val: value.String(e.Step)},
			))
		}
	}

	return value.FromPairs(
		value.Pair{Key: "variable_metadata", Val: meta},
		value.Pair{Key: "expressions", Val: exprs},
		value.Pair{Key: "constants", Val: value.FromGo(constants)},
		value.Pair{Key: "OpenMDAO_Version", Val: value.String(FormatVersion)},
		value.Pair{Key: "uuid", Val: value.String(s.runID)},
	)
}

// addVariableMetadata looks up one variable's attributes, prunes the
// descriptive-only denylist, and adds the result under the variable name.
// Variables without metadata are simply skipped.
func (s *Session) addVariableMetadata(dst *value.Object, name string) {
	if s.meta == nil {
		return
	}
	md, ok := s.meta.VariableMetadata(name)
	if !ok {
		return
	}
	pruned := make(map[string]any, len(md))
	for k, v := range md {
		if slices.Contains(metadataDenylist, k) {
			continue
		}
		pruned[k] = v
	}
	dst.Set(name, value.FromGo(pruned))
}

// DriverInfos builds one section per registered step, in sorted step name
// order. Absent capabilities omit their field entirely.
func (s *Session) DriverInfos() []*value.Object {
	infos := make([]*value.Object, 0, len(s.steps))
	for _, step := range s.stepNames() {
		caps := s.steps[step].caps
		info := value.NewObject()
		info.Set("name", value.String(step))
		setCapability(info, "parameters", caps.Parameters)
		setCapability(info, "objectives", caps.Objectives)
		setCapability(info, "responses", caps.Responses)
		setCapability(info, "ineq_constraints", caps.IneqConstraints)
		setCapability(info, "eq_constraints", caps.EqConstraints)
		infos = append(infos, info)
	}
	return infos
}

func setCapability(info *value.Object, key string, items []string) {
	if items == nil {
		return
	}
	arr := make(value.Array, len(items))
	for i, item := range items {
		arr[i] = value.String(item)
	}
	info.Set(key, arr)
}

// NextCaseNumber consumes and returns the next case counter value,
// starting at 1. Called before the encode attempt, so a case that fails
// to encode still consumes its number and leaves a gap in the emitted
// iteration_case keys.
func (s *Session) NextCaseNumber() int {
	s.cases++
	return s.cases
}

// BuildCase assembles one iteration case record. The data mapping zips
// the step's registered input names against the given input values, then
// the output names against the output values. An empty caseID gets a
// fresh token; an empty parentID defaults to the run token.
func (s *Session) BuildCase(step string, inputs, outputs []any, caseErr error, caseID, parentID string) (*value.Object, error) {
	reg, ok := s.steps[step]
	if !ok {
		return nil, &UnknownStepError{Step: step}
	}

	data := value.NewObject()
	zipInto(data, reg.inputs, inputs)
	zipInto(data, reg.outputs, outputs)

	if caseID == "" {
		caseID = s.tokens.NewToken()
	}
	if parentID == "" {
		parentID = s.runID
	}
	errMsg := ""
	if caseErr != nil {
		errMsg = caseErr.Error()
	}

	return value.FromPairs(
		value.Pair{Key: "_id", Val: value.String(caseID)},
		value.Pair{Key: "_parent_id", Val: value.String(parentID)},
		value.Pair{Key: "_driver_id", Val: value.String(step)},
		value.Pair{Key: "error_status", Val: value.Null{}},
		value.Pair{Key: "error_message", Val: value.String(errMsg)},
		value.Pair{Key: "timestamp", Val: value.Float(s.clock.Now())},
		value.Pair{Key: "data", Val: data},
	), nil
}

// zipInto pairs names with values up to the shorter of the two lists.
func zipInto(dst *value.Object, names []string, values []any) {
	n := min(len(names), len(values))
	for i := 0; i < n; i++ {
		dst.Set(names[i], value.FromGo(values[i]))
	}
}
