package recorder

// CaseRecorder is the recording protocol every recorder implementation
// satisfies: register steps, record the run's constants once, record
// iteration cases as they complete, close.
//
// Calls after Close are no-ops, not errors. Implementations are
// single-threaded by contract; callers using one from multiple goroutines
// must serialize access themselves.
type CaseRecorder interface {
	// Register stores the ordered input and output names for a step.
	// Called once per step before recording begins; last call wins.
	Register(step string, inputs, outputs []string)

	// RecordConstants builds and writes the simulation info section
	// followed by one driver info section per registered step. Valid once
	// per session, before any Record call. Generates the run token.
	RecordConstants(constants map[string]any) error

	// Record builds and writes one iteration case.
	Record(step string, inputs, outputs []any, caseErr error, caseID, parentID string) error

	// Close emits any closing delimiter and releases the sink.
	Close() error
}

// recorder lifecycle states. The transitions are one-way:
// unopened → open → closed.
type state int

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)
