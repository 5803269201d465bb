package recorder

import (
	"errors"
	"fmt"
)

// Lifecycle errors returned by the recording protocol.
var (
	// ErrConstantsAlreadyRecorded reports a second RecordConstants call in
	// one session. The simulation info section is written exactly once.
	ErrConstantsAlreadyRecorded = errors.New("simulation constants already recorded")

	// ErrConstantsNotRecorded reports a Record call before RecordConstants.
	// Iteration cases follow the simulation info section, never precede it.
	ErrConstantsNotRecorded = errors.New("record called before recording constants")
)

// UnknownStepError reports a Record call for a step that was never
// registered.
type UnknownStepError struct {
	Step string
}

// Error implements the error interface.
func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("step %q not registered", e.Step)
}

// SinkError reports an I/O failure opening, writing, or closing the
// output sink. Sink failures are not diagnosed further; the underlying
// error is carried as-is.
type SinkError struct {
	// Op is the failing operation: "open", "write", "flush", or "close".
	Op string

	// Sink names the sink, when known.
	Sink string

	// Err is the underlying I/O error.
	Err error
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	if e.Sink != "" {
		return fmt.Sprintf("sink %s %q: %v", e.Op, e.Sink, e.Err)
	}
	return fmt.Sprintf("sink %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *SinkError) Unwrap() error {
	return e.Err
}
