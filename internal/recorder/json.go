package recorder

import (
	"bufio"
	"fmt"
	"io"

	"github.com/roach88/simcase/internal/encode"
)

// JSONRecorder streams a run as a single JSON document.
//
// The document is not produced by one encode call: each section is
// encoded independently and appended the instant it is ready, framed as
//
//	{
//	"simulation_info": <enc>
//	, "driver_info_1": <enc>
//	, "iteration_case_1": <enc>
//	}
//
// with a flush after every section. A process that dies mid-run leaves a
// file intact up to the last flushed section, missing only the final
// closing brace: a recoverable prefix rather than a corrupt document.
type JSONRecorder struct {
	session *Session
	opts    options

	sinkName string
	external io.Writer // non-nil when the caller supplied the writer
	w        *bufio.Writer
	closer   io.Closer // non-nil when the recorder owns the sink

	state    state
	disabled bool
	wroteAny bool
}

var _ CaseRecorder = (*JSONRecorder)(nil)

// NewJSONRecorder creates a text recorder for the named sink. "stdout"
// and "stderr" route to the process streams; "" disables recording; any
// other name opens a file of that name on first use.
func NewJSONRecorder(sink string, meta MetadataSource, opts ...Option) *JSONRecorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &JSONRecorder{
		session:  NewSession(meta, o.clock, o.tokens),
		opts:     o,
		sinkName: sink,
	}
}

// NewJSONRecorderWriter creates a text recorder over a caller-supplied
// writer, typically an in-memory buffer. Close never closes the writer:
// the caller may still want its contents.
func NewJSONRecorderWriter(w io.Writer, meta MetadataSource, opts ...Option) *JSONRecorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &JSONRecorder{
		session:  NewSession(meta, o.clock, o.tokens),
		opts:     o,
		external: w,
	}
}

// Register stores the ordered input and output names for a step.
func (r *JSONRecorder) Register(step string, inputs, outputs []string) {
	r.session.Register(step, inputs, outputs)
}

// ensureOpen resolves the sink on first use.
func (r *JSONRecorder) ensureOpen() error {
	if r.state != stateUnopened {
		return nil
	}
	if r.external != nil {
		r.w = bufio.NewWriter(r.external)
		r.state = stateOpen
		return nil
	}
	w, closer, err := openSink(r.sinkName)
	if err != nil {
		return err
	}
	if w == nil {
		r.disabled = true
		r.state = stateOpen
		return nil
	}
	r.w = bufio.NewWriter(w)
	r.closer = closer
	r.state = stateOpen
	return nil
}

// RecordConstants writes the simulation info section and the driver info
// sections. Valid once per session; generates and fixes the run token.
func (r *JSONRecorder) RecordConstants(constants map[string]any) error {
	if r.state == stateClosed {
		return nil
	}
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if r.disabled {
		return nil
	}
	if r.session.Started() {
		return ErrConstantsAlreadyRecorded
	}

	info := r.session.SimulationInfo(constants)
	data, err := encode.EncodeSection(r.encoder(), encode.FormatJSON, info,
		"simulation_info", []string{"variable_metadata", "expressions", "constants"}, r.opts.logger)
	if err != nil {
		return err
	}
	if err := r.writeSection("simulation_info", data); err != nil {
		return err
	}

	for i, di := range r.session.DriverInfos() {
		category := fmt.Sprintf("driver_info_%d", i+1)
		data, err := encode.EncodeSection(r.encoder(), encode.FormatJSON, di, category, nil, r.opts.logger)
		if err != nil {
			return err
		}
		if err := r.writeSection(category, data); err != nil {
			return err
		}
	}
	return r.flush()
}

// Record writes one iteration case section.
//
// The case counter increments before the encode attempt, so a case whose
// encoding fails still consumes its number: the emitted iteration_case
// keys then show a gap where the bad record would have been.
func (r *JSONRecorder) Record(step string, inputs, outputs []any, caseErr error, caseID, parentID string) error {
	if r.state == stateClosed {
		return nil
	}
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if r.disabled {
		return nil
	}
	if !r.session.Started() {
		return ErrConstantsNotRecorded
	}

	rec, err := r.session.BuildCase(step, inputs, outputs, caseErr, caseID, parentID)
	if err != nil {
		return err
	}
	category := fmt.Sprintf("iteration_case_%d", r.session.NextCaseNumber())
	data, err := encode.EncodeSection(r.encoder(), encode.FormatJSON, rec, category, []string{"data"}, r.opts.logger)
	if err != nil {
		return err
	}
	if err := r.writeSection(category, data); err != nil {
		return err
	}
	return r.flush()
}

// Close writes the document's closing brace, the single unmatched brace
// that completes the streamed fragments, and releases the sink. The
// process streams and caller-supplied writers are never closed. Further
// calls after Close are no-ops.
func (r *JSONRecorder) Close() error {
	if r.state == stateClosed {
		return nil
	}
	if r.state == stateUnopened || r.disabled {
		r.state = stateClosed
		return nil
	}
	r.state = stateClosed

	if r.wroteAny {
		if _, err := r.w.WriteString("}\n"); err != nil {
			return &SinkError{Op: "write", Sink: r.sinkName, Err: err}
		}
	}
	if err := r.w.Flush(); err != nil {
		return &SinkError{Op: "flush", Sink: r.sinkName, Err: err}
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			return &SinkError{Op: "close", Sink: r.sinkName, Err: err}
		}
		r.closer = nil
	}
	return nil
}

func (r *JSONRecorder) encoder() encode.Func {
	return encode.JSONEncoder(encode.JSONOptions{Indent: r.opts.indent, SortKeys: r.opts.sortKeys})
}

// writeSection appends one framed section: the first opens the document,
// every later one is comma-prefixed, and each ends with a newline.
func (r *JSONRecorder) writeSection(category string, data []byte) error {
	var err error
	if !r.wroteAny {
		_, err = fmt.Fprintf(r.w, "{\n\"%s\": ", category)
	} else {
		_, err = fmt.Fprintf(r.w, ", \"%s\": ", category)
	}
	if err == nil {
		_, err = r.w.Write(data)
	}
	if err == nil {
		err = r.w.WriteByte('\n')
	}
	if err != nil {
		return &SinkError{Op: "write", Sink: r.sinkName, Err: err}
	}
	r.wroteAny = true
	return nil
}

func (r *JSONRecorder) flush() error {
	if err := r.w.Flush(); err != nil {
		return &SinkError{Op: "flush", Sink: r.sinkName, Err: err}
	}
	return nil
}
