package recorder

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/roach88/simcase/internal/encode"
)

// BSONRecorder streams a run as a flat sequence of length-framed BSON
// records in the same logical order as the text document: simulation
// info, driver infos, then iteration cases. There is no root wrapper;
// order alone conveys which record is which.
//
// Each record is written as a 4-byte little-endian unsigned length, the
// BSON payload, then the same 4-byte length again. The symmetric framing
// lets a reader validate record boundaries from either direction and
// detect a truncated tail. Because every record is self-delimiting,
// Close writes no closing delimiter.
type BSONRecorder struct {
	session *Session
	opts    options

	sinkName string
	external io.Writer
	w        *bufio.Writer
	closer   io.Closer

	state    state
	disabled bool
}

var _ CaseRecorder = (*BSONRecorder)(nil)

// NewBSONRecorder creates a binary recorder for the named sink, with the
// same sink name semantics as NewJSONRecorder.
func NewBSONRecorder(sink string, meta MetadataSource, opts ...Option) *BSONRecorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &BSONRecorder{
		session:  NewSession(meta, o.clock, o.tokens),
		opts:     o,
		sinkName: sink,
	}
}

// NewBSONRecorderWriter creates a binary recorder over a caller-supplied
// writer. Close never closes the writer.
func NewBSONRecorderWriter(w io.Writer, meta MetadataSource, opts ...Option) *BSONRecorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &BSONRecorder{
		session:  NewSession(meta, o.clock, o.tokens),
		opts:     o,
		external: w,
	}
}

// Register stores the ordered input and output names for a step.
func (r *BSONRecorder) Register(step string, inputs, outputs []string) {
	r.session.Register(step, inputs, outputs)
}

func (r *BSONRecorder) ensureOpen() error {
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

// RecordConstants writes the simulation info record and the driver info
// records. Valid once per session; generates and fixes the run token.
func (r *BSONRecorder) RecordConstants(constants map[string]any) error {
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
	data, err := encode.EncodeSection(encode.BSONEncoder(), encode.FormatBSON, info,
		"simulation_info", []string{"variable_metadata", "expressions", "constants"}, r.opts.logger)
	if err != nil {
		return err
	}
	if err := r.writeFrame(data); err != nil {
		return err
	}

	for i, di := range r.session.DriverInfos() {
		category := fmt.Sprintf("driver_info_%d", i+1)
		data, err := encode.EncodeSection(encode.BSONEncoder(), encode.FormatBSON, di, category, nil, r.opts.logger)
		if err != nil {
			return err
		}
		if err := r.writeFrame(data); err != nil {
			return err
		}
	}
	return r.flush()
}

// Record writes one iteration case record. The case counter increments
// before the encode attempt, matching the text recorder's gap policy.
func (r *BSONRecorder) Record(step string, inputs, outputs []any, caseErr error, caseID, parentID string) error {
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
	data, err := encode.EncodeSection(encode.BSONEncoder(), encode.FormatBSON, rec, category, []string{"data"}, r.opts.logger)
	if err != nil {
		return err
	}
	if err := r.writeFrame(data); err != nil {
		return err
	}
	return r.flush()
}

// Close releases the sink. The binary format needs no closing delimiter.
func (r *BSONRecorder) Close() error {
	if r.state == stateClosed {
		return nil
	}
	if r.state == stateUnopened || r.disabled {
		r.state = stateClosed
		return nil
	}
	r.state = stateClosed

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

// writeFrame writes one symmetric length-framed record.
func (r *BSONRecorder) writeFrame(payload []byte) error {
	var reclen [4]byte
	binary.LittleEndian.PutUint32(reclen[:], uint32(len(payload)))

	var err error
	if _, err = r.w.Write(reclen[:]); err == nil {
		if _, err = r.w.Write(payload); err == nil {
			_, err = r.w.Write(reclen[:])
		}
	}
	if err != nil {
		return &SinkError{Op: "write", Sink: r.sinkName, Err: err}
	}
	return nil
}

func (r *BSONRecorder) flush() error {
	if err := r.w.Flush(); err != nil {
		return &SinkError{Op: "flush", Sink: r.sinkName, Err: err}
	}
	return nil
}
