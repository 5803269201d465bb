package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/simcase/internal/encode"
	"github.com/roach88/simcase/internal/recorder"
	"github.com/roach88/simcase/internal/value"
)

// Recorder records cases into a Store, implementing the same recording
// protocol as the streaming recorders. Sections are validated through
// the same fault diagnoser before insertion, so a record with an
// unencodable field fails with the same per-key report it would get from
// the JSON or BSON recorder.
type Recorder struct {
	session *recorder.Session
	store   *Store
	clock   recorder.Clock
	logger  *slog.Logger

	ownsStore bool
	closed    bool
}

var _ recorder.CaseRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder over an already-open store. The caller
// keeps ownership of the store; Close does not close it.
func NewRecorder(s *Store, meta recorder.MetadataSource, opts ...recorder.Option) *Recorder {
	return newRecorder(s, meta, false, opts...)
}

// OpenRecorder opens a store at path and wraps it in a recorder that owns
// it: Close closes the database.
func OpenRecorder(path string, meta recorder.MetadataSource, opts ...recorder.Option) (*Recorder, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	return newRecorder(s, meta, true, opts...), nil
}

func newRecorder(s *Store, meta recorder.MetadataSource, owns bool, opts ...recorder.Option) *Recorder {
	// Reuse the shared option set; the text-encoding options are
	// irrelevant here, only clock, tokens, and logger apply.
	cfg := recorder.CollectOptions(opts...)
	return &Recorder{
		session:   recorder.NewSession(meta, cfg.Clock, cfg.Tokens),
		store:     s,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
		ownsStore: owns,
	}
}

// Register stores the ordered input and output names for a step.
func (r *Recorder) Register(step string, inputs, outputs []string) {
	r.session.Register(step, inputs, outputs)
}

// stableEncoder is the deterministic JSON encode function, in the shape
// the fault diagnoser consumes.
func stableEncoder(v value.Value) ([]byte, error) {
	return marshalStable(v)
}

// RecordConstants writes the run row and one driver_info row per
// registered step. Valid once per session; generates the run token.
func (r *Recorder) RecordConstants(constants map[string]any) error {
	if r.closed {
		return nil
	}
	if r.session.Started() {
		return recorder.ErrConstantsAlreadyRecorded
	}

	info := r.session.SimulationInfo(constants)
	infoJSON, err := encode.EncodeSection(stableEncoder, encode.FormatJSON, info,
		"simulation_info", []string{"variable_metadata", "expressions", "constants"}, r.logger)
	if err != nil {
		return err
	}

	constVal, _ := info.Get("constants")
	constJSON, err := marshalStable(constVal)
	if err != nil {
		return fmt.Errorf("marshal constants: %w", err)
	}

	ctx := context.Background()
	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO runs (uuid, format_version, constants, sim_info, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO NOTHING
	`, r.session.RunID(), recorder.FormatVersion, string(constJSON), string(infoJSON), r.clock.Now())
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	for i, di := range r.session.DriverInfos() {
		category := fmt.Sprintf("driver_info_%d", i+1)
		data, err := encode.EncodeSection(stableEncoder, encode.FormatJSON, di, category, nil, r.logger)
		if err != nil {
			return err
		}
		name, _ := di.Get("name")
		nameStr, _ := name.(value.String)
		_, err = r.store.db.ExecContext(ctx, `
			INSERT INTO driver_info (run_uuid, seq, name, info)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_uuid, seq) DO NOTHING
		`, r.session.RunID(), i+1, string(nameStr), string(data))
		if err != nil {
			return fmt.Errorf("write %s: %w", category, err)
		}
	}
	return nil
}

// Record writes one case row. The case counter increments before the
// encode attempt, matching the streaming recorders' gap policy. An
// identical record (same content hash) already present for this run is
// silently skipped, making crash-and-resume re-recording idempotent.
func (r *Recorder) Record(step string, inputs, outputs []any, caseErr error, caseID, parentID string) error {
	if r.closed {
		return nil
	}
	if !r.session.Started() {
		return recorder.ErrConstantsNotRecorded
	}

	rec, err := r.session.BuildCase(step, inputs, outputs, caseErr, caseID, parentID)
	if err != nil {
		return err
	}
	num := r.session.NextCaseNumber()
	category := fmt.Sprintf("iteration_case_%d", num)
	if _, err := encode.EncodeSection(stableEncoder, encode.FormatJSON, rec, category, []string{"data"}, r.logger); err != nil {
		return err
	}

	hash, err := caseHash(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", category, err)
	}
	dataVal, _ := rec.Get("data")
	dataJSON, err := marshalStable(dataVal)
	if err != nil {
		return fmt.Errorf("%s: marshal data: %w", category, err)
	}

	get := func(key string) string {
		v, _ := rec.Get(key)
		s, _ := v.(value.String)
		return string(s)
	}
	ts, _ := rec.Get("timestamp")
	tsFloat, _ := ts.(value.Float)

	_, err = r.store.db.ExecContext(context.Background(), `
		INSERT INTO cases
		(id, run_uuid, num, parent_id, driver_id, error_message, timestamp, data, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_uuid, hash) DO NOTHING
	`,
		get("_id"),
		r.session.RunID(),
		num,
		get("_parent_id"),
		get("_driver_id"),
		get("error_message"),
		float64(tsFloat),
		string(dataJSON),
		hash,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", category, err)
	}
	return nil
}

// Close releases the store when this recorder owns it. Further calls
// after Close are no-ops.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.ownsStore {
		return r.store.Close()
	}
	return nil
}
