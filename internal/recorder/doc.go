// Package recorder implements the streaming case recorders: incremental
// writers that serialize a run's simulation info, driver descriptors, and
// iteration cases to an output sink section by section, as they become
// available, without holding the whole document in memory.
//
// Two framings share one protocol. JSONRecorder hand-frames a single JSON
// document whose sections are appended as comma-prefixed fragments, so a
// crash mid-run loses nothing already flushed. BSONRecorder writes each
// section as a BSON payload wrapped in symmetric 4-byte little-endian
// length fields, letting a reader validate record boundaries from either
// direction and detect truncation.
//
// A recorder owns its sink exclusively from open to close. An empty sink
// name disables recording entirely: every call becomes a silent no-op.
package recorder
