// Package store provides a durable, queryable case recorder backed by
// SQLite. It implements the same recording protocol as the streaming
// JSON and BSON recorders, trading the single self-contained document
// for a database a tool can query mid-run.
//
// Every case row carries a content-addressed hash of its record, so
// re-recording an identical case (e.g. after a crash-and-resume) is an
// idempotent no-op.
package store
