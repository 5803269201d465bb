// Package encode implements the two wire encodings behind the recording
// protocol, JSON text and BSON binary, plus the fault diagnoser that
// narrows an encode failure to the exact offending keys of a record.
//
// Both encoders operate on the value model from internal/value and can be
// invoked on any sub-tree, which is what makes per-key diagnosis possible.
package encode
