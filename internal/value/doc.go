// Package value defines the encodable value model shared by the text and
// binary encoders: null, bool, int, float, string, ordered sequences,
// insertion-ordered string-keyed objects, and numeric array payloads
// flattened to nested sequences.
//
// Conversion from Go data is total. Values outside the closed set are
// carried as Opaque leaves and only rejected when an encoder reaches them,
// so the fault diagnoser can report exactly which keys of a record are
// unserializable instead of failing the whole record opaquely.
package value
