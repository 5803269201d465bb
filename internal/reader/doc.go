// Package reader reads recorded case documents back: the JSON text
// document with section order preserved, and the length-framed BSON
// stream with symmetric frame validation and truncation detection.
package reader
