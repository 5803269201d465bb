package encode

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies a wire encoding.
type Format string

const (
	// FormatJSON is the human-readable text encoding.
	FormatJSON Format = "json"

	// FormatBSON is the compact binary document encoding.
	FormatBSON Format = "bson"
)

// EncodingError reports that a value, record, or record section could not
// be encoded. When raised by the fault diagnoser it names the failing
// section and the exact offending keys; when raised directly by an encoder
// it names only the unencodable value.
type EncodingError struct {
	// Format is the encoding that failed.
	Format Format

	// Category labels the failing document section, e.g. "iteration_case_3"
	// or "simulation_info.variable_metadata". Empty for a bare encoder
	// failure outside any section.
	Category string

	// Keys lists the offending top-level keys in sorted order.
	// Empty when no diagnosis ran.
	Keys []string

	// Message describes the failure.
	Message string

	// Err is the underlying encoder error, if any.
	Err error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Category != "" {
		msg := fmt.Sprintf("%s write failed for %s", e.Format, e.Category)
		if len(e.Keys) > 0 {
			msg = fmt.Sprintf("%s: keys [%s]", msg, strings.Join(e.Keys, ", "))
		}
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
		return msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Message)
}

// Unwrap returns the underlying encoder error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IsEncodingError returns true if the error is an EncodingError.
// Uses errors.As to handle wrapped errors.
func IsEncodingError(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}

// unsupportedError builds the bare encoder failure for a value outside the
// encodable set.
func unsupportedError(format Format, detail string) *EncodingError {
	return &EncodingError{
		Format:  format,
		Message: detail,
	}
}
