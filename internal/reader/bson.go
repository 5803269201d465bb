package reader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roach88/simcase/internal/encode"
	"github.com/roach88/simcase/internal/value"
)

// FramingError reports a corrupt or truncated record in a length-framed
// binary stream.
type FramingError struct {
	// Index is the zero-based record index where the fault was found.
	Index int

	// Head and Tail are the leading and trailing length fields, when both
	// were readable.
	Head uint32
	Tail uint32

	// Err is the underlying fault.
	Err error
}

// Error implements the error interface.
func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d: length mismatch (head=%d tail=%d)", e.Index, e.Head, e.Tail)
}

// Unwrap returns the underlying fault.
func (e *FramingError) Unwrap() error {
	return e.Err
}

// errTruncated marks a stream that ends mid-record.
var errTruncated = errors.New("truncated record")

// FrameReader iterates the records of a length-framed binary stream,
// checking that every record's leading and trailing 4-byte little-endian
// length fields agree.
type FrameReader struct {
	r     io.Reader
	index int
}

// NewFrameReader creates a frame reader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// Index returns the number of complete records read so far.
func (f *FrameReader) Index() int {
	return f.index
}

// Next returns the next record payload, or io.EOF at a clean end of
// stream. A stream ending mid-record or a head/tail disagreement returns
// a FramingError.
func (f *FrameReader) Next() ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(f.r, head[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FramingError{Index: f.index, Err: fmt.Errorf("%w: %v", errTruncated, err)}
	}
	length := binary.LittleEndian.Uint32(head[:])

	payload := make([]byte, length)
	if _, err := io.ReadFull(f.r, payload); err != nil {
		return nil, &FramingError{Index: f.index, Err: fmt.Errorf("%w: %v", errTruncated, err)}
	}

	var tail [4]byte
	if _, err := io.ReadFull(f.r, tail[:]); err != nil {
		return nil, &FramingError{Index: f.index, Err: fmt.Errorf("%w: %v", errTruncated, err)}
	}
	if trailer := binary.LittleEndian.Uint32(tail[:]); trailer != length {
		return nil, &FramingError{Index: f.index, Head: length, Tail: trailer}
	}

	f.index++
	return payload, nil
}

// NextValue returns the next record decoded into the value model.
func (f *FrameReader) NextValue() (value.Value, error) {
	payload, err := f.Next()
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("record %d: decode: %w", f.index-1, err)
	}
	return encode.FromBSON(doc), nil
}

// ReadBSON reads a whole length-framed stream into a Document. The
// binary format carries no section keys: the first record is always the
// simulation info, the next driverCount records are driver infos, and
// the rest are iteration cases, keyed positionally. The driver info
// count is not recoverable from the stream and must be supplied.
func ReadBSON(r io.Reader, driverCount int) (*Document, error) {
	fr := NewFrameReader(r)
	doc := &Document{}
	for {
		v, err := fr.NextValue()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, Section{Key: positionalKey(len(doc.Sections), driverCount), Value: v})
	}
	return doc, nil
}

// positionalKey reconstructs the logical section key from a record index.
func positionalKey(index, driverCount int) string {
	switch {
	case index == 0:
		return "simulation_info"
	case index <= driverCount:
		return fmt.Sprintf("driver_info_%d", index)
	default:
		return fmt.Sprintf("iteration_case_%d", index-driverCount)
	}
}
