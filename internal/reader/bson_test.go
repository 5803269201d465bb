package reader

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simcase/internal/encode"
	"github.com/roach88/simcase/internal/value"
)

// frame writes one symmetric length-framed record.
func frame(t *testing.T, buf *bytes.Buffer, v value.Value) {
	t.Helper()
	payload, err := encode.MarshalBSON(v)
	require.NoError(t, err)
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(payload)))
	buf.Write(length[:])
	buf.Write(payload)
	buf.Write(length[:])
}

func section(key, val string) *value.Object {
	return value.FromPairs(value.Pair{Key: key, Val: value.String(val)})
}

func TestFrameReaderWalk(t *testing.T) {
	buf := &bytes.Buffer{}
	frame(t, buf, section("uuid", "run-1"))
	frame(t, buf, section("name", "driver"))

	fr := NewFrameReader(buf)

	first, err := fr.NextValue()
	require.NoError(t, err)
	id, _ := first.(*value.Object).Get("uuid")
	assert.Equal(t, value.String("run-1"), id)

	_, err = fr.NextValue()
	require.NoError(t, err)
	assert.Equal(t, 2, fr.Index())

	_, err = fr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFrameReaderLengthMismatch(t *testing.T) {
	buf := &bytes.Buffer{}
	frame(t, buf, section("uuid", "run-1"))

	// Corrupt the trailing length field.
	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	fr := NewFrameReader(bytes.NewReader(data))
	_, err := fr.Next()

	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Index)
	assert.NotEqual(t, fe.Head, fe.Tail)
	assert.Contains(t, fe.Error(), "length mismatch")
}

func TestFrameReaderTruncatedPayload(t *testing.T) {
	buf := &bytes.Buffer{}
	frame(t, buf, section("uuid", "run-1"))
	data := buf.Bytes()[:buf.Len()-6] // cut into the trailing field and payload

	fr := NewFrameReader(bytes.NewReader(data))
	_, err := fr.Next()

	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, errTruncated)
}

func TestFrameReaderTruncatedHead(t *testing.T) {
	fr := NewFrameReader(bytes.NewReader([]byte{0x01, 0x02}))
	_, err := fr.Next()

	var fe *FramingError
	assert.ErrorAs(t, err, &fe)
}

func TestFrameReaderSecondRecordFaultKeepsIndex(t *testing.T) {
	buf := &bytes.Buffer{}
	frame(t, buf, section("uuid", "run-1"))
	buf.Write([]byte{0xFF, 0xFF}) // garbage after a clean record

	fr := NewFrameReader(buf)
	_, err := fr.Next()
	require.NoError(t, err)

	_, err = fr.Next()
	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Index)
}

func TestReadBSONPositionalKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	frame(t, buf, section("uuid", "run-1"))
	frame(t, buf, section("name", "d1"))
	frame(t, buf, section("name", "d2"))
	frame(t, buf, section("_id", "c1"))
	frame(t, buf, section("_id", "c2"))

	doc, err := ReadBSON(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"simulation_info", "driver_info_1", "driver_info_2",
		"iteration_case_1", "iteration_case_2",
	}, doc.Keys())
}

func TestReadBSONEmptyStream(t *testing.T) {
	doc, err := ReadBSON(bytes.NewReader(nil), 0)
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
}
