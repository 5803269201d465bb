package recorder

import (
	"io"
	"os"
)

// Well-known sink names. Any other non-empty name opens a newly created
// file of that name in the current working directory.
const (
	// SinkStdout routes recording to standard output.
	SinkStdout = "stdout"

	// SinkStderr routes recording to standard error.
	SinkStderr = "stderr"

	// SinkNone disables recording: every call becomes a silent no-op.
	SinkNone = ""
)

// openSink resolves a sink name. The returned closer is non-nil only when
// the recorder owns the sink and must close it on Close; the process
// streams are never closed. A nil writer means recording is disabled.
func openSink(name string) (io.Writer, io.Closer, error) {
	switch name {
	case SinkNone:
		return nil, nil, nil
	case SinkStdout:
		return os.Stdout, nil, nil
	case SinkStderr:
		return os.Stderr, nil, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, &SinkError{Op: "open", Sink: name, Err: err}
	}
	return f, f, nil
}
