package cli

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/simcase/internal/encode"
	"github.com/roach88/simcase/internal/reader"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(opts *RootOptions) *cobra.Command {
	var encoding string
	var drivers int
	var to string

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a recorded case file between text and binary framings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to != EncodingJSON && to != EncodingBSON {
				return WrapExitError(ExitCommandError, "convert",
					fmt.Errorf("invalid target encoding %q: must be json or bson", to))
			}
			enc, err := detectEncoding(args[0], encoding)
			if err != nil {
				return WrapExitError(ExitCommandError, "convert", err)
			}
			doc, err := loadDocument(args[0], enc, drivers)
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "create output file", err)
			}
			defer f.Close()
			w := bufio.NewWriter(f)

			switch to {
			case EncodingJSON:
				err = writeTextDocument(w, doc)
			case EncodingBSON:
				err = writeBinaryDocument(w, doc)
			}
			if err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return WrapExitError(ExitCommandError, "flush output", err)
			}
			if opts.Verbose {
				printLines(cmd.OutOrStdout(),
					fmt.Sprintf("wrote %d sections to %s", len(doc.Sections), args[1]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding (json|bson|sqlite); inferred from extension when empty")
	cmd.Flags().IntVar(&drivers, "drivers", 0, "driver section count for keyless binary streams")
	cmd.Flags().StringVar(&to, "to", EncodingJSON, "target encoding (json|bson)")
	return cmd
}

// writeTextDocument emits the document in the text recorder's framing:
// each section on its own keyed line, the closing brace on the last.
func writeTextDocument(w *bufio.Writer, doc *reader.Document) error {
	for i, sec := range doc.Sections {
		data, err := encode.MarshalJSON(sec.Value, encode.JSONOptions{Indent: 4})
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("encode %s", sec.Key), err)
		}
		if i == 0 {
			fmt.Fprintf(w, "{\n\"%s\": ", sec.Key)
		} else {
			fmt.Fprintf(w, ", \"%s\": ", sec.Key)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if len(doc.Sections) > 0 {
		w.WriteString("}\n")
	}
	return nil
}

// writeBinaryDocument emits the document as length-prefixed frames, the
// payload length repeated after the payload as on the recording side.
func writeBinaryDocument(w *bufio.Writer, doc *reader.Document) error {
	var lenBuf [4]byte
	for _, sec := range doc.Sections {
		data, err := encode.MarshalBSON(sec.Value)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("encode %s", sec.Key), err)
		}
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
		w.Write(lenBuf[:])
		w.Write(data)
		w.Write(lenBuf[:])
	}
	return nil
}
