package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/simcase/internal/encode"
	"github.com/roach88/simcase/internal/value"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand(opts *RootOptions) *cobra.Command {
	var encoding string
	var drivers int

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the sections of a recorded case file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := detectEncoding(args[0], encoding)
			if err != nil {
				return WrapExitError(ExitCommandError, "dump", err)
			}
			doc, err := loadDocument(args[0], enc, drivers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch opts.Format {
			case "json":
				root := value.NewObject()
				for _, sec := range doc.Sections {
					root.Set(sec.Key, sec.Value)
				}
				data, err := encode.MarshalJSON(root, encode.JSONOptions{Indent: 4})
				if err != nil {
					return WrapExitError(ExitFailure, "encode document", err)
				}
				fmt.Fprintln(out, string(data))
			default:
				for _, sec := range doc.Sections {
					data, err := encode.MarshalJSON(sec.Value, encode.JSONOptions{})
					if err != nil {
						return WrapExitError(ExitFailure, fmt.Sprintf("encode %s", sec.Key), err)
					}
					printLines(out, fmt.Sprintf("%s: %s", sec.Key, data))
				}
				if opts.Verbose {
					printLines(out, fmt.Sprintf("%d sections (%d cases)", len(doc.Sections), len(doc.Cases())))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding (json|bson|sqlite); inferred from extension when empty")
	cmd.Flags().IntVar(&drivers, "drivers", 0, "driver section count for keyless binary streams")
	return cmd
}
