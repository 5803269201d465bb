package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/simcase/internal/schema"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var encoding string
	var drivers int

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a recorded case file against the document schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := detectEncoding(args[0], encoding)
			if err != nil {
				return WrapExitError(ExitCommandError, "validate", err)
			}
			doc, err := loadDocument(args[0], enc, drivers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := schema.Validate(doc)
			if len(errs) == 0 {
				if opts.Format == "json" {
					printLines(out, `{"valid": true, "errors": []}`)
				} else {
					printLines(out, fmt.Sprintf("%s: valid (%d sections)", args[0], len(doc.Sections)))
				}
				return nil
			}

			if opts.Format == "json" {
				fmt.Fprintf(out, `{"valid": false, "errors": [`)
				for i, e := range errs {
					if i > 0 {
						fmt.Fprint(out, ", ")
					}
					fmt.Fprintf(out, "%q", e.Error())
				}
				fmt.Fprintln(out, `]}`)
			} else {
				printLines(out, fmt.Sprintf("%s: invalid", args[0]))
				for _, e := range errs {
					printLines(out, "  "+e.Error())
				}
			}
			return WrapExitError(ExitFailure, fmt.Sprintf("%d schema violations", len(errs)), nil)
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding (json|bson|sqlite); inferred from extension when empty")
	cmd.Flags().IntVar(&drivers, "drivers", 0, "driver section count for keyless binary streams")
	return cmd
}
