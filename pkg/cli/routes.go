package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oasgate/oasgate/pkg/spec"
)

var routesCmd = &cobra.Command{
	Use:   "routes <spec file> [spec file...]",
	Short: "List the operations the gateway would enforce",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := spec.LoadFiles(args)
		if err != nil {
			return err
		}
		printRoutes(cmd.OutOrStdout(), doc)
		return nil
	},
}

func printRoutes(w io.Writer, doc *spec.Document) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tBODY\tCONTENT")
	for _, op := range doc.Operations() {
		body := "optional"
		if op.BodyRequired {
			body = "required"
		}
		content := "-"
		if len(op.AcceptedMediaTypes) > 0 {
			names := make([]string, len(op.AcceptedMediaTypes))
			for i, mt := range op.AcceptedMediaTypes {
				names[i] = mt.String()
			}
			content = strings.Join(names, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Key.Method, op.Key.Path, body, content)
	}
	tw.Flush()
}
