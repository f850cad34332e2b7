package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oasgate/oasgate/pkg/spec"
)

var checkCmd = &cobra.Command{
	Use:   "check <spec file> [spec file...]",
	Short: "Validate OpenAPI documents without serving",
	Long: `Check each document two ways: the strict request-surface extraction the
gateway itself uses, and a full OpenAPI 3 structural validation. With
several files, also verify they merge without (path, method) collisions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := make([]*spec.Document, 0, len(args))
		for _, path := range args {
			doc, err := spec.LoadFile(path)
			if err != nil {
				return err
			}
			if err := spec.CheckFile(cmd.Context(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d operations)\n", path, doc.Len())
			docs = append(docs, doc)
		}
		if len(docs) > 1 {
			merged, err := spec.Merge(docs...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged: OK (%d operations)\n", merged.Len())
		}
		return nil
	},
}
