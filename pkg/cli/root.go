// Package cli implements the oasgate command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo carries version metadata set via ldflags in main.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var rootCmd = &cobra.Command{
	Use:   "oasgate",
	Short: "OpenAPI-driven request validation gateway",
	Long: `oasgate validates incoming HTTP requests against an OpenAPI document:
path and method resolution, required-body enforcement, and content-type
negotiation across the declared media types. Accepted requests pass
through to the upstream; rejected ones get problem+json responses with
the right status code (404, 405, 400, or 415).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, checkCmd, routesCmd)
}

// Execute runs the CLI with the given build info.
func Execute(info BuildInfo) error {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.BuildDate)
	return rootCmd.Execute()
}
