// Agama-mock serves the installer configuration API from memory.
//
// It implements the same HTTP protocol as the installer service (collections
// under /api/<area>/<collection>, apply endpoints, an event stream on /api/ws)
// so agama-net and its library can be exercised without an installer.
//
// Usage:
//
//	agama-mock serve [flags]
//
// See 'agama-mock serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/logging"
	"github.com/jeffmahoney/agama/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agama-mock",
	Short: "In-memory installer configuration service",
	Long: `An in-memory implementation of the installer configuration API.

Data can be seeded from a YAML fixture. Writes stay pending until the area's
apply endpoint is called, like on a real installer.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agama-mock %s\n", version.Full())
	},
}
