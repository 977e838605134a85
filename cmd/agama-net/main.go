// Agama-net is a command line client for the installer configuration service.
//
// It lists and edits network connections and software patterns through the
// service's HTTP API, loads and dumps installation profiles, finds services
// on the local network over mDNS and follows the service's change events.
//
// Usage:
//
//	agama-net [command] [flags]
//
// The service URL comes from --api, AGAMA_API_URL, the config file or,
// with --discover, from mDNS. See 'agama-net --help' for available commands.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/logging"
	"github.com/jeffmahoney/agama/internal/resource"
	"github.com/jeffmahoney/agama/internal/ui"
	"github.com/jeffmahoney/agama/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err == nil {
		return
	}
	if resource.IsServiceError(err) || resource.IsTransportError(err) || resource.IsDecodeError(err) {
		ui.NewPrinter(os.Stderr).PrintFailure("Request failed", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "agama-net",
	Short: "Installer configuration client",
	Long: `A client for the installer configuration service.

Reads and changes network connections and software patterns, loads and
dumps installation profiles, and finds installer services on the local
network.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Global flags
var (
	apiURL       string
	outputFormat string
	discover     bool
	timeout      time.Duration
	logLevel     string
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Service API base URL (e.g. http://10.0.0.5/api)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&discover, "discover", false, "Find the service over mDNS instead of using the configured URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agama-net %s\n", version.Full())
	},
}
