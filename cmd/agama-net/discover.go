package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/discovery"
	"github.com/jeffmahoney/agama/internal/ui"
)

var (
	scanTimeout  time.Duration
	rememberScan bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", 0, "How long to listen for answers (default from config)")
	discoverCmd.Flags().BoolVar(&rememberScan, "save", false, "Remember the services found in the config file")
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find installer services on the local network",
	Long: `Find installer configuration services using mDNS/DNS-SD.

Services announce themselves as ` + discovery.ServiceType + `. The TXT records "path"
and "scheme" tell where the API lives; the defaults are /api and http.`,
	Example: `  # Listen for 10 seconds
  agama-net discover --scan-timeout 10s

  # Remember what was found
  agama-net discover --save`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner()
	scanner.Timeout = cfg.Preferences.DiscoverTimeout
	if scanTimeout > 0 {
		scanner.Timeout = scanTimeout
	}

	services, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if rememberScan && len(services) > 0 {
		for _, s := range services {
			cfg.RememberServer(s.Instance, s.BaseURL())
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	return render(cmd, services, func(p *ui.Printer) {
		if len(services) == 0 {
			p.Println("No services found.")
			p.Println("")
			p.Println("Troubleshooting:")
			p.Println("  • Check that the installer is running and on this network")
			p.Println("  • mDNS does not cross routers; use --api with the address instead")
			p.Println("  • Try a longer --scan-timeout")
			return
		}
		rows := make([][]string, 0, len(services))
		for _, s := range services {
			rows = append(rows, []string{s.Instance, s.Hostname, s.IP, strconv.Itoa(s.Port), s.BaseURL()})
		}
		p.PrintTable([]string{"INSTANCE", "HOST", "ADDRESS", "PORT", "URL"}, rows)
		p.Newline()
		p.Println("Use 'agama-net --api <url> connections' to talk to a service")
	})
}
