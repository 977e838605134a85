package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/network"
	"github.com/jeffmahoney/agama/internal/resource"
	"github.com/jeffmahoney/agama/internal/ui"
)

// Network command flags
var (
	connectionFile string
	compact        bool
	applyAfter     bool
	verifyAfter    bool
	safeUpdate     bool
	assumeYes      bool
)

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(connectionCmd)
	rootCmd.AddCommand(setConnectionCmd)
	rootCmd.AddCommand(statusCmd)

	connectionCmd.Flags().BoolVar(&compact, "compact", false, "Short output")

	setConnectionCmd.Flags().StringVarP(&connectionFile, "file", "f", "", "YAML or JSON file holding one connection")
	setConnectionCmd.Flags().BoolVar(&applyAfter, "apply", false, "Apply the network changes after writing")
	setConnectionCmd.Flags().BoolVar(&verifyAfter, "verify", false, "Re-read the connection until the service returns what was written")
	setConnectionCmd.Flags().BoolVar(&safeUpdate, "safe", false, "Verify and restore the previous connection on failure")
	setConnectionCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before changes that may cut connectivity")
	_ = setConnectionCmd.MarkFlagRequired("file")
}

func networkClient(cmd *cobra.Command) (*network.Client, error) {
	tr, err := connect(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return network.NewClient(tr), nil
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List network devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := networkClient(cmd)
		if err != nil {
			return err
		}
		devices, err := client.Devices(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}
		return render(cmd, devices, func(p *ui.Printer) { printDevices(p, devices) })
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List network connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := networkClient(cmd)
		if err != nil {
			return err
		}
		conns, err := client.Connections(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list connections: %w", err)
		}
		return render(cmd, conns, func(p *ui.Printer) { printConnections(p, conns) })
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show devices and connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := networkClient(cmd)
		if err != nil {
			return err
		}
		state, err := client.State(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read network state: %w", err)
		}
		return render(cmd, state, func(p *ui.Printer) {
			p.PrintHeader("Network status", "agama-net status", nil)
			printDevices(p, state.Devices)
			p.Newline()
			printConnections(p, state.Connections)
		})
	},
}

var connectionCmd = &cobra.Command{
	Use:   "connection <id>",
	Short: "Show one network connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := networkClient(cmd)
		if err != nil {
			return err
		}
		conn, state, err := client.LookupConnection(cmd.Context(), args[0])
		switch state {
		case resource.Failed:
			return fmt.Errorf("failed to read connection: %w", err)
		case resource.NotFound:
			return fmt.Errorf("connection %q not found", args[0])
		}
		return render(cmd, conn, func(p *ui.Printer) {
			if compact {
				p.Println(conn.FormatCompact())
				return
			}
			p.Println(conn.FormatDetailed())
		})
	},
}

var setConnectionCmd = &cobra.Command{
	Use:   "set-connection -f <file>",
	Short: "Create or replace a network connection",
	Long: `Create or replace a network connection from a YAML or JSON file.

The connection is created when the service has no connection with its id and
replaced otherwise. Nothing is written if the service cannot tell whether the
connection exists. Changes that may cut connectivity (bringing a connection
down, dropping a static address, moving to another interface) ask for
confirmation unless --yes is given.`,
	Example: `  # Replace eth0 and apply right away
  agama-net set-connection -f eth0.yaml --apply

  # Restore the old connection if the service does not store the new one
  agama-net set-connection -f eth0.yaml --safe`,
	RunE: runSetConnection,
}

func runSetConnection(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var conn network.Connection
	if err := readYAMLFile(connectionFile, &conn); err != nil {
		return err
	}
	if err := network.ValidateConnection(conn); err != nil {
		return fmt.Errorf("%s", network.FormatValidationErrors(err))
	}

	client, err := networkClient(cmd)
	if err != nil {
		return err
	}
	p := newPrinter(cmd)
	p.PrintWarning("Check connection "+conn.ID, network.Warnings(conn))

	current, state, err := client.LookupConnection(ctx, conn.ID)
	if state == resource.Failed {
		return fmt.Errorf("failed to read connection %q: %w", conn.ID, err)
	}
	var before *network.Connection
	if state == resource.Found {
		before = &current
		p.Println("Changes:")
		p.Print(network.FormatDiff(current, conn))
	}

	warning := network.PromptBeforeDestructive(before, conn)
	if !assumeYes && !ui.ConfirmDestructive(cmd.InOrStdin(), cmd.OutOrStdout(), "Connection "+conn.ID, warning) {
		return errCanceled
	}

	outcome := resource.Created
	if state == resource.Found {
		outcome = resource.Replaced
	}
	details := map[string]string{"Interface": dashIfEmpty(conn.Interface)}

	switch {
	case safeUpdate:
		result := network.NewRollbackManager(client).SafeUpsert(ctx, conn, nil, "set-connection "+conn.ID)
		p.Println(result.String())
		if !result.Success {
			return result.Error
		}
		details["Verified"] = strconv.Itoa(result.UpdateResult.Attempts) + " attempt(s)"
	case verifyAfter:
		result := client.UpdateAndVerify(ctx, conn, nil)
		if !result.Success {
			return result.Error
		}
		details["Verified"] = strconv.Itoa(result.Attempts) + " attempt(s)"
	default:
		if outcome, err = client.AddOrUpdateConnection(ctx, conn); err != nil {
			return err
		}
	}

	if applyAfter {
		if err := client.Apply(ctx); err != nil {
			return fmt.Errorf("connection written but apply failed: %w", err)
		}
		details["Applied"] = "yes"
	} else {
		details["Applied"] = "no (run 'agama-net apply')"
	}

	p.PrintSuccess(fmt.Sprintf("Connection %s %s", conn.ID, outcome), details)
	return nil
}

func printDevices(p *ui.Printer, devices []network.Device) {
	if !p.Styled || len(devices) == 0 {
		p.Print(network.FormatDevices(devices))
		return
	}
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Name, string(d.Type), string(d.State)})
	}
	p.PrintTable([]string{"NAME", "TYPE", "STATE"}, rows)
}

func printConnections(p *ui.Printer, conns []network.Connection) {
	if !p.Styled || len(conns) == 0 {
		p.Print(network.FormatConnections(conns))
		return
	}
	rows := make([][]string, 0, len(conns))
	for _, c := range conns {
		status := "up"
		if !c.IsUp() {
			status = "down"
		}
		rows = append(rows, []string{c.ID, dashIfEmpty(c.Interface), dashIfEmpty(string(c.Method4)), joinOrNone(c.Addresses), status})
	}
	p.PrintTable([]string{"ID", "INTERFACE", "IPV4", "ADDRESSES", "STATUS"}, rows)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
