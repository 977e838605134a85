package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/events"
)

var watchRoots []string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchRoots, "root", nil, "Only show events of these areas (network, software)")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes made on the service",
	Long: `Print every create, replace and apply the service performs until
interrupted. With --format json each event is printed as one JSON line.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := connect(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	wsURL, err := events.URLFromBase(tr.BaseURL())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", wsURL)

	err = events.Watch(ctx, wsURL, func(ev events.Event) error {
		if !wantRoot(ev.Root) {
			return nil
		}
		if outputFormat == "json" {
			data, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		}
		_, err := fmt.Fprintln(out, formatEvent(ev))
		return err
	})
	if err != nil && ctx.Err() == context.Canceled {
		return nil
	}
	return err
}

func wantRoot(root string) bool {
	if len(watchRoots) == 0 {
		return true
	}
	for _, r := range watchRoots {
		if strings.EqualFold(r, root) {
			return true
		}
	}
	return false
}

// formatEvent renders one event as
// "15:04:05 replaced network/connections/eth0 (generation 3, 2 pending)"
func formatEvent(ev events.Event) string {
	target := ev.Root
	if ev.Collection != "" {
		target += "/" + ev.Collection
	}
	if ev.ResourceID != "" {
		target += "/" + ev.ResourceID
	}
	return fmt.Sprintf("%s %-8s %s (generation %d, %d pending)",
		ev.Time.Local().Format("15:04:05"), ev.Type, target, ev.Generation, ev.Pending)
}
