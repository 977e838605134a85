package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/software"
	"github.com/jeffmahoney/agama/internal/ui"
)

var (
	selectedOnly  bool
	applyPatterns bool
)

func init() {
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(selectPatternsCmd)

	patternsCmd.Flags().BoolVar(&selectedOnly, "selected", false, "Only list selected patterns")
	selectPatternsCmd.Flags().BoolVar(&applyPatterns, "apply", false, "Apply the software changes after selecting")
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List software patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := connect(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		client := software.NewClient(tr)

		var patterns []software.Pattern
		if selectedOnly {
			patterns, err = client.SelectedPatterns(cmd.Context())
		} else {
			patterns, err = client.Patterns(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to list patterns: %w", err)
		}

		return render(cmd, patterns, func(p *ui.Printer) {
			if len(patterns) == 0 {
				p.Println("(no patterns)")
				return
			}
			rows := make([][]string, 0, len(patterns))
			for _, pat := range patterns {
				rows = append(rows, []string{pat.Name, pat.Category, string(pat.SelectedBy), pat.Summary})
			}
			p.PrintTable([]string{"NAME", "CATEGORY", "SELECTED", "SUMMARY"}, rows)
		})
	},
}

var selectPatternsCmd = &cobra.Command{
	Use:   "select-patterns [name...]",
	Short: "Set the user-selected software patterns",
	Long: `Make the given patterns the complete user selection.

Patterns not named lose their user selection; patterns chosen by the solver
are left alone. Every name is checked before anything is written, so an
unknown pattern changes nothing. With no names the user selection is cleared.`,
	Example: `  agama-net select-patterns gnome devel_basis --apply`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := connect(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		client := software.NewClient(tr)

		changed, err := client.SelectPatterns(cmd.Context(), args)
		if err != nil {
			return err
		}
		details := map[string]string{
			"Selected": joinOrNone(args),
			"Changed":  joinOrNone(changed),
		}
		if applyPatterns {
			if err := client.Apply(cmd.Context()); err != nil {
				return fmt.Errorf("patterns selected but apply failed: %w", err)
			}
			details["Applied"] = "yes"
		}
		newPrinter(cmd).PrintSuccess("Pattern selection updated", details)
		return nil
	},
}
