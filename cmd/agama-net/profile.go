package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/network"
	"github.com/jeffmahoney/agama/internal/resource"
	"github.com/jeffmahoney/agama/internal/software"
	"github.com/jeffmahoney/agama/internal/ui"
)

// profile is an installation profile as read by "load" and written by "dump"
type profile struct {
	Network  *network.Settings  `json:"network,omitempty" yaml:"network,omitempty"`
	Software *software.Settings `json:"software,omitempty" yaml:"software,omitempty"`
}

var profileFile string

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(applyCmd)

	loadCmd.Flags().StringVarP(&profileFile, "file", "f", "", "Profile file (YAML or JSON)")
	_ = loadCmd.MarkFlagRequired("file")
}

var loadCmd = &cobra.Command{
	Use:   "load -f <profile>",
	Short: "Store an installation profile and apply it",
	Long: `Store every section of an installation profile and apply it.

Network connections are created or replaced in file order, then the network
changes are applied. Software patterns are selected and applied afterwards.
Loading stops at the first failure; later sections are skipped.`,
	Example: `  agama-net load -f profile.yaml`,
	RunE:    runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	var prof profile
	if err := readYAMLFile(profileFile, &prof); err != nil {
		return err
	}
	if prof.Network == nil && prof.Software == nil {
		return errors.New("profile has neither a network nor a software section")
	}

	tr, err := connect(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	type section struct {
		name  string
		store func() error
	}
	var sections []section
	if prof.Network != nil {
		sections = append(sections, section{
			name:  fmt.Sprintf("Network (%d connection(s))", len(prof.Network.Connections)),
			store: func() error { return network.NewStore(network.NewClient(tr)).Store(cmd.Context(), prof.Network) },
		})
	}
	if prof.Software != nil {
		sections = append(sections, section{
			name:  fmt.Sprintf("Software (%d pattern(s))", len(prof.Software.Patterns)),
			store: func() error { return software.NewStore(software.NewClient(tr)).Store(cmd.Context(), prof.Software) },
		})
	}

	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	progress := ui.NewProgress("Loading "+profileFile, names...)
	p := newPrinter(cmd)

	var loadErr error
	for i, s := range sections {
		progress.Start(i)
		if err := s.store(); err != nil {
			progress.Fail(i, resource.ShortMessage(err))
			loadErr = err
			break
		}
		progress.Complete(i, "applied")
	}
	progress.SkipRemaining("not loaded")
	p.PrintProgress(progress)

	if loadErr != nil {
		return loadErr
	}
	p.Newline()
	p.PrintSuccess("Profile loaded", map[string]string{"File": profileFile})
	return nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the current settings as an installation profile",
	Long: `Print the current network connections and user-selected software
patterns as a profile that "load" accepts. The text format is YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := connect(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		var prof profile
		if prof.Network, err = network.NewStore(network.NewClient(tr)).Load(cmd.Context()); err != nil {
			return fmt.Errorf("failed to read network settings: %w", err)
		}
		if prof.Software, err = software.NewStore(software.NewClient(tr)).Load(cmd.Context()); err != nil {
			return fmt.Errorf("failed to read software settings: %w", err)
		}
		if outputFormat == "json" {
			return render(cmd, prof, nil)
		}
		return writeYAML(cmd.OutOrStdout(), prof)
	},
}

var applyCmd = &cobra.Command{
	Use:       "apply [network|software]",
	Short:     "Apply pending changes",
	Long:      `Apply the pending changes of one area, or of both when none is named.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{network.Root, software.Root},
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := connect(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		areas := []string{network.Root, software.Root}
		if len(args) == 1 {
			areas = args
		}

		p := newPrinter(cmd)
		for _, area := range areas {
			switch area {
			case network.Root:
				err = network.NewClient(tr).Apply(cmd.Context())
			case software.Root:
				err = software.NewClient(tr).Apply(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("failed to apply %s changes: %w", area, err)
			}
			p.Println(ui.SuccessMarker + " " + area + " changes applied")
		}
		return nil
	},
}
