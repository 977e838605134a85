package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffmahoney/agama/internal/config"
)

var overwriteConfig bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&overwriteConfig, "force", false, "Replace an existing config file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the agama-net config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault(overwriteConfig)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings in effect: the config file with AGAMA_API_URL and
AGAMA_LOG_LEVEL applied. The API password is only read from
AGAMA_API_PASSWORD and is never shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return render(cmd, cfg, nil)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		return writeYAML(cmd.OutOrStdout(), cfg)
	},
}
