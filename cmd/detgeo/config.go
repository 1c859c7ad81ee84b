package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every resolved setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keys := v.AllKeys()
		sort.Strings(keys)
		for _, key := range keys {
			printf(cmd, "%s = %v\n", key, v.Get(key))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write the resolved settings to a file",
	Long: `Write the resolved settings, defaults included, to a file. The format
follows the extension (.yaml, .json or .toml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Store(v, settings)
		if err := config.Save(v, args[0]); err != nil {
			return err
		}
		printf(cmd, "%s written\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
