package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/subtrans/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved settings",
		Long: `Show or change the settings saved in the user config directory.

Keys: ` + strings.Join(config.Keys(), ", ") + `

Command-line flags override saved settings; saved settings override
environment variables.`,
	}

	cmd.AddCommand(configShowCmd(), configSetCmd(), configPathCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved config (API key redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := config.NewManager()
			if err != nil {
				return err
			}
			cfg, err := m.Load()
			if err != nil {
				return err
			}
			redacted := cfg.Redacted()
			data, err := json.MarshalIndent(&redacted, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := config.NewManager()
			if err != nil {
				return err
			}
			cfg, err := m.Load()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := m.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%s %s saved to %s\n", color.GreenString("✓"), args[0], m.GetConfigPath())
			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := config.NewManager()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.GetConfigPath())
			return nil
		},
	}
}
