package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/commstat/commstat/internal/core"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change operator configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
	)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := core.ReadConfig()
			if err != nil {
				return writeCommandError(cmd, err)
			}
			path, err := core.ConfigPath()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:   %s\n", path)
			fmt.Fprintf(out, "callsign:      %s\n", config.Callsign)
			fmt.Fprintf(out, "group:         %s\n", config.Group)
			fmt.Fprintf(out, "grid:          %s\n", config.Grid)
			fmt.Fprintf(out, "backbone_url:  %s\n", config.BackboneURL)
			fmt.Fprintf(out, "directed_path: %s\n", config.DirectedPath)
			fmt.Fprintf(out, "db_path:       %s\n", config.DBPath)
			fmt.Fprintf(out, "poll_seconds:  %d\n", config.PollSeconds)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Keys: callsign, group, grid, backbone_url, directed_path, db_path,\n" +
			"poll_seconds.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := core.ReadConfig()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			key, value := args[0], args[1]
			switch key {
			case "callsign":
				config.Callsign = strings.ToUpper(value)
			case "group":
				if !strings.HasPrefix(value, "@") {
					value = "@" + value
				}
				config.Group = strings.ToUpper(value)
			case "grid":
				config.Grid = value
			case "backbone_url":
				config.BackboneURL = value
			case "directed_path":
				config.DirectedPath = value
			case "db_path":
				config.DBPath = value
			case "poll_seconds":
				seconds, err := strconv.Atoi(value)
				if err != nil || seconds <= 0 {
					return writeCommandError(cmd, fmt.Errorf("poll_seconds must be a positive integer, got %q", value))
				}
				config.PollSeconds = seconds
			default:
				return writeCommandError(cmd, fmt.Errorf("unknown config key %q", key))
			}

			if err := core.WriteConfig(config); err != nil {
				return writeCommandError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		},
	}
}
