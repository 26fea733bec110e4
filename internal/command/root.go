// Package command implements the commstat CLI.
package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "commstat"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "CommStat - situational awareness reports over JS8Call and the backbone",
		Long:          "CommStat exchanges StatReps, alerts and messages over radio and the internet backbone relay.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("db", "", "path to traffic database (overrides config)")
	cmd.PersistentFlags().Bool("debug", false, "verbose diagnostics")

	cmd.AddCommand(
		NewPollCmd(),
		NewDaemonCmd(),
		NewIngestCmd(),
		NewStatRepsCmd(),
		NewAlertsCmd(),
		NewMessagesCmd(),
		NewMembersCmd(),
		NewSendCmd(),
		NewCursorCmd(),
		NewConfigCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}
