package command

import (
	"fmt"

	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// NewAlertsCmd creates the alerts command: list stored alerts.
func NewAlertsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List received alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			alerts, err := db.ListAlerts(ctx.DB, limit)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No alerts.")
				return nil
			}

			for _, a := range alerts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s [%s] %s%s\n",
					age(a.Datetime), a.Callsign, a.Color, a.Title, originTag(a.Origin))
				if a.Message != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", a.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "max alerts to show")
	return cmd
}
