package command

import (
	"fmt"

	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// NewStatRepsCmd creates the statreps command: list stored status reports.
func NewStatRepsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "statreps",
		Short: "List received status reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			reps, err := db.ListStatReps(ctx.DB, limit)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if len(reps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No status reports.")
				return nil
			}

			for _, r := range reps {
				tag := originTag(r.Origin)
				if r.Forwarded {
					tag += " [forwarded]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %-6s %s  %s%s\n",
					age(r.Datetime), r.Callsign, r.Grid, r.Code, r.Precedence, tag)
				if r.Comments != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", r.Comments)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "max reports to show")
	return cmd
}
