package command

import (
	"fmt"

	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// NewMembersCmd creates the members command: the check-in roster.
func NewMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List stations that have checked in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			members, err := db.ListMembers(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if len(members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No members.")
				return nil
			}

			for _, m := range members {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-6s %-4s %8.3f %8.3f  last heard %s\n",
					m.Callsign, m.Grid, m.State, m.Lat, m.Lon, age(m.Datetime))
			}
			return nil
		},
	}
	return cmd
}
