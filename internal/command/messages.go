package command

import (
	"fmt"

	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// NewMessagesCmd creates the messages command: list the message feed.
func NewMessagesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List received messages and bulletins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			if marquee, err := db.LatestMarquee(ctx.DB); err == nil && marquee != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "*** %s (%s) ***\n\n", marquee.Body, marquee.Common.Callsign)
			}

			messages, err := db.ListMessages(ctx.DB, limit)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if len(messages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No messages.")
				return nil
			}

			for _, m := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %s%s\n",
					age(m.Datetime), m.Callsign, m.Message, originTag(m.Origin))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "max messages to show")
	return cmd
}
