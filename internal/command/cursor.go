package command

import (
	"fmt"
	"strconv"

	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// NewCursorCmd creates the cursor command: inspect or reset the backbone
// data_id cursor.
func NewCursorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cursor [value]",
		Short: "Show or set the backbone message cursor",
		Long: "Without an argument, prints the highest backbone message id already\n" +
			"processed. With a value, moves the cursor forward to it; the cursor\n" +
			"never moves backwards.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			if len(args) == 0 {
				cursor, err := db.GetCursor(ctx.DB)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cursor)
				return nil
			}

			value, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || value < 0 {
				return writeCommandError(cmd, fmt.Errorf("cursor value must be a non-negative integer, got %q", args[0]))
			}
			if err := db.SetCursor(ctx.DB, value); err != nil {
				return writeCommandError(cmd, err)
			}
			cursor, err := db.GetCursor(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cursor is %d\n", cursor)
			return nil
		},
	}
	return cmd
}
