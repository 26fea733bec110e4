package command

import (
	"fmt"

	"github.com/commstat/commstat/internal/backbone"
	"github.com/commstat/commstat/internal/core"
	"github.com/commstat/commstat/internal/db"
	"github.com/spf13/cobra"
)

// NewPollCmd creates the poll command: a single backbone heartbeat cycle.
func NewPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll the backbone relay once for new messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			if ctx.Config.BackboneURL == "" {
				return writeCommandError(cmd, fmt.Errorf("no backbone_url configured. Use 'commstat config set backbone_url <url>'"))
			}
			if ctx.Config.Callsign == "" {
				return writeCommandError(cmd, fmt.Errorf("no callsign configured. Use 'commstat config set callsign <call>'"))
			}

			cursor, err := db.GetCursor(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			client := backbone.NewClient(ctx.Config.BackboneURL, ctx.Config.Callsign, core.Build)
			response, err := client.Ping(cmd.Context(), cursor, 30)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			ingester := backbone.NewIngester(db.NewStore(ctx.DB), nil)
			result, err := ingester.Ingest(cmd.Context(), response, cursor)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if err := db.SetCursor(ctx.DB, result.Cursor); err != nil {
				// The records are stored; only the cursor write failed. The
				// next poll may re-fetch and dedupe them.
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: cursor write failed at %d: %v\n", result.Cursor, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d records (malformed %d, duplicate %d), cursor %d -> %d\n",
				result.Persisted, result.Malformed, result.Duplicate, cursor, result.Cursor)
			return nil
		},
	}
	return cmd
}
