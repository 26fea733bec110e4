package command

import (
	"fmt"
	"os"

	"github.com/commstat/commstat/internal/db"
	"github.com/commstat/commstat/internal/radio"
	"github.com/spf13/cobra"
)

// NewIngestCmd creates the ingest command: a one-shot parse of a directed
// log file into the traffic database.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Parse a JS8Call DIRECTED.TXT file into the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			path := ctx.Config.DirectedPath
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return writeCommandError(cmd, fmt.Errorf("no directed log given. Pass a file or set directed_path in the config"))
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			parser := radio.NewParser(ctx.Config.Group)
			if abbrevs, err := db.GetAbbreviations(ctx.DB); err == nil && len(abbrevs) > 0 {
				parser.Abbreviations = abbrevs
			}

			result, err := parser.Parse(cmd.Context(), string(data), "")
			if err != nil {
				return writeCommandError(cmd, err)
			}

			store := db.NewStore(ctx.DB)
			stored := 0
			for _, rec := range result.Records {
				if err := store.Persist(cmd.Context(), rec); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
					continue
				}
				stored++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d records (malformed %d, skipped %d)\n",
				stored, result.Malformed, result.Skipped)
			return nil
		},
	}
	return cmd
}
