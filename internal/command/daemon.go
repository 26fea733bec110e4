package command

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commstat/commstat/internal/daemon"
	"github.com/spf13/cobra"
)

// NewDaemonCmd creates the daemon command: the long-running ingestion loops.
func NewDaemonCmd() *cobra.Command {
	var intervalSeconds int
	var notify bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the background poll and radio-watch loops",
		Long: "Polls the backbone relay on an interval and watches JS8Call's DIRECTED.TXT\n" +
			"for traffic heard over the air. Runs until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			if ctx.Config.BackboneURL == "" && ctx.Config.DirectedPath == "" {
				return writeCommandError(cmd, fmt.Errorf("nothing to do: configure backbone_url and/or directed_path first"))
			}

			opts := daemon.Config{Debug: ctx.Debug, Notify: notify}
			if intervalSeconds > 0 {
				opts.PollInterval = time.Duration(intervalSeconds) * time.Second
			}
			d := daemon.New(ctx.Config, ctx.DB, opts)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				<-sigCh
				fmt.Fprintln(cmd.ErrOrStderr(), "Shutting down...")
				d.Stop()
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "%s daemon started (poll interval %s)\n",
				AppName, ctx.Config.PollInterval())
			if err := d.Run(cmd.Context()); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&intervalSeconds, "interval", 0, "backbone poll interval in seconds (overrides config)")
	cmd.Flags().BoolVar(&notify, "notify", false, "desktop notification on incoming alerts")
	return cmd
}
