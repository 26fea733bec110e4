package command

import (
	"fmt"
	"strings"

	"github.com/commstat/commstat/internal/backbone"
	"github.com/commstat/commstat/internal/core"
	"github.com/commstat/commstat/internal/statrep"
	"github.com/commstat/commstat/internal/types"
	"github.com/spf13/cobra"
)

// defaultFrequency is reported with backbone-only submissions, where no
// radio is transmitting.
const defaultFrequency = 14118000

// NewSendCmd creates the send command group: push outgoing traffic to the
// backbone relay.
func NewSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message, alert or status report over the backbone",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newSendMessageCmd(),
		newSendAlertCmd(),
		newSendStatRepCmd(),
	)
	return cmd
}

// submitPayload pushes one payload line to the relay. The payload carries
// the sender prefix the same way a radio transmission would.
func submitPayload(cmd *cobra.Command, freq int64, content string) error {
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

	payload := fmt.Sprintf("%s: %s", ctx.Config.Callsign, content)
	client := backbone.NewClient(ctx.Config.BackboneURL, ctx.Config.Callsign, core.Build)
	if err := client.Submit(cmd.Context(), payload, freq, 30); err != nil {
		return writeCommandError(cmd, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Sent.")
	return nil
}

func requireGroup(cmd *cobra.Command) (string, error) {
	config, err := core.ReadConfig()
	if err != nil {
		return "", err
	}
	if config.Group == "" {
		return "", fmt.Errorf("no group configured. Use 'commstat config set group @NAME'")
	}
	return config.Group, nil
}

func newSendMessageCmd() *cobra.Command {
	var freq int64

	cmd := &cobra.Command{
		Use:   "message <text>...",
		Short: "Send a plain message to the group",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := requireGroup(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			content := fmt.Sprintf("%s %s", group, strings.Join(args, " "))
			return submitPayload(cmd, freq, content)
		},
	}
	cmd.Flags().Int64Var(&freq, "freq", defaultFrequency, "reported frequency in Hz")
	return cmd
}

func newSendAlertCmd() *cobra.Command {
	var freq int64
	var color, title string

	cmd := &cobra.Command{
		Use:   "alert <body>...",
		Short: "Send an alert to the group",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := requireGroup(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			body := strings.Join(args, " ")
			content := fmt.Sprintf("%s ,%s,%s,%s,%s,%s",
				group, core.TimeBasedID(), color, title, body, types.MarkerAlert)
			return submitPayload(cmd, freq, content)
		},
	}
	cmd.Flags().Int64Var(&freq, "freq", defaultFrequency, "reported frequency in Hz")
	cmd.Flags().StringVar(&color, "color", "1", "alert color code")
	cmd.Flags().StringVar(&title, "title", "Alert", "alert title")
	return cmd
}

func newSendStatRepCmd() *cobra.Command {
	var freq int64
	var precedence, code, comments string

	cmd := &cobra.Command{
		Use:   "statrep",
		Short: "Send a status report to the group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := core.ReadConfig()
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if config.Group == "" {
				return writeCommandError(cmd, fmt.Errorf("no group configured. Use 'commstat config set group @NAME'"))
			}
			if config.Grid == "" {
				return writeCommandError(cmd, fmt.Errorf("no grid configured. Use 'commstat config set grid <square>'"))
			}
			if !statrep.ValidPrecedence(precedence) {
				return writeCommandError(cmd, fmt.Errorf("precedence must be 1-5, got %q", precedence))
			}
			if _, err := statrep.Parse(code, false); err != nil {
				return writeCommandError(cmd, err)
			}

			content := fmt.Sprintf("%s ,%s,%s,%s,%s,%s,%s",
				config.Group, config.Grid, precedence, core.TimeBasedID(),
				statrep.Compress(code), comments, types.MarkerStatRep)
			return submitPayload(cmd, freq, content)
		},
	}
	cmd.Flags().Int64Var(&freq, "freq", defaultFrequency, "reported frequency in Hz")
	cmd.Flags().StringVar(&precedence, "precedence", "1", "report precedence 1-5")
	cmd.Flags().StringVar(&code, "code", statrep.AllClear, "12-digit status code, or + for all clear")
	cmd.Flags().StringVar(&comments, "comments", "", "free-text comments")
	return cmd
}
