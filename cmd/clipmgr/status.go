package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/rpcservice"
	"go.klb.dev/clipmgr/internal/tui"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()
	cmd := newClientCmd(v, &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				resp, err := c.Status(ctx, &api.StatusRequest{})
				if err != nil {
					return fmt.Errorf("status: %w", err)
				}
				if v.GetBool("json") {
					return writeJSON(cmd.OutOrStdout(), resp)
				}
				return printStatus(cmd.OutOrStdout(), resp, time.Now())
			})
		},
	})
	cmd.Flags().Bool("json", false, "output raw JSON")
	return cmd
}

func printStatus(w io.Writer, resp *api.StatusResponse, now time.Time) error {
	tw := tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Version:\t%s\n", resp.Version)
	fmt.Fprintf(tw, "Clipboard:\t%s\n", resp.Backend)
	fmt.Fprintf(tw, "Entries:\t%d/%d\n", resp.Entries, resp.Capacity)
	fmt.Fprintf(tw, "Menu size:\t%d\n", resp.MenuSize)
	fmt.Fprintf(tw, "Interval:\t%s\n", resp.Interval)
	fmt.Fprintf(tw, "Up:\t%s (since %s)\n",
		now.Sub(resp.StartedAt).Round(time.Second),
		resp.StartedAt.Local().Format(time.RFC3339),
	)
	return tw.Flush()
}

func newQuitCmd() *cobra.Command {
	v := viper.New()
	return newClientCmd(v, &cobra.Command{
		Use:   "quit",
		Short: "Stop the daemon",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				_, err := c.Quit(ctx, &api.QuitRequest{})
				return err
			})
		},
	})
}

func newWindowCmd() *cobra.Command {
	v := viper.New()
	return newClientCmd(v, &cobra.Command{
		Use:   "window",
		Short: "Browse the full history in a terminal window",
		Long: `Opens the clipboard list window. Move with ↑/↓, press enter to put the
selected entry back on the clipboard, d to delete it, q to close.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, closeConn, err := dialDaemon(v)
			if err != nil {
				return err
			}
			defer closeConn()
			return tui.Run(client)
		},
	})
}
