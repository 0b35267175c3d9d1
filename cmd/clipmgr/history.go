package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/menu"
	"go.klb.dev/clipmgr/internal/rpcservice"
)

func newMenuCmd() *cobra.Command {
	v := viper.New()
	return newClientCmd(v, &cobra.Command{
		Use:   "menu",
		Short: "Show the newest entries as a compact menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				resp, err := c.Menu(ctx, &api.MenuRequest{})
				if err != nil {
					return fmt.Errorf("menu: %w", err)
				}
				return resp.Menu.Render(cmd.OutOrStdout())
			})
		},
	})
}

func newListCmd() *cobra.Command {
	v := viper.New()
	cmd := newClientCmd(v, &cobra.Command{
		Use:   "list",
		Short: "List the clipboard history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				resp, err := c.List(ctx, &api.ListRequest{Limit: v.GetInt("limit")})
				if err != nil {
					return fmt.Errorf("list: %w", err)
				}
				if v.GetBool("json") {
					return writeJSON(cmd.OutOrStdout(), resp)
				}
				return printList(cmd.OutOrStdout(), resp)
			})
		},
	})
	cmd.Flags().Int("limit", 0, "show at most this many entries (0 = all)")
	cmd.Flags().Bool("json", false, "output raw JSON")
	return cmd
}

func printList(w io.Writer, resp *api.ListResponse) error {
	if len(resp.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No clipboard history.")
		return err
	}
	tw := tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "INDEX\tTEXT\n")
	for _, e := range resp.Entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\n", e.Index, menu.Label(e.Text))
	}
	return tw.Flush()
}

func newShowCmd() *cobra.Command {
	v := viper.New()
	return newClientCmd(v, &cobra.Command{
		Use:   "show INDEX",
		Short: "Print one entry exactly as copied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				resp, err := c.List(ctx, &api.ListRequest{Limit: index + 1})
				if err != nil {
					return fmt.Errorf("show: %w", err)
				}
				if index >= len(resp.Entries) {
					return fmt.Errorf("no history entry at index %d", index)
				}
				_, err = io.WriteString(cmd.OutOrStdout(), resp.Entries[index].Text)
				return err
			})
		},
	})
}

// expectFlag guards index-addressed commands against a list that shifted
// since the user last looked at it.
const expectFlag = "expect"

func addExpectFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String(expectFlag, "", "fail unless the entry at INDEX is exactly this text")
	return cmd
}

func newCopyCmd() *cobra.Command {
	v := viper.New()
	return addExpectFlag(newClientCmd(v, &cobra.Command{
		Use:   "copy INDEX",
		Short: "Put an entry back on the clipboard",
		Long: `Puts the entry at INDEX back on the system clipboard.

The entry keeps its place in the history: re-copying never moves an entry to
the top. With --expect the copy only happens if the entry at INDEX still holds
that text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				resp, err := c.Copy(ctx, &api.CopyRequest{Index: index, Text: v.GetString(expectFlag)})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "copied: %s\n", menu.Label(resp.Entry.Text))
				return err
			})
		},
	}))
}

func newRemoveCmd() *cobra.Command {
	v := viper.New()
	return addExpectFlag(newClientCmd(v, &cobra.Command{
		Use:     "remove INDEX",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete an entry from the history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withDaemon(v, func(ctx context.Context, c *rpcservice.Client) error {
				resp, err := c.Remove(ctx, &api.RemoveRequest{Index: index, Text: v.GetString(expectFlag)})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", menu.Label(resp.Entry.Text))
				return err
			})
		},
	}))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
