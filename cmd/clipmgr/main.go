// clipmgr: clipboard history daemon and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipmgr/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clipmgr",
		Short: "Clipboard history",
		Long: `clipmgr remembers the text you copy.

Run "clipmgr daemon" to start watching the clipboard. It keeps the last 50
distinct snippets, newest first, in memory only. Copying something that is
already in the history does not move it to the top.

Use "clipmgr menu", "list", "copy", "remove" and "window" to browse the
history and put an older snippet back on the clipboard. Indexes are 0-based,
0 being the newest entry.

Config file search order (first found wins):
  /etc/clipmgr/clipmgr.toml
  $HOME/.config/clipmgr/clipmgr.toml
  path supplied via --config

All flags can be set via CLIPMGR_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newMenuCmd(),
		newListCmd(),
		newShowCmd(),
		newCopyCmd(),
		newRemoveCmd(),
		newWindowCmd(),
		newStatusCmd(),
		newQuitCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clipmgr %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
