package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandEntry describes one command of the tree for introspection output.
type commandEntry struct {
	Path  string      `json:"path"`
	Short string      `json:"short"`
	Args  string      `json:"args,omitempty"`
	Flags []flagEntry `json:"flags,omitempty"`
}

type flagEntry struct {
	Name    string `json:"name"`
	Short   string `json:"shorthand,omitempty"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
	Usage   string `json:"usage,omitempty"`
}

func newCommandsCmd() *cobra.Command {
	var (
		filter string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List all commands with their flags",
		Long: `Introspects the command tree and lists every runnable command with its
flags. Works offline, without touching the catalog.`,
		Example: `  gridlake commands
  gridlake commands --filter queries --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := walkCommands(cmd.Root(), "")

			if filter != "" {
				matched := entries[:0]
				for _, entry := range entries {
					if strings.Contains(entry.Path, filter) {
						matched = append(matched, entry)
					}
				}
				entries = matched
			}

			if asJSON {
				return printJSON(os.Stdout, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Path, entry.Short})
			}
			printTable(os.Stdout, []string{"command", "description"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list commands whose path contains this substring")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}

// walkCommands flattens the command tree into entries, depth-first. Group
// commands without a RunE are skipped; their children carry the paths.
func walkCommands(cmd *cobra.Command, prefix string) []commandEntry {
	var entries []commandEntry

	for _, child := range cmd.Commands() {
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}
		path := strings.TrimSpace(prefix + " " + child.Name())
		if child.RunE != nil || child.Run != nil {
			entry := commandEntry{
				Path:  path,
				Short: child.Short,
				Args:  argsHint(child.Use),
			}
			child.Flags().VisitAll(func(f *pflag.Flag) {
				if f.Hidden {
					return
				}
				entry.Flags = append(entry.Flags, flagEntry{
					Name:    f.Name,
					Short:   f.Shorthand,
					Type:    f.Value.Type(),
					Default: f.DefValue,
					Usage:   f.Usage,
				})
			})
			entries = append(entries, entry)
		}
		entries = append(entries, walkCommands(child, path)...)
	}

	return entries
}

// argsHint extracts the positional-argument portion of a Use line, e.g.
// "show <id>" yields "<id>".
func argsHint(use string) string {
	if i := strings.IndexByte(use, ' '); i >= 0 {
		return use[i+1:]
	}
	return ""
}
