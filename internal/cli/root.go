package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
}

// ValidFormats defines the allowed diagnostic output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the convexpg CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "convexpg",
		Short: "Convert Convex snapshot exports to PostgreSQL SQL",
		Long: `convexpg converts a Convex snapshot export directory into PostgreSQL
schema (CREATE TABLE) and data (INSERT) statements.

Column types are inferred from the export's generated type summaries and,
where those are absent, from the documents themselves. Output is
deterministic: the same export always produces byte-identical SQL.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose per-table progress on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "summary output format (json|text)")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}
