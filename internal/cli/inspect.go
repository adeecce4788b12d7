package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/convexpg/internal/export"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Sample     int
	ConfigPath string
}

// TableReport is one table's inspection summary.
type TableReport struct {
	Table        string   `json:"table"`
	Columns      int      `json:"columns"`
	Rows         int      `json:"rows"`
	SkippedLines int      `json:"skipped_lines,omitempty"`
	Widened      []string `json:"widened_columns,omitempty"`
}

// InspectReport is the full inspection summary.
type InspectReport struct {
	Tables []TableReport `json:"tables"`
}

// String renders the report for text output.
func (r InspectReport) String() string {
	if len(r.Tables) == 0 {
		return "no tables found"
	}
	var b strings.Builder
	for i, t := range r.Tables {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d columns, %d rows", t.Table, t.Columns, t.Rows)
		if t.SkippedLines > 0 {
			fmt.Fprintf(&b, ", %d malformed line(s) skipped", t.SkippedLines)
		}
		if len(t.Widened) > 0 {
			fmt.Fprintf(&b, ", widened to JSONB: %v", t.Widened)
		}
	}
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <export-dir>",
		Short: "Summarize an export without emitting SQL",
		Long: `Inspect a Convex snapshot export: for each table, report the inferred
column count, row count, and any soft issues (malformed lines, columns
widened to JSONB), without writing any SQL.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Sample, "sample", 0, "documents sampled per table for type inference")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")

	return cmd
}

func runInspect(opts *InspectOptions, exportDir string, cmd *cobra.Command) error {
	formatter := &Formatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   NewTraceID(),
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sample") {
		cfg.SampleLimit = opts.Sample
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	conv := export.NewConverter(cfg)
	results, convErr := conv.ConvertExport(exportDir, io.Discard, io.Discard)
	if convErr != nil {
		formatter.Error("INSPECT_FAILED", convErr.Error(), nil)
		return WrapExitError(ExitCommandError, "inspect failed", convErr)
	}

	report := InspectReport{}
	for _, res := range results {
		report.Tables = append(report.Tables, TableReport{
			Table:        res.Table.DisplayName(),
			Columns:      len(res.Schema.Columns),
			Rows:         res.RowCount,
			SkippedLines: res.SkippedDocLines + res.SkippedSummaryLines,
			Widened:      res.Schema.WidenedColumns(),
		})
	}
	return formatter.Success(report)
}
