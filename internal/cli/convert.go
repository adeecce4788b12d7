package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/convexpg/internal/export"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	SchemaOnly bool
	DataOnly   bool
	Out        string // combined output file
	SchemaOut  string // schema artifact file
	DataOut    string // data artifact file
	Batch      int
	Sample     int
	ConfigPath string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <export-dir>",
		Short: "Convert an export to CREATE TABLE and INSERT statements",
		Long: `Convert a Convex snapshot export directory to PostgreSQL SQL.

By default schema and data are written as one combined stream to stdout,
with each table's CREATE TABLE followed by its INSERT statements. Use
--schema-out/--data-out to write separate artifacts, or --out for a
combined file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.SchemaOnly, "schema-only", false, "emit only CREATE TABLE statements")
	cmd.Flags().BoolVar(&opts.DataOnly, "data-only", false, "emit only INSERT statements")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "combined output file (default stdout)")
	cmd.Flags().StringVar(&opts.SchemaOut, "schema-out", "", "schema output file")
	cmd.Flags().StringVar(&opts.DataOut, "data-out", "", "data output file")
	cmd.Flags().IntVar(&opts.Batch, "batch", 1, "rows per INSERT statement")
	cmd.Flags().IntVar(&opts.Sample, "sample", 0, "documents sampled per table for type inference")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")

	return cmd
}

func runConvert(opts *ConvertOptions, exportDir string, cmd *cobra.Command) error {
	formatter := &Formatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   NewTraceID(),
	}

	if opts.SchemaOnly && opts.DataOnly {
		return NewExitError(ExitCommandError, "--schema-only and --data-only are mutually exclusive")
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize = opts.Batch
	}
	if cmd.Flags().Changed("sample") {
		cfg.SampleLimit = opts.Sample
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	schemaW, dataW, closeOutputs, err := resolveOutputs(opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutputs()

	conv := export.NewConverter(cfg)
	results, convErr := conv.ConvertExport(exportDir, schemaW, dataW)

	for _, res := range results {
		formatter.VerboseLog("%s: %d columns, %d rows%s",
			res.Table.DisplayName(), len(res.Schema.Columns), res.RowCount, softIssues(res))
	}

	if convErr != nil {
		code := ExitFailure
		if len(results) == 0 {
			code = ExitCommandError
		}
		return WrapExitError(code, "conversion failed", convErr)
	}

	totalRows, totalSkipped := 0, 0
	for _, res := range results {
		totalRows += res.RowCount
		totalSkipped += res.SkippedDocLines + res.SkippedSummaryLines
	}
	summary := fmt.Sprintf("converted %d table(s), %d row(s)", len(results), totalRows)
	if totalSkipped > 0 {
		summary += fmt.Sprintf(", skipped %d malformed line(s)", totalSkipped)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), summary)

	return nil
}

// softIssues summarizes a table's recoverable problems for verbose output.
// Skipped lines and widened columns surface here; they never block the run.
func softIssues(res *export.TableResult) string {
	s := ""
	if n := res.SkippedDocLines + res.SkippedSummaryLines; n > 0 {
		s += fmt.Sprintf(" (%d malformed line(s) skipped)", n)
	}
	if widened := res.Schema.WidenedColumns(); len(widened) > 0 {
		s += fmt.Sprintf(" (widened to JSONB: %v)", widened)
	}
	return s
}

func loadConfig(path string) (*export.Config, error) {
	if path == "" {
		return export.DefaultConfig(), nil
	}
	cfg, err := export.LoadConfig(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	return cfg, nil
}

// resolveOutputs maps the destination flags onto schema and data writers.
// When both artifacts target the same destination they share one writer, so
// each table's DDL is followed by its data.
func resolveOutputs(opts *ConvertOptions, stdout io.Writer) (schemaW, dataW io.Writer, closeAll func(), err error) {
	var files []*os.File
	closeAll = func() {
		for _, f := range files {
			f.Close()
		}
	}
	open := func(path string) (io.Writer, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "create output file", err)
		}
		files = append(files, f)
		return f, nil
	}

	combined := stdout
	if opts.Out != "" {
		combined, err = open(opts.Out)
		if err != nil {
			return nil, nil, closeAll, err
		}
	}

	schemaW, dataW = combined, combined
	if opts.SchemaOut != "" {
		schemaW, err = open(opts.SchemaOut)
		if err != nil {
			return nil, nil, closeAll, err
		}
	}
	if opts.DataOut != "" {
		dataW, err = open(opts.DataOut)
		if err != nil {
			return nil, nil, closeAll, err
		}
	}

	if opts.SchemaOnly {
		dataW = io.Discard
	}
	if opts.DataOnly {
		schemaW = io.Discard
	}
	return schemaW, dataW, closeAll, nil
}
