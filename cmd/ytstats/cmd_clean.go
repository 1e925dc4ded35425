package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"ytstats/internal/exporter"
	"ytstats/internal/validation"
)

func newCleanCmd(opts *rootOptions) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Load and clean the source, then write the canonical dataset",
		Long: `Loads the statistics file, runs the cleaning pipeline and writes the
result. Filter flags restrict what is written. With --out the cleaning report
is printed to stdout; without it the dataset itself goes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" && f == exporter.FormatXLSX {
				return fmt.Errorf("xlsx output needs --out")
			}

			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			ds := svc.Filter(cmd.Context(), opts.selections())
			write := func(w io.Writer) error {
				return exporter.Write(w, ds, f)
			}

			if out == "" {
				return write(cmd.OutOrStdout())
			}
			if err := validation.NewFileValidator(opts.logger(cmd)).ValidateOutputDirectory(filepath.Dir(out)); err != nil {
				return err
			}
			if err := exporter.WriteFile(out, write); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			return writeJSON(cmd.OutOrStdout(), svc.Report())
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "destination file (default stdout)")
	cmd.Flags().StringVar(&format, "format", string(exporter.FormatCSV), "file format: csv, xlsx or source")

	return cmd
}
