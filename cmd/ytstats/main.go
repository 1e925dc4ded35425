// Command ytstats cleans the global YouTube statistics file and answers
// queries over it from the command line.
//
// Usage:
//
//	ytstats clean --source Global_YouTube_Statistics.csv --out cleaned.csv
//	ytstats top --field subscribers --n 5 --country India
//	ytstats group --by country --by category --value subscribers --reducer mean
//	ytstats report category-popularity --year 2006
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ytstats/internal/config"
	"ytstats/internal/dataprocessing"
	"ytstats/internal/infrastructure"
	"ytstats/internal/services"
	"ytstats/pkg/contracts"
)

// Output formats for query results
const (
	outputJSON = "json"
	outputCSV  = "csv"
)

// stdinSource as --source reads the statistics from stdin
const stdinSource = "-"

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	source   string
	encoding string
	output   string
	verbose  bool

	countries  []string
	categories []string
	years      []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := datasetDefaults()

	root := &cobra.Command{
		Use:          "ytstats",
		Short:        "Clean and query global YouTube channel statistics",
		SilenceUsage: true,
		Version:      contracts.GetFullVersionString(),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.output = strings.ToLower(strings.TrimSpace(opts.output))
			if opts.output != outputJSON && opts.output != outputCSV {
				return fmt.Errorf("unsupported output format %q (want json or csv)", opts.output)
			}
			return nil
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.source, "source", defaults.SourcePath, "statistics file, a directory holding it, or - for stdin")
	flags.StringVar(&opts.encoding, "encoding", defaults.Encoding, "text encoding of a CSV source")
	flags.StringVarP(&opts.output, "output", "o", outputJSON, "result format: json or csv")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	flags.StringSliceVar(&opts.countries, "country", nil, "keep only these countries (repeatable or comma-separated)")
	flags.StringSliceVar(&opts.categories, "category", nil, "keep only these categories")
	flags.StringSliceVar(&opts.years, "year", nil, "keep only channels created in these years")

	root.AddCommand(
		newCleanCmd(opts),
		newFilterCmd(opts),
		newTopCmd(opts),
		newGroupCmd(opts),
		newArgmaxCmd(opts),
		newDimensionsCmd(opts),
		newReportCmd(opts),
		newVersionCmd(),
	)

	return root
}

// datasetDefaults reads the source location from the server configuration
// when one is available
func datasetDefaults() config.DatasetConfig {
	if cfg, err := config.Load(); err == nil {
		return cfg.Dataset
	}
	return config.Default().Dataset
}

// logger writes JSON logs to stderr; warnings only unless --verbose
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger, _, err := infrastructure.NewLogger(config.LoggingConfig{
		Level:  level,
		Format: "json",
		Output: "console",
	}, cmd.ErrOrStderr())
	if err != nil {
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))
	}
	return logger
}

// loadService loads and cleans the source named by the flags. A source of
// "-" reads delimited text from stdin. Every log line of one invocation
// carries the same trace_id.
func (o *rootOptions) loadService(cmd *cobra.Command) (*services.DatasetService, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	cmd.SetContext(ctx)
	logger := o.logger(cmd)

	if o.source != stdinSource {
		return services.LoadDatasetService(ctx,
			config.DatasetConfig{SourcePath: o.source, Encoding: o.encoding},
			logger)
	}

	raw, err := dataprocessing.NewLoader(logger).LoadReader(cmd.InOrStdin(), dataprocessing.FormatCSV, o.encoding)
	if err != nil {
		return nil, err
	}
	raw.Source = "stdin"
	ds, report, err := dataprocessing.NewCleaner(logger).CleanWithReport(raw)
	if err != nil {
		return nil, err
	}
	return services.NewDatasetService(ds, report, logger), nil
}

// selections turns the filter flags into engine selections
func (o *rootOptions) selections() dataprocessing.Selections {
	sel := dataprocessing.Selections{}
	add := func(d dataprocessing.Dimension, values []string) {
		var kept []string
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			sel[d] = kept
		}
	}
	add(dataprocessing.DimensionCountry, o.countries)
	add(dataprocessing.DimensionCategory, o.categories)
	add(dataprocessing.DimensionCreatedYear, o.years)
	return sel
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
