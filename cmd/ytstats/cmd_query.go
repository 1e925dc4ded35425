package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytstats/internal/config"
	"ytstats/internal/dataprocessing"
	"ytstats/internal/exporter"
)

// channelPage is the JSON shape of filter and top results
type channelPage struct {
	Matched int         `json:"matched"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

func (o *rootOptions) writeChannels(cmd *cobra.Command, matched int, ds *dataprocessing.Dataset) error {
	if o.output == outputCSV {
		return exporter.WriteCSV(cmd.OutOrStdout(), ds)
	}
	return writeJSON(cmd.OutOrStdout(), channelPage{
		Matched: matched,
		Count:   ds.Len(),
		Data:    ds.Records(),
	})
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List the channels matching the filter flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if offset < 0 || limit < 0 {
				return fmt.Errorf("offset and limit must not be negative")
			}
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			filtered := svc.Filter(cmd.Context(), opts.selections())
			return opts.writeChannels(cmd, filtered.Len(), filtered.Page(offset, limit))
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many channels")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many channels (0 = all)")

	return cmd
}

func newTopCmd(opts *rootOptions) *cobra.Command {
	var (
		field string
		n     int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank the filtered channels by a field, descending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			filtered := svc.Filter(cmd.Context(), opts.selections())
			top, err := svc.TopN(cmd.Context(), filtered, field, n)
			if err != nil {
				return err
			}
			return opts.writeChannels(cmd, filtered.Len(), top)
		},
	}

	cmd.Flags().StringVar(&field, "field", dataprocessing.FieldSubscribers, "column to rank by")
	cmd.Flags().IntVar(&n, "n", config.Default().Query.DefaultLimit, "number of channels")

	return cmd
}

func newGroupCmd(opts *rootOptions) *cobra.Command {
	var (
		by      []string
		value   string
		reducer string
	)

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Reduce a numeric column per group of one or more columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := dataprocessing.ParseReducer(reducer)
			if err != nil {
				return err
			}
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			filtered := svc.Filter(cmd.Context(), opts.selections())
			groups, err := svc.GroupReduceBy(cmd.Context(), filtered, by, value, r)
			if err != nil {
				return err
			}

			if opts.output == outputCSV {
				return exporter.WriteGroupsCSV(cmd.OutOrStdout(), groups)
			}
			return writeJSON(cmd.OutOrStdout(), groups)
		},
	}

	cmd.Flags().StringSliceVar(&by, "by", nil, "grouping column, repeat for a composite key")
	cmd.Flags().StringVar(&value, "value", dataprocessing.FieldSubscribers, "numeric column to reduce")
	cmd.Flags().StringVar(&reducer, "reducer", string(dataprocessing.ReducerSum), "sum or mean")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func newArgmaxCmd(opts *rootOptions) *cobra.Command {
	var by, value string

	cmd := &cobra.Command{
		Use:   "argmax",
		Short: "Name the group with the largest total of a numeric column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			filtered := svc.Filter(cmd.Context(), opts.selections())
			key, ok, err := svc.ArgmaxGroup(cmd.Context(), filtered, by, value)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no channels match the filter")
			}

			if opts.output == outputCSV {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "key\n%s\n", key)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"by": by, "value": value, "key": key})
		},
	}

	cmd.Flags().StringVar(&by, "by", dataprocessing.FieldCategory, "grouping column")
	cmd.Flags().StringVar(&value, "value", dataprocessing.FieldSubscribers, "numeric column to total")

	return cmd
}

func newDimensionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dimensions",
		Short: "List the values available to --country, --category and --year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			dims, err := svc.Dimensions(cmd.Context())
			if err != nil {
				return err
			}

			if opts.output != outputCSV {
				return writeJSON(cmd.OutOrStdout(), dims)
			}

			sw, err := exporter.NewStreamWriter(cmd.OutOrStdout(), []string{"dimension", "value"}, false)
			if err != nil {
				return err
			}
			for _, part := range []struct {
				dimension dataprocessing.Dimension
				values    []string
			}{
				{dataprocessing.DimensionCountry, dims.Countries},
				{dataprocessing.DimensionCategory, dims.Categories},
				{dataprocessing.DimensionCreatedYear, dims.Years},
			} {
				for _, v := range part.values {
					if err := sw.WriteRecord([]string{string(part.dimension), v}); err != nil {
						return err
					}
				}
			}
			return sw.Close()
		},
	}
}
