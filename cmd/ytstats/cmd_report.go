package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytstats/internal/exporter"
	"ytstats/pkg/contracts"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print one of the dashboard reports",
	}

	var n int
	topChannels := &cobra.Command{
		Use:   "top-channels",
		Short: "Most subscribed and most viewed channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == outputCSV {
				return fmt.Errorf("top-channels prints json only")
			}
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			report, err := svc.TopChannels(cmd.Context(), opts.selections(), n)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	topChannels.Flags().IntVar(&n, "n", 0, "channels per ranking (0 = default limit)")

	categoryPopularity := &cobra.Command{
		Use:   "category-popularity",
		Short: "Subscriber and view shares per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == outputCSV {
				return fmt.Errorf("category-popularity prints json only")
			}
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			report, err := svc.CategoryPopularity(cmd.Context(), opts.selections())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	countrySubscribers := &cobra.Command{
		Use:   "country-subscribers",
		Short: "Mean subscribers per country and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd)
			if err != nil {
				return err
			}
			report, err := svc.CountrySubscribers(cmd.Context(), opts.selections())
			if err != nil {
				return err
			}
			if opts.output == outputCSV {
				return exporter.WriteGroupsCSV(cmd.OutOrStdout(), report.Groups)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.AddCommand(topChannels, categoryPopularity, countrySubscribers)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), contracts.GetVersionInfo())
		},
	}
}
