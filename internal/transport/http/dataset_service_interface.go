package http

import (
	"context"

	"ytstats/internal/config"
	"ytstats/internal/dataprocessing"
	"ytstats/internal/services"
)

// DatasetServiceInterface defines the query operations the handlers need
type DatasetServiceInterface interface {
	GetCleanedDataset() *dataprocessing.Dataset
	Limits() config.QueryConfig
	Summary(ctx context.Context) services.DatasetSummary
	Dimensions(ctx context.Context) (services.DimensionOptions, error)
	Filter(ctx context.Context, sel dataprocessing.Selections) *dataprocessing.Dataset
	TopN(ctx context.Context, ds *dataprocessing.Dataset, field string, n int) (*dataprocessing.Dataset, error)
	GroupReduceBy(ctx context.Context, ds *dataprocessing.Dataset, groupFields []string, valueField string, reducer dataprocessing.Reducer) (dataprocessing.Groups, error)
	ArgmaxGroup(ctx context.Context, ds *dataprocessing.Dataset, groupField, valueField string) (string, bool, error)

	TopChannels(ctx context.Context, sel dataprocessing.Selections, n int) (services.TopChannelsReport, error)
	CategoryPopularity(ctx context.Context, sel dataprocessing.Selections) (services.CategoryPopularityReport, error)
	CountrySubscribers(ctx context.Context, sel dataprocessing.Selections) (services.CountrySubscribersReport, error)
}

var _ DatasetServiceInterface = (*services.DatasetService)(nil)
