package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ytstats/internal/config"
	"ytstats/internal/dataprocessing"
	"ytstats/internal/infrastructure"
	"ytstats/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of query spans
const TracerName = "ytstats.query"

// DatasetService answers queries over the cleaned dataset. The dataset is
// loaded once and never modified, so one service is shared by every request.
type DatasetService struct {
	dataset  *dataprocessing.Dataset
	report   dataprocessing.CleanReport
	loadedAt time.Time
	limits   config.QueryConfig
	tracer   trace.Tracer
	metrics  *infrastructure.QueryMetrics
	logger   *slog.Logger
}

// DatasetServiceOption customizes a DatasetService
type DatasetServiceOption func(*DatasetService)

// WithQueryLimits sets the default and maximum top-N sizes
func WithQueryLimits(limits config.QueryConfig) DatasetServiceOption {
	return func(s *DatasetService) {
		s.limits = limits
	}
}

// WithTracer overrides the global tracer
func WithTracer(tracer trace.Tracer) DatasetServiceOption {
	return func(s *DatasetService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics records every query on metrics
func WithMetrics(metrics *infrastructure.QueryMetrics) DatasetServiceOption {
	return func(s *DatasetService) {
		s.metrics = metrics
	}
}

// NewDatasetService wraps an already cleaned dataset
func NewDatasetService(ds *dataprocessing.Dataset, report dataprocessing.CleanReport, logger *slog.Logger, opts ...DatasetServiceOption) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	if ds == nil {
		ds = dataprocessing.NewDataset(nil)
	}

	s := &DatasetService{
		dataset:  ds,
		report:   report,
		loadedAt: time.Now(),
		limits:   config.Default().Query,
		tracer:   otel.Tracer(TracerName),
		logger:   infrastructure.WithComponent(logger, "dataset_service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("DatasetService initialized",
		slog.String("source", report.Source),
		slog.Int("channels", ds.Len()))

	return s
}

// LoadDatasetService loads and cleans the configured source. Failures are the
// loader's ingest errors or the cleaner's schema errors, unchanged.
func LoadDatasetService(ctx context.Context, cfg config.DatasetConfig, logger *slog.Logger, opts ...DatasetServiceOption) (*DatasetService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := otel.Tracer(TracerName).Start(ctx, "dataset.load",
		trace.WithAttributes(
			attribute.String("dataset.source", cfg.SourcePath),
			attribute.String("dataset.encoding", cfg.Encoding),
		),
	)
	defer span.End()

	logger.InfoContext(ctx, "loading dataset",
		slog.String("source", cfg.SourcePath),
		slog.String("encoding", cfg.Encoding))

	raw, err := dataprocessing.NewLoader(logger).Load(cfg.SourcePath, cfg.Encoding)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ds, report, err := dataprocessing.NewCleaner(logger).CleanWithReport(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("dataset.rows_in", report.RowsIn),
		attribute.Int("dataset.rows_out", report.RowsOut),
	)
	return NewDatasetService(ds, report, logger, opts...), nil
}

// GetCleanedDataset returns the canonical dataset
func (s *DatasetService) GetCleanedDataset() *dataprocessing.Dataset {
	return s.dataset
}

// Report returns the accounting of the cleaning run
func (s *DatasetService) Report() dataprocessing.CleanReport {
	return s.report
}

// Limits returns the configured top-N sizes
func (s *DatasetService) Limits() config.QueryConfig {
	return s.limits
}

// ColumnInfo describes one dataset column
type ColumnInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Whole bool   `json:"whole,omitempty"`
}

// DatasetSummary describes the loaded dataset
type DatasetSummary struct {
	Channels int                        `json:"channels"`
	Source   string                     `json:"source"`
	LoadedAt time.Time                  `json:"loaded_at"`
	Columns  []ColumnInfo               `json:"columns"`
	Report   dataprocessing.CleanReport `json:"report"`
}

// Summary reports the size, schema and cleaning statistics of the dataset
func (s *DatasetService) Summary(ctx context.Context) DatasetSummary {
	fields := dataprocessing.Fields()
	columns := make([]ColumnInfo, len(fields))
	for i, f := range fields {
		columns[i] = ColumnInfo{Name: f.Name, Kind: f.Kind.String(), Whole: f.Whole}
	}

	return DatasetSummary{
		Channels: s.dataset.Len(),
		Source:   s.report.Source,
		LoadedAt: s.loadedAt,
		Columns:  columns,
		Report:   s.report,
	}
}

// DimensionOptions lists the values available to each filter dimension
type DimensionOptions struct {
	Countries  []string `json:"countries"`
	Categories []string `json:"categories"`
	Years      []string `json:"years"`
}

// Dimensions returns the distinct countries and categories in dataset order
// and the creation years in ascending order
func (s *DatasetService) Dimensions(ctx context.Context) (DimensionOptions, error) {
	_, finish := s.startQuery(ctx, "dimensions")

	var opts DimensionOptions
	var err error
	defer func() { finish(len(opts.Countries)+len(opts.Categories)+len(opts.Years), err) }()

	if opts.Countries, err = dataprocessing.UniqueValues(s.dataset, dataprocessing.FieldCountry); err != nil {
		return opts, err
	}
	if opts.Categories, err = dataprocessing.UniqueValues(s.dataset, dataprocessing.FieldCategory); err != nil {
		return opts, err
	}
	if opts.Years, err = dataprocessing.UniqueValues(s.dataset, dataprocessing.FieldCreatedYear); err != nil {
		return opts, err
	}
	sort.SliceStable(opts.Years, func(i, j int) bool {
		a, _ := strconv.ParseInt(opts.Years[i], 10, 64)
		b, _ := strconv.ParseInt(opts.Years[j], 10, 64)
		return a < b
	})
	return opts, nil
}

// Filter restricts the canonical dataset
func (s *DatasetService) Filter(ctx context.Context, sel dataprocessing.Selections) *dataprocessing.Dataset {
	_, finish := s.startQuery(ctx, "filter", selectionAttrs(sel)...)
	out := dataprocessing.Filter(s.dataset, sel)
	finish(out.Len(), nil)
	return out
}

// TopN returns the n highest rows of ds by field. A nil ds means the
// canonical dataset. n must not exceed the configured maximum.
func (s *DatasetService) TopN(ctx context.Context, ds *dataprocessing.Dataset, field string, n int) (*dataprocessing.Dataset, error) {
	_, finish := s.startQuery(ctx, "top_n",
		attribute.String("query.field", field),
		attribute.Int("query.n", n))

	if s.limits.MaxLimit > 0 && n > s.limits.MaxLimit {
		err := invalidQuery(fmt.Errorf("n %d exceeds the maximum of %d", n, s.limits.MaxLimit))
		finish(0, err)
		return nil, err
	}

	out, err := dataprocessing.TopN(s.source(ds), field, n)
	err = classify(err)
	finish(out.Len(), err)
	return out, err
}

// GroupReduce partitions ds (nil means the canonical dataset) by groupField
func (s *DatasetService) GroupReduce(ctx context.Context, ds *dataprocessing.Dataset, groupField, valueField string, reducer dataprocessing.Reducer) (dataprocessing.Groups, error) {
	return s.GroupReduceBy(ctx, ds, []string{groupField}, valueField, reducer)
}

// GroupReduceBy partitions ds by a composite key
func (s *DatasetService) GroupReduceBy(ctx context.Context, ds *dataprocessing.Dataset, groupFields []string, valueField string, reducer dataprocessing.Reducer) (dataprocessing.Groups, error) {
	_, finish := s.startQuery(ctx, "group_reduce",
		attribute.StringSlice("query.group_by", groupFields),
		attribute.String("query.value", valueField),
		attribute.String("query.reducer", string(reducer)))

	groups, err := dataprocessing.GroupReduceBy(s.source(ds), groupFields, valueField, reducer)
	err = classify(err)
	finish(len(groups), err)
	return groups, err
}

// ArgmaxGroup returns the groupField key with the largest sum of valueField;
// ok is false when ds is empty
func (s *DatasetService) ArgmaxGroup(ctx context.Context, ds *dataprocessing.Dataset, groupField, valueField string) (string, bool, error) {
	_, finish := s.startQuery(ctx, "argmax_group",
		attribute.String("query.group_by", groupField),
		attribute.String("query.value", valueField))

	key, ok, err := dataprocessing.ArgmaxGroup(s.source(ds), groupField, valueField)
	err = classify(err)
	rows := 0
	if ok {
		rows = 1
	}
	finish(rows, err)
	return key, ok, err
}

// TopChannelsReport holds the most subscribed and most viewed channels of a
// selection
type TopChannelsReport struct {
	Matched       int              `json:"matched"`
	BySubscribers []domain.Channel `json:"by_subscribers"`
	ByVideoViews  []domain.Channel `json:"by_video_views"`
}

// TopChannels filters by sel and ranks the result by subscribers and by
// views. n = 0 means the configured default.
func (s *DatasetService) TopChannels(ctx context.Context, sel dataprocessing.Selections, n int) (TopChannelsReport, error) {
	if n == 0 {
		n = s.limits.DefaultLimit
	}

	filtered := s.Filter(ctx, sel)
	bySubs, err := s.TopN(ctx, filtered, dataprocessing.FieldSubscribers, n)
	if err != nil {
		return TopChannelsReport{}, err
	}
	byViews, err := s.TopN(ctx, filtered, dataprocessing.FieldVideoViews, n)
	if err != nil {
		return TopChannelsReport{}, err
	}

	return TopChannelsReport{
		Matched:       filtered.Len(),
		BySubscribers: bySubs.Records(),
		ByVideoViews:  byViews.Records(),
	}, nil
}

// CategoryPopularityReport compares categories by total subscribers and views
type CategoryPopularityReport struct {
	Matched        int                    `json:"matched"`
	Subscribers    []dataprocessing.Share `json:"subscribers"`
	VideoViews     []dataprocessing.Share `json:"video_views"`
	MostSubscribed string                 `json:"most_subscribed,omitempty"`
	MostViewed     string                 `json:"most_viewed,omitempty"`
}

// CategoryPopularity sums subscribers and views per category of the
// selection and names the leading category for each
func (s *DatasetService) CategoryPopularity(ctx context.Context, sel dataprocessing.Selections) (CategoryPopularityReport, error) {
	filtered := s.Filter(ctx, sel)
	report := CategoryPopularityReport{Matched: filtered.Len()}

	subs, err := s.GroupReduce(ctx, filtered, dataprocessing.FieldCategory, dataprocessing.FieldSubscribers, dataprocessing.ReducerSum)
	if err != nil {
		return report, err
	}
	views, err := s.GroupReduce(ctx, filtered, dataprocessing.FieldCategory, dataprocessing.FieldVideoViews, dataprocessing.ReducerSum)
	if err != nil {
		return report, err
	}
	report.Subscribers = subs.Shares()
	report.VideoViews = views.Shares()

	if report.MostSubscribed, _, err = s.ArgmaxGroup(ctx, filtered, dataprocessing.FieldCategory, dataprocessing.FieldSubscribers); err != nil {
		return report, err
	}
	if report.MostViewed, _, err = s.ArgmaxGroup(ctx, filtered, dataprocessing.FieldCategory, dataprocessing.FieldVideoViews); err != nil {
		return report, err
	}
	return report, nil
}

// CountrySubscribersReport holds mean subscribers per country and category
type CountrySubscribersReport struct {
	Matched int                   `json:"matched"`
	Groups  dataprocessing.Groups `json:"groups"`
}

// CountrySubscribers averages subscribers per country and category of the
// selection
func (s *DatasetService) CountrySubscribers(ctx context.Context, sel dataprocessing.Selections) (CountrySubscribersReport, error) {
	filtered := s.Filter(ctx, sel)
	groups, err := s.GroupReduceBy(ctx, filtered,
		[]string{dataprocessing.FieldCountry, dataprocessing.FieldCategory},
		dataprocessing.FieldSubscribers, dataprocessing.ReducerMean)
	if err != nil {
		return CountrySubscribersReport{}, err
	}
	return CountrySubscribersReport{Matched: filtered.Len(), Groups: groups}, nil
}

func (s *DatasetService) source(ds *dataprocessing.Dataset) *dataprocessing.Dataset {
	if ds == nil {
		return s.dataset
	}
	return ds
}

// startQuery opens a span for one query; the returned function ends it and
// records the outcome
func (s *DatasetService) startQuery(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(rows int, err error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "dataset."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(rows int, err error) {
		duration := time.Since(start)
		s.metrics.RecordQuery(ctx, operation, duration, rows, err)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.WarnContext(ctx, "query rejected",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
		} else {
			span.SetAttributes(attribute.Int("query.rows", rows))
			s.logger.DebugContext(ctx, "query executed",
				slog.String("operation", operation),
				slog.Int("rows", rows),
				slog.Duration("duration", duration))
		}
		span.End()
	}
}

func selectionAttrs(sel dataprocessing.Selections) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(sel))
	for _, d := range dataprocessing.Dimensions() {
		if values := sel[d]; len(values) > 0 {
			key := "query.filter." + strings.ReplaceAll(strings.ToLower(string(d)), " ", "_")
			attrs = append(attrs, attribute.StringSlice(key, values))
		}
	}
	return attrs
}
