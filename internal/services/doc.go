// Package services implements the query layer between the HTTP handlers and
// the dataprocessing engine.
//
// DatasetService owns the cleaned dataset for the lifetime of the process.
// It is built once, either from an already cleaned dataset or by loading and
// cleaning the configured source, and is safe for concurrent use because the
// dataset is never modified:
//
//	svc, err := services.LoadDatasetService(ctx, cfg.Dataset, logger,
//	    services.WithQueryLimits(cfg.Query),
//	    services.WithMetrics(metrics),
//	)
//
// Every query opens a span, records the query metrics and logs its outcome.
// Caller mistakes (unknown or non-numeric fields, bad limits, unknown
// reducers) are returned wrapped in ErrInvalidQuery so handlers can map them
// to 400 responses; the dataprocessing sentinel stays reachable through
// errors.Is.
//
// The report methods (TopChannels, CategoryPopularity, CountrySubscribers)
// compose filter, top-N and group queries into the views a dashboard shows.
//
// HealthService answers the liveness, readiness and version endpoints.
package services
