// Package http implements the HTTP handlers of the ytstats query API.
//
// Handlers are thin: they bind query parameters into the request contracts of
// pkg/contracts/api/v1, validate them with middleware.Validator, call the
// dataset service and render JSON with github.com/go-chi/render. Every error
// goes through errors.ErrorHandler so clients always receive RFC 7807 problem
// details.
//
// # Routes
//
//	GET /api/health, /api/health/ready, /api/health/live, /api/version
//	GET /api/dataset              filtered, paged listing
//	GET /api/dataset/summary      row count, schema and cleaning report
//	GET /api/dataset/dimensions   filter options
//	GET /api/dataset/top          ?field=&n=
//	GET /api/dataset/group        ?by=&value=&reducer=sum|mean
//	GET /api/dataset/argmax       ?by=&value=
//	GET /api/dataset/export       ?format=csv|xlsx|source
//	GET /api/reports/top-channels, /category-popularity, /country-subscribers
//	GET /metrics
//
// # Filters
//
// Dataset and report routes accept country, category and year. Each may be
// repeated or comma-separated:
//
//	/api/dataset?country=India,United%20States&year=2006&year=2012
//
// Values of one dimension are alternatives; dimensions combine with AND.
package http
