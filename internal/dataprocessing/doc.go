// Package dataprocessing turns the published channel statistics file into an
// immutable Dataset and answers queries over it.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Loader: reads a Latin-1 CSV (or an .xlsx workbook) into a RawTable with
// normalized headers and the ordinal rank column removed
// 2. Cleaner: validates the RawTable against the static schema and produces
// the canonical Dataset
// 3. Filter: restricts a Dataset by Country, Category and Created Year
// 4. Aggregations: TopN, GroupReduce, GroupReduceBy, ArgmaxGroup, UniqueValues
//
// # Usage
//
//	raw, err := dataprocessing.Load("data/Global_YouTube_Statistics.csv", "latin-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds, err := dataprocessing.Clean(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	us := dataprocessing.Filter(ds, dataprocessing.Selections{
//	    dataprocessing.DimensionCountry: {"United States"},
//	})
//	top, _ := dataprocessing.TopN(us, dataprocessing.FieldSubscribers, 10)
//	byCategory, _ := dataprocessing.GroupReduce(ds, dataprocessing.FieldCategory,
//	    dataprocessing.FieldSubscribers, dataprocessing.ReducerSum)
//
// # Data Flow
//
//	Source file → Loader → RawTable → Cleaner → Dataset → Filter/Aggregations
//
// The cleaner runs once per process. Every query allocates its own result,
// so a Dataset can be shared by any number of goroutines without locking.
//
// # Cleaning Rules
//
// In order: exact duplicates are removed; missing categorical cells become
// "Unknown" and missing numeric cells 0; Youtuber and Title are reduced to
// ASCII letters, digits, whitespace and . , ! ? & ' - and trimmed; rows with
// no video views, no Youtuber or no creation year are dropped; whole-number
// columns are truncated; rows are ordered by subscribers, highest first, and
// numbered from 0.
//
// # Error Handling
//
// Load fails only with ingest errors and Clean only with schema errors (see
// internal/errors). Queries fail only on contract violations: ErrUnknownField,
// ErrNonNumericField, ErrNegativeLimit and ErrUnknownReducer.
package dataprocessing
