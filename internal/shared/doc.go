// Package shared holds code used across ytstats packages that belongs to no
// single layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on structured log output
//	- Raw source rows and CSV/Latin-1 writers for loader and cleaner tests
//	- Canonical channel datasets for query, service and handler tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    csv := testutil.SourceCSV(t, testutil.NewSourceRecord("T-Series"))
//	    ...
//	    assert.True(t, logs.ContainsMessage("dataset cleaned"))
//	}
//
// testutil must not import packages that test against it.
package shared
