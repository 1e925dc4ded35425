// Package exporter writes cleaned channel datasets and query results.
//
// Every function streams to an io.Writer supplied by the caller: an HTTP
// response, stdout, or a file created with WriteFile.
//
// WriteCSV: cleaned column names, UTF-8, optional BOM for Excel.
//
// WriteSourceCSV: the layout of the published statistics file (rank column,
// underscore headers, Latin-1), so an export can be loaded and cleaned again.
//
// WriteXLSX: a single "Channels" worksheet.
//
// WriteGroupsCSV: key,value,count rows from a GroupReduce result.
//
// Example usage:
//
//	err := exporter.WriteFile("out/channels.csv", func(w io.Writer) error {
//	    return exporter.WriteCSVWithOptions(w, ds, exporter.WriteOptions{BOMPrefix: true})
//	})
package exporter
