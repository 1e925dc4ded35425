// Package files locates the statistics source on disk.
//
// A configured source path may point at a single file or at a drop
// directory; Discovery.ResolveSource picks the newest .csv or .xlsx in the
// latter case:
//
//	discovery := files.NewDiscovery("")
//	path, err := discovery.ResolveSource("data")
package files
