// Package api contains API contract definitions for the ytstats query service.
// Version v1 represents the current stable API version.
package api

// Common request parameters

// SelectionRequest carries the dimension filters shared by every dataset query.
// Each dimension accepts repeated or comma-separated values; empty means no restriction.
type SelectionRequest struct {
	Country  []string `json:"country" query:"country"`
	Category []string `json:"category" query:"category"`
	Year     []string `json:"year" query:"year" validate:"dive,numeric"`
}

// PageRequest represents offset-based paging over a dataset listing
type PageRequest struct {
	Offset int `json:"offset" query:"offset" validate:"gte=0"`
	Limit  int `json:"limit" query:"limit" validate:"gte=0"`
}

// TopRequest asks for the n highest rows by field
type TopRequest struct {
	SelectionRequest
	Field string `json:"field" query:"field" validate:"required,field"`
	N     int    `json:"n" query:"n" validate:"gte=0"`
}

// GroupRequest asks for a grouped reduction of a numeric field
type GroupRequest struct {
	SelectionRequest
	By      []string `json:"by" query:"by" validate:"required,min=1,dive,field"`
	Value   string   `json:"value" query:"value" validate:"required,field"`
	Reducer string   `json:"reducer" query:"reducer" validate:"required,oneof=sum mean"`
}

// ArgmaxRequest asks for the group with the largest summed value
type ArgmaxRequest struct {
	SelectionRequest
	By    string `json:"by" query:"by" validate:"required,field"`
	Value string `json:"value" query:"value" validate:"required,field"`
}

// ExportRequest selects the download format for a filtered dataset
type ExportRequest struct {
	SelectionRequest
	Format string `json:"format" query:"format" validate:"required,oneof=csv xlsx source"`
}

// TopChannelsRequest parameterizes the top channels report
type TopChannelsRequest struct {
	SelectionRequest
	N int `json:"n" query:"n" validate:"gte=0"`
}
