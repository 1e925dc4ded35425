package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"ytstats/internal/dataprocessing"
	apierrors "ytstats/internal/errors"
	api "ytstats/pkg/contracts/api/v1"
)

// listParam collects a query parameter given repeated, comma-separated or
// both. Blank items are dropped.
func listParam(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// intParam parses an optional integer parameter; def is returned when the
// parameter is absent or blank
func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(name, fmt.Sprintf("%s must be a valid integer", name))
	}
	return n, nil
}

func bindSelection(q url.Values) api.SelectionRequest {
	return api.SelectionRequest{
		Country:  listParam(q, "country"),
		Category: listParam(q, "category"),
		Year:     listParam(q, "year"),
	}
}

// toSelections converts the wire filter to engine selections
func toSelections(req api.SelectionRequest) dataprocessing.Selections {
	sel := dataprocessing.Selections{}
	if len(req.Country) > 0 {
		sel[dataprocessing.DimensionCountry] = req.Country
	}
	if len(req.Category) > 0 {
		sel[dataprocessing.DimensionCategory] = req.Category
	}
	if len(req.Year) > 0 {
		sel[dataprocessing.DimensionCreatedYear] = req.Year
	}
	return sel
}

func bindPage(q url.Values) (api.PageRequest, error) {
	offset, err := intParam(q, "offset", 0)
	if err != nil {
		return api.PageRequest{}, err
	}
	limit, err := intParam(q, "limit", 0)
	if err != nil {
		return api.PageRequest{}, err
	}
	return api.PageRequest{Offset: offset, Limit: limit}, nil
}

func bindTop(q url.Values, defaultN int) (api.TopRequest, error) {
	n, err := intParam(q, "n", defaultN)
	if err != nil {
		return api.TopRequest{}, err
	}
	return api.TopRequest{
		SelectionRequest: bindSelection(q),
		Field:            strings.TrimSpace(q.Get("field")),
		N:                n,
	}, nil
}

func bindGroup(q url.Values) api.GroupRequest {
	reducer := strings.ToLower(strings.TrimSpace(q.Get("reducer")))
	if reducer == "" {
		reducer = string(dataprocessing.ReducerSum)
	}
	return api.GroupRequest{
		SelectionRequest: bindSelection(q),
		By:               listParam(q, "by"),
		Value:            strings.TrimSpace(q.Get("value")),
		Reducer:          reducer,
	}
}

func bindArgmax(q url.Values) api.ArgmaxRequest {
	return api.ArgmaxRequest{
		SelectionRequest: bindSelection(q),
		By:               strings.TrimSpace(q.Get("by")),
		Value:            strings.TrimSpace(q.Get("value")),
	}
}

func bindExport(q url.Values) api.ExportRequest {
	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = "csv"
	}
	return api.ExportRequest{
		SelectionRequest: bindSelection(q),
		Format:           format,
	}
}

func bindTopChannels(q url.Values) (api.TopChannelsRequest, error) {
	n, err := intParam(q, "n", 0)
	if err != nil {
		return api.TopChannelsRequest{}, err
	}
	return api.TopChannelsRequest{SelectionRequest: bindSelection(q), N: n}, nil
}
