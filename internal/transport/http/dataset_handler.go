package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ytstats/internal/dataprocessing"
	apierrors "ytstats/internal/errors"
	"ytstats/internal/exporter"
	"ytstats/internal/infrastructure"
	"ytstats/internal/middleware"
	"ytstats/internal/services"
	"ytstats/pkg/contracts/domain"
)

// DatasetHandler serves the cleaned dataset and its queries
type DatasetHandler struct {
	service      DatasetServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		validator:    validator,
		logger:       infrastructure.WithComponent(logger, "dataset_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListChannels)
	r.Get("/summary", h.GetSummary)
	r.Get("/dimensions", h.GetDimensions)
	r.Get("/top", h.TopN)
	r.Get("/group", h.GroupReduce)
	r.Get("/argmax", h.ArgmaxGroup)
	r.Get("/export", h.Export)

	return r
}

// ChannelPage is one page of a filtered listing
type ChannelPage struct {
	Status string           `json:"status"`
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Count  int              `json:"count"`
	Data   []domain.Channel `json:"data"`
}

// ListChannels handles GET /api/dataset
func (h *DatasetHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := bindSelection(q)
	page, err := bindPage(q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validate(sel, page); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filtered := h.service.Filter(r.Context(), toSelections(sel))
	records := filtered.Page(page.Offset, page.Limit).Records()

	render.JSON(w, r, ChannelPage{
		Status: "success",
		Total:  filtered.Len(),
		Offset: page.Offset,
		Count:  len(records),
		Data:   records,
	})
}

// GetSummary handles GET /api/dataset/summary
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Summary(r.Context()),
	})
}

// GetDimensions handles GET /api/dataset/dimensions
func (h *DatasetHandler) GetDimensions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Dimensions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   opts,
	})
}

// TopN handles GET /api/dataset/top?field=&n=
func (h *DatasetHandler) TopN(w http.ResponseWriter, r *http.Request) {
	req, err := bindTop(r.URL.Query(), h.service.Limits().DefaultLimit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validate(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filtered := h.service.Filter(r.Context(), toSelections(req.SelectionRequest))
	top, err := h.service.TopN(r.Context(), filtered, req.Field, req.N)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	records := top.Records()
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"field":   req.Field,
		"matched": filtered.Len(),
		"count":   len(records),
		"data":    records,
	})
}

// GroupReduce handles GET /api/dataset/group?by=&value=&reducer=
func (h *DatasetHandler) GroupReduce(w http.ResponseWriter, r *http.Request) {
	req := bindGroup(r.URL.Query())
	if err := h.validate(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filtered := h.service.Filter(r.Context(), toSelections(req.SelectionRequest))
	groups, err := h.service.GroupReduceBy(r.Context(), filtered, req.By, req.Value, dataprocessing.Reducer(req.Reducer))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"by":      req.By,
		"value":   req.Value,
		"reducer": req.Reducer,
		"count":   len(groups),
		"data":    groups,
	})
}

// ArgmaxGroup handles GET /api/dataset/argmax?by=&value=
func (h *DatasetHandler) ArgmaxGroup(w http.ResponseWriter, r *http.Request) {
	req := bindArgmax(r.URL.Query())
	if err := h.validate(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filtered := h.service.Filter(r.Context(), toSelections(req.SelectionRequest))
	key, ok, err := h.service.ArgmaxGroup(r.Context(), filtered, req.By, req.Value)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("group"))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"by":     req.By,
		"value":  req.Value,
		"key":    key,
	})
}

// Export handles GET /api/dataset/export?format=csv|xlsx|source
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := bindExport(r.URL.Query())
	if err := h.validate(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	filtered := h.service.Filter(r.Context(), toSelections(req.SelectionRequest))

	// Buffer so a failed export still gets a problem response
	var buf bytes.Buffer
	if err := exporter.Write(&buf, filtered, format); err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
		return
	}

	filename := fmt.Sprintf("channels-%s.%s", time.Now().UTC().Format("20060102-150405"), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "dataset exported",
		slog.String("format", string(format)),
		slog.Int("channels", filtered.Len()))
}

func (h *DatasetHandler) validate(reqs ...interface{}) error {
	for _, req := range reqs {
		if err := h.validator.ValidateStruct(req); err != nil {
			return err
		}
	}
	return nil
}

func (h *DatasetHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}

// mapServiceError translates query service errors to API errors
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidQuery):
		return apierrors.InvalidQueryWithError(err)
	case errors.Is(err, services.ErrDatasetUnavailable):
		return apierrors.ErrDatasetUnavailable
	default:
		return err
	}
}
