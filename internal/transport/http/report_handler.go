package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ytstats/internal/errors"
	"ytstats/internal/infrastructure"
	"ytstats/internal/middleware"
)

// ReportHandler serves the composed dashboard reports
type ReportHandler struct {
	service      DatasetServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service DatasetServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validator,
		logger:       infrastructure.WithComponent(logger, "report_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/top-channels", h.TopChannels)
	r.Get("/category-popularity", h.CategoryPopularity)
	r.Get("/country-subscribers", h.CountrySubscribers)
	return r
}

// TopChannels handles GET /api/reports/top-channels?country=&category=&n=
func (h *ReportHandler) TopChannels(w http.ResponseWriter, r *http.Request) {
	req, err := bindTopChannels(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.TopChannels(r.Context(), toSelections(req.SelectionRequest), req.N)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "success", "data": report})
}

// CategoryPopularity handles GET /api/reports/category-popularity?country=&year=
func (h *ReportHandler) CategoryPopularity(w http.ResponseWriter, r *http.Request) {
	req := bindSelection(r.URL.Query())
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.CategoryPopularity(r.Context(), toSelections(req))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "success", "data": report})
}

// CountrySubscribers handles GET /api/reports/country-subscribers?category=&year=
func (h *ReportHandler) CountrySubscribers(w http.ResponseWriter, r *http.Request) {
	req := bindSelection(r.URL.Query())
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.CountrySubscribers(r.Context(), toSelections(req))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "success", "data": report})
}
