package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"praxiscli/internal/classify"
	apierrors "praxiscli/internal/errors"
	"praxiscli/internal/services"
	"praxiscli/internal/session"
	ws "praxiscli/internal/websocket"
	"praxiscli/pkg/contracts/domain"
)

// TariffsHandler serves the tariff-classification module.
type TariffsHandler struct {
	service      *services.AnalysisService
	store        *session.Store
	hub          *ws.Hub
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTariffsHandler creates a new tariffs handler
func NewTariffsHandler(service *services.AnalysisService, store *session.Store, hub *ws.Hub, logger *slog.Logger) *TariffsHandler {
	return &TariffsHandler{
		service:      service,
		store:        store,
		hub:          hub,
		validator:    validator.New(),
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the tariff routes on the given router
func (h *TariffsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/aggregates", h.Aggregates)
	r.Get("/options", h.Options)
	r.Get("/overrides", h.GetOverrides)
	r.Put("/overrides", h.PutOverrides)
}

// Aggregates handles GET /api/tariffs/aggregates
func (h *TariffsHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Tariffs()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	q := r.URL.Query()

	dim := domain.DimensionProfession
	if raw := q.Get("dimension"); raw != "" {
		parsed, ok := domain.ParseDimension(raw)
		if !ok || parsed == domain.DimensionProvider {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dimension", "must be profession or code"))
			return
		}
		dim = parsed
	}

	query := services.AggregateQuery{
		Dimension:           dim,
		Cumulative:          q.Get("cumulative") == "true",
		IncludeCurrentMonth: q.Get("include_current_month") != "false",
	}
	if selected, ok := q["select"]; ok {
		query.Selected = selected
	}

	result := h.service.TariffAggregates(ds, sess.Overrides(), query)
	render.JSON(w, r, result)
}

// Options handles GET /api/tariffs/options
func (h *TariffsHandler) Options(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Tariffs()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	dim := domain.DimensionProfession
	if raw := r.URL.Query().Get("dimension"); raw != "" {
		parsed, ok := domain.ParseDimension(raw)
		if !ok || parsed == domain.DimensionProvider {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dimension", "must be profession or code"))
			return
		}
		dim = parsed
	}

	render.JSON(w, r, map[string]interface{}{
		"dimension": dim,
		"values":    h.service.TariffOptions(ds, sess.Overrides(), dim),
	})
}

// OverrideEntry is one code→category override on the wire.
type OverrideEntry struct {
	Code     string `json:"code" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// OverridesRequest replaces or amends the session's override map.
type OverridesRequest struct {
	Overrides []OverrideEntry `json:"overrides" validate:"required,dive"`
}

// GetOverrides handles GET /api/tariffs/overrides
func (h *TariffsHandler) GetOverrides(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)

	overrides := sess.Overrides()
	entries := make([]OverrideEntry, 0, len(overrides))
	for code, cat := range overrides {
		entries = append(entries, OverrideEntry{Code: code, Category: cat.String()})
	}
	render.JSON(w, r, OverridesRequest{Overrides: entries})
}

// PutOverrides handles PUT /api/tariffs/overrides. Each entry reclassifies
// one code for this session only; the rule engine keeps its say over every
// other code.
func (h *TariffsHandler) PutOverrides(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)

	var req OverridesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	applied := make(classify.Overrides, len(req.Overrides))
	for _, entry := range req.Overrides {
		cat, err := domain.ParseCategory(entry.Category)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("category", err.Error()))
			return
		}
		applied[entry.Code] = cat
	}

	for code, cat := range applied {
		sess.SetOverride(code, cat)
	}

	h.logger.InfoContext(r.Context(), "overrides updated",
		slog.String("session", sess.ID),
		slog.Int("count", len(applied)))

	h.hub.Broadcast(ws.Event{
		Type:    ws.EventOverrideChanged,
		Session: sess.ID,
		Payload: map[string]interface{}{"count": len(applied)},
	})

	render.JSON(w, r, map[string]interface{}{
		"applied": len(applied),
	})
}
