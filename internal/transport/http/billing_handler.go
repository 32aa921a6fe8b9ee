package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "praxiscli/internal/errors"
	"praxiscli/internal/services"
	"praxiscli/internal/session"
)

// BillingHandler serves liquidity estimates, insurer delay statistics and
// the overdue list.
type BillingHandler struct {
	service      *services.AnalysisService
	store        *session.Store
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service *services.AnalysisService, store *session.Store, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		service:      service,
		store:        store,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the billing routes on the given router
func (h *BillingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/liquidity", h.Liquidity)
	r.Get("/insurers", h.Insurers)
	r.Get("/overdue", h.Overdue)
}

// Liquidity handles GET /api/billing/liquidity
func (h *BillingHandler) Liquidity(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Billing()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	var horizons []int
	if raw := r.URL.Query().Get("horizons"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			days, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || days <= 0 {
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation("horizons", "must be a comma-separated list of positive day counts"))
				return
			}
			horizons = append(horizons, days)
		}
	}

	sel := sess.Selections()
	invoices := h.service.BillingInvoices(ds, sel.Insurers, sel.LawTypes)
	render.JSON(w, r, map[string]interface{}{
		"estimates": h.service.Liquidity(invoices, horizons),
	})
}

// Insurers handles GET /api/billing/insurers
func (h *BillingHandler) Insurers(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Billing()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	sel := sess.Selections()
	invoices := h.service.BillingInvoices(ds, sel.Insurers, sel.LawTypes)
	render.JSON(w, r, map[string]interface{}{
		"insurers": h.service.InsurerStats(invoices),
	})
}

// Overdue handles GET /api/billing/overdue
func (h *BillingHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Billing()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	minDays := 0
	if raw := r.URL.Query().Get("min_delay"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("min_delay", "must be a non-negative integer"))
			return
		}
		minDays = parsed
	}

	sel := sess.Selections()
	filtered := h.service.BillingInvoices(ds, sel.Insurers, sel.LawTypes)
	overdue := h.service.Overdue(filtered, minDays)
	render.JSON(w, r, map[string]interface{}{
		"count":    len(overdue),
		"invoices": overdue,
	})
}
