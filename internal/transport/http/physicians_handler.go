package http

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "praxiscli/internal/errors"
	"praxiscli/internal/services"
	"praxiscli/internal/session"
)

// PhysiciansHandler serves provider revenue aggregates and the name
// merges the deduplicator decided on.
type PhysiciansHandler struct {
	service      *services.AnalysisService
	store        *session.Store
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPhysiciansHandler creates a new physicians handler
func NewPhysiciansHandler(service *services.AnalysisService, store *session.Store, logger *slog.Logger) *PhysiciansHandler {
	return &PhysiciansHandler{
		service:      service,
		store:        store,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the physician routes on the given router
func (h *PhysiciansHandler) RegisterRoutes(r chi.Router) {
	r.Get("/aggregates", h.Aggregates)
	r.Get("/merges", h.Merges)
}

// Aggregates handles GET /api/physicians/aggregates
func (h *PhysiciansHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Physicians()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	var providers []string
	if selected, ok := r.URL.Query()["select"]; ok {
		providers = selected
	}

	render.JSON(w, r, h.service.PhysicianAggregates(ds, providers))
}

// NameMerge reports one absorbed variant and its canonical replacement.
type NameMerge struct {
	Variant   string `json:"variant"`
	Canonical string `json:"canonical"`
}

// Merges handles GET /api/physicians/merges. It exposes the merge map so
// the user can audit which spellings were folded together.
func (h *PhysiciansHandler) Merges(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)
	ds := sess.Physicians()
	if ds == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}

	merges := make([]NameMerge, 0, len(ds.NameMap))
	for variant, canonical := range ds.NameMap {
		merges = append(merges, NameMerge{Variant: variant, Canonical: canonical})
	}
	sort.Slice(merges, func(i, j int) bool {
		if merges[i].Canonical != merges[j].Canonical {
			return merges[i].Canonical < merges[j].Canonical
		}
		return merges[i].Variant < merges[j].Variant
	})

	render.JSON(w, r, map[string]interface{}{
		"count":  len(merges),
		"merges": merges,
	})
}
