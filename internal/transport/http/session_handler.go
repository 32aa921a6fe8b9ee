package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "praxiscli/internal/errors"
	"praxiscli/internal/session"
	"praxiscli/pkg/contracts/domain"
)

// SessionHandler exposes the navigation machine and the per-module
// filter selections.
type SessionHandler struct {
	store        *session.Store
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:        store,
		validator:    validator.New(),
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the session routes on the given router
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.State)
	r.Post("/navigate", h.Navigate)
	r.Put("/selections", h.PutSelections)
}

// SessionState is what the UI needs to render its chrome: where the user
// is, which datasets exist, and the active filters.
type SessionState struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Page       session.Page       `json:"page"`
	Selections session.Selections `json:"selections"`
	Datasets   map[string]bool    `json:"datasets"`
}

// State handles GET /api/session
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)

	render.JSON(w, r, SessionState{
		ID:         sess.ID,
		CreatedAt:  sess.CreatedAt,
		Page:       sess.Page(),
		Selections: sess.Selections(),
		Datasets: map[string]bool{
			string(domain.ModuleTariffs):    sess.Tariffs() != nil,
			string(domain.ModuleBilling):    sess.Billing() != nil,
			string(domain.ModulePhysicians): sess.Physicians() != nil,
		},
	})
}

// NavigateRequest asks for a page transition.
type NavigateRequest struct {
	Page string `json:"page" validate:"required"`
}

// Navigate handles POST /api/session/navigate
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)

	var req NavigateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	page, ok := session.ParsePage(req.Page)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("page", "must be one of home, billing, physicians, tariffs"))
		return
	}

	sess.Navigate(page)
	h.logger.InfoContext(r.Context(), "session navigated",
		slog.String("session", sess.ID),
		slog.String("page", string(page)))

	render.JSON(w, r, map[string]interface{}{"page": page})
}

// PutSelections handles PUT /api/session/selections
func (h *SessionHandler) PutSelections(w http.ResponseWriter, r *http.Request) {
	sess := h.store.FromRequest(w, r)

	var sel session.Selections
	if err := render.DecodeJSON(r.Body, &sel); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	sess.SetSelections(sel)
	render.JSON(w, r, sel)
}
