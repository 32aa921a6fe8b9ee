package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "praxiscli/internal/errors"
	"praxiscli/internal/middleware"
	"praxiscli/internal/services"
	"praxiscli/internal/session"
	ws "praxiscli/internal/websocket"
	"praxiscli/pkg/contracts/domain"
)

// UploadHandler receives workbook uploads and runs the analysis pipeline.
type UploadHandler struct {
	service      *services.AnalysisService
	store        *session.Store
	hub          *ws.Hub
	metrics      *middleware.Metrics
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *services.AnalysisService, store *session.Store, hub *ws.Hub, metrics *middleware.Metrics, maxSizeMB int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service:      service,
		store:        store,
		hub:          hub,
		metrics:      metrics,
		maxBytes:     maxSizeMB << 20,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// UploadResponse reports the outcome of one pipeline run.
type UploadResponse struct {
	Module   domain.Module   `json:"module"`
	Stats    domain.RowStats `json:"stats"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Upload handles POST /api/upload?module=...
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	module, ok := domain.ParseModule(r.URL.Query().Get("module"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("module", "must be one of tariffs, billing, physicians"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "multipart file field is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(ctx, "workbook upload received",
		slog.String("module", string(module)),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	sess := h.store.FromRequest(w, r)

	h.hub.Broadcast(ws.Event{
		Type:    ws.EventPipelineProgress,
		Session: sess.ID,
		Payload: map[string]interface{}{"module": module, "stage": "running"},
	})

	var stats domain.RowStats
	switch module {
	case domain.ModuleTariffs:
		var ds *domain.TariffDataset
		ds, err = h.service.LoadTariffs(ctx, file)
		if err == nil {
			sess.SetTariffs(ds)
			stats = ds.Stats
		}
	case domain.ModuleBilling:
		var ds *domain.BillingDataset
		ds, err = h.service.LoadBilling(ctx, file)
		if err == nil {
			sess.SetBilling(ds)
			stats = ds.Stats
		}
	case domain.ModulePhysicians:
		var ds *domain.PhysicianDataset
		ds, err = h.service.LoadPhysicians(ctx, file)
		if err == nil {
			sess.SetPhysicians(ds)
			stats = ds.Stats
		}
	}

	h.metrics.ObserveUpload(string(module), stats.Kept, stats.Total-stats.Kept, err)

	if err != nil {
		// The failed run leaves the previous dataset untouched; the
		// session recovers cleanly on the next upload.
		h.hub.Broadcast(ws.Event{
			Type:    ws.EventPipelineProgress,
			Session: sess.ID,
			Payload: map[string]interface{}{"module": module, "stage": "failed"},
		})
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.hub.Broadcast(ws.Event{
		Type:    ws.EventPipelineProgress,
		Session: sess.ID,
		Payload: map[string]interface{}{"module": module, "stage": "completed", "rows": stats.Kept},
	})
	h.hub.Broadcast(ws.Event{
		Type:    ws.EventDatasetReplaced,
		Session: sess.ID,
		Payload: map[string]interface{}{"module": module, "rows": stats.Kept},
	})

	resp := UploadResponse{Module: module, Stats: stats}
	if stats.Kept == 0 {
		resp.Warnings = append(resp.Warnings, "no valid rows survived cleaning")
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}
