package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for the HTTP surface.
// Every pipeline failure funnels through here and comes out as exactly one
// structured APIError; partial results are never rendered alongside one.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to an APIError and renders it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, ToAPIError(err))
}

// ToAPIError maps domain errors onto the API error taxonomy. Unknown
// errors become a generic internal server error so internals never leak.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return SchemaResolutionError(schemaErr)
	}

	var workbookErr *WorkbookError
	if errors.As(err, &workbookErr) {
		return NewWithDetails(http.StatusUnprocessableEntity, "UNREADABLE_WORKBOOK",
			"Uploaded file is not a readable xlsx workbook", workbookErr.Error())
	}

	var sheetErr *SheetError
	if errors.As(err, &sheetErr) {
		return NewWithDetails(http.StatusUnprocessableEntity, "SHEET_NOT_FOUND",
			"Required worksheet is missing from the workbook", sheetErr.Error())
	}

	return PipelineError(err)
}
