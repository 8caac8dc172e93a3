package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/folio/internal/category"
	"github.com/MrJamesThe3rd/folio/internal/chat"
	"github.com/MrJamesThe3rd/folio/internal/database"
	"github.com/MrJamesThe3rd/folio/internal/importer"
	"github.com/MrJamesThe3rd/folio/internal/portfolio"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status maps a service error onto an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, database.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, category.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, chat.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, category.ErrEmptyName),
		errors.Is(err, portfolio.ErrInvalidPeriod),
		errors.Is(err, portfolio.ErrNegativeAmount),
		errors.Is(err, portfolio.ErrUnknownReference),
		errors.Is(err, chat.ErrEmptyQuestion),
		errors.Is(err, importer.ErrInvalidSheet):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Error writes err with the status it maps to. Server-side failures are
// logged; the message is still returned so the caller can show it.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	http.Error(w, err.Error(), status)
}
