// Package handler exposes the read-only audit log view.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aforo/internal/accesslog/models"
	dErrors "aforo/pkg/domain-errors"
	"aforo/pkg/platform/httputil"
	request "aforo/pkg/platform/middleware/request"
)

// maxListLimit caps one page of audit history.
const maxListLimit = 1000

// Log is the audit log read side.
type Log interface {
	List(ctx context.Context, limit int) ([]*models.Entry, error)
}

type Handler struct {
	log    Log
	logger *slog.Logger
}

func New(log Log, logger *slog.Logger) *Handler {
	return &Handler{log: log, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/access-log", h.HandleList)
}

// EntryResponse is one audit record as shown to operators.
type EntryResponse struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	PersonID  string    `json:"person_id"`
	Nombre    string    `json:"nombre"`
	Matricula string    `json:"matricula"`
	AreaKey   string    `json:"area_key"`
	HuellaID  int       `json:"huella_id"`
	Acceso    bool      `json:"acceso"`
}

// ListResponse is a page of audit history, newest first.
type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// HandleList returns the most recent audit entries. The optional limit
// query parameter bounds the page size.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid limit"))
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, err := h.log.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list access log failed", "error", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list access log"))
		return
	}

	resp := ListResponse{Entries: make([]EntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			PersonID:  e.PersonRef,
			Nombre:    e.Nombre,
			Matricula: e.Matricula,
			AreaKey:   string(e.AreaKey),
			HuellaID:  int(e.HuellaID),
			Acceso:    e.Acceso,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
