// Package handler exposes the area management surface consumed by the
// operator UI.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aforo/internal/area/models"
	dErrors "aforo/pkg/domain-errors"
	"aforo/pkg/platform/httputil"
	request "aforo/pkg/platform/middleware/request"
	strutil "aforo/pkg/string"
)

// Service defines the interface for area operations.
type Service interface {
	CreateArea(ctx context.Context, nombre string) (*models.Area, error)
	UpdateArea(ctx context.Context, id models.AreaID, nombre string) (*models.Area, error)
	DeleteArea(ctx context.Context, id models.AreaID) error
	GetArea(ctx context.Context, id models.AreaID) (*models.Area, error)
	ListAreas(ctx context.Context) ([]*models.Area, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/areas", h.HandleCreateArea)
	r.Get("/admin/areas", h.HandleListAreas)
	r.Get("/admin/areas/{id}", h.HandleGetArea)
	r.Put("/admin/areas/{id}", h.HandleUpdateArea)
	r.Delete("/admin/areas/{id}", h.HandleDeleteArea)
}

// AreaRequest is the payload for creating or renaming an area.
type AreaRequest struct {
	Nombre string `json:"nombre"`
}

func (r *AreaRequest) Normalize() {
	strutil.TrimStrings(&r.Nombre)
}

func (r *AreaRequest) Validate() error {
	if r.Nombre == "" {
		return dErrors.New(dErrors.CodeValidation, "nombre is required")
	}
	return nil
}

// AreaResponse is the wire form of an area. Clave is the canonical key the
// permission system joins on; the UI shows it as the "permission id".
type AreaResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Clave     string    `json:"clave"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAreaResponse(a *models.Area) AreaResponse {
	return AreaResponse{
		ID:        a.ID.String(),
		Nombre:    a.Nombre,
		Clave:     a.Clave.String(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AreaListResponse wraps the area collection.
type AreaListResponse struct {
	Areas []AreaResponse `json:"areas"`
}

// HandleCreateArea creates an access zone.
func (h *Handler) HandleCreateArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AreaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	a, err := h.service.CreateArea(ctx, req.Nombre)
	if err != nil {
		h.logger.ErrorContext(ctx, "create area failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toAreaResponse(a))
}

// HandleListAreas returns all areas.
func (h *Handler) HandleListAreas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.service.ListAreas(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list areas failed", "error", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	resp := AreaListResponse{Areas: make([]AreaResponse, 0, len(list))}
	for _, a := range list {
		resp.Areas = append(resp.Areas, toAreaResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetArea returns one area by id.
func (h *Handler) HandleGetArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	areaID, err := models.ParseAreaID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid area id"))
		return
	}

	a, err := h.service.GetArea(ctx, areaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toAreaResponse(a))
}

// HandleUpdateArea renames an area.
func (h *Handler) HandleUpdateArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	areaID, err := models.ParseAreaID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid area id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[AreaRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	a, err := h.service.UpdateArea(ctx, areaID, req.Nombre)
	if err != nil {
		h.logger.ErrorContext(ctx, "update area failed", "error", err, "request_id", requestID, "area_id", areaID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toAreaResponse(a))
}

// HandleDeleteArea removes an area and purges its permission records.
func (h *Handler) HandleDeleteArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	areaID, err := models.ParseAreaID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid area id"))
		return
	}

	if err := h.service.DeleteArea(ctx, areaID); err != nil {
		h.logger.ErrorContext(ctx, "delete area failed", "error", err, "request_id", requestID, "area_id", areaID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
