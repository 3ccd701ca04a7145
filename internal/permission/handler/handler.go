// Package handler exposes the permission management surface consumed by
// the operator UI.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	permmodels "aforo/internal/permission/models"
	"aforo/internal/permission/service"
	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
	"aforo/pkg/platform/httputil"
	request "aforo/pkg/platform/middleware/request"
)

// Service defines the interface for permission operations.
type Service interface {
	SetPermission(ctx context.Context, personID domain.PersonID, rawArea string, habilitado bool) error
	SetForPerson(ctx context.Context, personID domain.PersonID, grants map[string]bool) (int, error)
	SetForArea(ctx context.Context, rawArea string, grants map[string]bool) (int, error)
	ListForPerson(ctx context.Context, personID domain.PersonID) ([]*service.Grant, error)
	ListForArea(ctx context.Context, rawArea string) ([]*permmodels.Permission, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/persons/{id}/permissions", h.HandleListForPerson)
	r.Put("/admin/persons/{id}/permissions", h.HandleSetForPerson)
	r.Put("/admin/persons/{id}/permissions/{area}", h.HandleSetPermission)
	r.Get("/admin/areas/{area}/permissions", h.HandleListForArea)
	r.Put("/admin/areas/{area}/permissions", h.HandleSetForArea)
}

// SetPermissionRequest toggles a single (person, area) pair.
type SetPermissionRequest struct {
	Habilitado bool `json:"habilitado"`
}

// PersonGrantsRequest replaces a person's access state per area key.
type PersonGrantsRequest struct {
	Areas map[string]bool `json:"areas"`
}

func (r *PersonGrantsRequest) Validate() error {
	if len(r.Areas) == 0 {
		return dErrors.New(dErrors.CodeValidation, "areas is required")
	}
	return nil
}

// AreaGrantsRequest replaces an area's access state per person id.
type AreaGrantsRequest struct {
	Persons map[string]bool `json:"persons"`
}

func (r *AreaGrantsRequest) Validate() error {
	if len(r.Persons) == 0 {
		return dErrors.New(dErrors.CodeValidation, "persons is required")
	}
	return nil
}

// GrantResponse is a person's effective access state for one area.
type GrantResponse struct {
	AreaKey    string `json:"area_key"`
	AreaNombre string `json:"area_nombre"`
	Habilitado bool   `json:"habilitado"`
}

// PersonGrantsResponse lists a person's state across the full area catalog.
type PersonGrantsResponse struct {
	PersonID string          `json:"person_id"`
	Grants   []GrantResponse `json:"grants"`
}

// AreaGrantResponse is one stored permission record for an area.
type AreaGrantResponse struct {
	PersonID   string    `json:"person_id"`
	Habilitado bool      `json:"habilitado"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AreaGrantsResponse lists the stored permission records for an area.
type AreaGrantsResponse struct {
	AreaKey string              `json:"area_key"`
	Grants  []AreaGrantResponse `json:"grants"`
}

// BulkWriteResponse reports how many records a bulk update wrote.
type BulkWriteResponse struct {
	Written int `json:"written"`
}

// HandleListForPerson reports the person's state across the full catalog.
func (h *Handler) HandleListForPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	grants, err := h.service.ListForPerson(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := PersonGrantsResponse{PersonID: personID.String(), Grants: make([]GrantResponse, 0, len(grants))}
	for _, g := range grants {
		resp.Grants = append(resp.Grants, GrantResponse{
			AreaKey:    string(g.AreaKey),
			AreaNombre: g.AreaNombre,
			Habilitado: g.Habilitado,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSetForPerson replaces the person's grants for every named area.
func (h *Handler) HandleSetForPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[PersonGrantsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	written, err := h.service.SetForPerson(ctx, personID, req.Areas)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk permission update failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, BulkWriteResponse{Written: written})
}

// HandleSetPermission toggles one (person, area) pair.
func (h *Handler) HandleSetPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetPermissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetPermission(ctx, personID, chi.URLParam(r, "area"), req.Habilitado); err != nil {
		h.logger.ErrorContext(ctx, "permission update failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListForArea returns the stored permission records for one area.
func (h *Handler) HandleListForArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	area := chi.URLParam(r, "area")

	perms, err := h.service.ListForArea(ctx, area)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := AreaGrantsResponse{
		AreaKey: string(domain.NormalizeAreaKey(area)),
		Grants:  make([]AreaGrantResponse, 0, len(perms)),
	}
	for _, p := range perms {
		resp.Grants = append(resp.Grants, AreaGrantResponse{
			PersonID:   p.PersonID.String(),
			Habilitado: p.Habilitado,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSetForArea replaces the area's grants for every named person.
func (h *Handler) HandleSetForArea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AreaGrantsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	written, err := h.service.SetForArea(ctx, chi.URLParam(r, "area"), req.Persons)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk permission update failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, BulkWriteResponse{Written: written})
}
