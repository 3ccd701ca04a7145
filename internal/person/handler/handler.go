// Package handler exposes the person management surface consumed by the
// operator UI.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aforo/internal/person/models"
	"aforo/pkg/domain"
	dErrors "aforo/pkg/domain-errors"
	"aforo/pkg/platform/httputil"
	request "aforo/pkg/platform/middleware/request"
)

// Service defines the interface for person operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	CreatePerson(ctx context.Context, nombre, matricula string) (*models.Person, error)
	UpdatePerson(ctx context.Context, id domain.PersonID, nombre, matricula string) (*models.Person, error)
	DeletePerson(ctx context.Context, id domain.PersonID) error
	GetPerson(ctx context.Context, id domain.PersonID) (*models.Person, error)
	ListPersons(ctx context.Context) ([]*models.Person, error)
	EnrollFingerprint(ctx context.Context, id domain.PersonID, slot models.Slot) (*models.Person, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/persons", h.HandleCreatePerson)
	r.Get("/admin/persons", h.HandleListPersons)
	r.Get("/admin/persons/{id}", h.HandleGetPerson)
	r.Put("/admin/persons/{id}", h.HandleUpdatePerson)
	r.Delete("/admin/persons/{id}", h.HandleDeletePerson)
	r.Post("/admin/persons/{id}/fingerprints/{slot}", h.HandleEnrollFingerprint)
}

// HandleCreatePerson registers a person with empty fingerprint slots.
func (h *Handler) HandleCreatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.CreatePerson(ctx, req.Nombre, req.Matricula)
	if err != nil {
		h.logger.ErrorContext(ctx, "create person failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toPersonResponse(p))
}

// HandleListPersons returns all persons.
func (h *Handler) HandleListPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.service.ListPersons(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list persons failed", "error", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPersonListResponse(list))
}

// HandleGetPerson returns one person by id.
func (h *Handler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	p, err := h.service.GetPerson(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(p))
}

// HandleUpdatePerson edits name and matricula.
func (h *Handler) HandleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdatePersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.UpdatePerson(ctx, personID, req.Nombre, req.Matricula)
	if err != nil {
		h.logger.ErrorContext(ctx, "update person failed", "error", err, "request_id", requestID, "person_id", personID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(p))
}

// HandleDeletePerson removes a person. Audit entries keep their denormalized
// copy of the person's data.
func (h *Handler) HandleDeletePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	if err := h.service.DeletePerson(ctx, personID); err != nil {
		h.logger.ErrorContext(ctx, "delete person failed", "error", err, "request_id", requestID, "person_id", personID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleEnrollFingerprint triggers a scan on the reader and stores the
// returned template id in the requested slot.
func (h *Handler) HandleEnrollFingerprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	personID, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	slotNum, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "fingerprint slot must be 1 or 2"))
		return
	}
	slot, err := models.ParseSlot(slotNum)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.service.EnrollFingerprint(ctx, personID, slot)
	if err != nil {
		h.logger.ErrorContext(ctx, "enroll fingerprint failed", "error", err, "request_id", requestID, "person_id", personID, "slot", slotNum)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(p))
}
