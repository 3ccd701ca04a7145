// Package handler exposes the access-check endpoint consumed by the
// embedded fingerprint reader. The wire contract is fixed by the device
// firmware: field names are Spanish, errors carry an explicit acceso
// flag, and huellaID arrives as either a number or a numeric string.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"aforo/internal/decision/service"
	"aforo/pkg/domain"
	"aforo/pkg/platform/httputil"
	request "aforo/pkg/platform/middleware/request"
)

// Service defines the interface for access decisions.
type Service interface {
	Evaluate(ctx context.Context, presented domain.FingerprintID, rawArea string) (*service.Decision, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/access/verify", h.HandleVerify)
}

// FingerprintField accepts the reader's huellaID in either JSON form.
type FingerprintField struct {
	raw     string
	present bool
}

func (f *FingerprintField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		f.raw = n.String()
		f.present = true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	f.raw = strings.TrimSpace(s)
	f.present = f.raw != ""
	return nil
}

// VerifyRequest is the reader's access-check payload.
type VerifyRequest struct {
	HuellaID FingerprintField `json:"huellaID"`
	Area     string           `json:"area"`
}

// VerifyResponse is the decision returned to the reader. Mensaje is set
// only for unrecognized fingerprints.
type VerifyResponse struct {
	Acceso    bool   `json:"acceso"`
	Nombre    string `json:"nombre"`
	Matricula string `json:"matricula"`
	Mensaje   string `json:"mensaje,omitempty"`
}

type verifyError struct {
	Acceso bool   `json:"acceso"`
	Error  string `json:"error"`
}

// HandleVerify runs the decision procedure for one reader request.
// Requests missing either field are rejected before the procedure runs,
// so they produce no audit entry.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "malformed verify payload", "error", err, "request_id", requestID)
		httputil.WriteJSON(w, http.StatusBadRequest, verifyError{Acceso: false, Error: "missing fields"})
		return
	}

	if !req.HuellaID.present || strings.TrimSpace(req.Area) == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, verifyError{Acceso: false, Error: "missing fields"})
		return
	}

	// A non-numeric identifier is a guaranteed miss, not a request error.
	// The unset sentinel never resolves, so the procedure records the
	// attempt and denies.
	fid, err := domain.ParseFingerprintID(req.HuellaID.raw)
	if err != nil {
		h.logger.WarnContext(ctx, "non-numeric huellaID treated as miss",
			"raw", req.HuellaID.raw, "request_id", requestID)
		fid = domain.FingerprintUnset
	}

	d, err := h.service.Evaluate(ctx, fid, req.Area)
	if err != nil {
		h.logger.ErrorContext(ctx, "access decision failed", "error", err, "request_id", requestID)
		httputil.WriteJSON(w, http.StatusInternalServerError, verifyError{Acceso: false, Error: "server error"})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{
		Acceso:    d.Acceso,
		Nombre:    d.Nombre,
		Matricula: d.Matricula,
		Mensaje:   d.Mensaje,
	})
}
