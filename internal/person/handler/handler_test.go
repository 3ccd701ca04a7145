package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"aforo/internal/person/service"
	personstore "aforo/internal/person/store"
	"aforo/pkg/domain"
	adminmw "aforo/pkg/platform/middleware/admin"
)

const adminToken = "secret-token"

type stubEnroller struct {
	fid domain.FingerprintID
}

func (s *stubEnroller) Enroll(context.Context) (domain.FingerprintID, error) {
	return s.fid, nil
}

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	persons := personstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(persons, &stubEnroller{fid: 42}, service.WithLogger(logger))

	h := New(svc, logger)
	r := chi.NewRouter()
	r.Use(adminmw.RequireAdminToken(adminToken, logger))
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// TestAdminTokenRequired verifies middleware wiring - management endpoints
// reject requests without a valid admin token.
func (s *HandlerSuite) TestAdminTokenRequired() {
	req := httptest.NewRequest(http.MethodGet, "/admin/persons", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestCreatePerson() {
	rec := s.request(http.MethodPost, "/admin/persons", `{"nombre":"Ana Torres","matricula":"A01234"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var resp PersonResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Ana Torres", resp.Nombre)
	s.Equal("A01234", resp.Matricula)
	s.Zero(resp.Huella1, "slots must start unset")
	s.Zero(resp.Huella2)
}

func (s *HandlerSuite) TestCreatePerson_MissingFields() {
	rec := s.request(http.MethodPost, "/admin/persons", `{"nombre":"Ana Torres"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestEnrollFingerprint() {
	rec := s.request(http.MethodPost, "/admin/persons", `{"nombre":"Ana Torres","matricula":"A01234"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created PersonResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.request(http.MethodPost, "/admin/persons/"+created.ID+"/fingerprints/1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var enrolled PersonResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &enrolled))
	s.Equal(42, enrolled.Huella1)

	// Enrolling the same slot again conflicts.
	rec = s.request(http.MethodPost, "/admin/persons/"+created.ID+"/fingerprints/1", "")
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestEnrollFingerprint_BadSlot() {
	rec := s.request(http.MethodPost, "/admin/persons", `{"nombre":"Ana Torres","matricula":"A01234"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created PersonResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.request(http.MethodPost, "/admin/persons/"+created.ID+"/fingerprints/3", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGetPerson_NotFound() {
	rec := s.request(http.MethodGet, "/admin/persons/"+uuid.New().String(), "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestDeletePerson() {
	rec := s.request(http.MethodPost, "/admin/persons", `{"nombre":"Ana Torres","matricula":"A01234"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created PersonResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.request(http.MethodDelete, "/admin/persons/"+created.ID, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/admin/persons/"+created.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestListPersons() {
	s.request(http.MethodPost, "/admin/persons", `{"nombre":"Ana Torres","matricula":"A01234"}`)
	s.request(http.MethodPost, "/admin/persons", `{"nombre":"Bruno Diaz","matricula":"B05678"}`)

	rec := s.request(http.MethodGet, "/admin/persons", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp PersonListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Persons, 2)
}
