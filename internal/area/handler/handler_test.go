package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"aforo/internal/area/service"
	areastore "aforo/internal/area/store"
	adminmw "aforo/pkg/platform/middleware/admin"
)

const adminToken = "secret-token"

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(areastore.NewInMemory(), nil, service.WithLogger(logger))

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
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestCreateArea_ExposesCanonicalKey() {
	rec := s.request(http.MethodPost, "/admin/areas", `{"nombre":"Lab Quimica"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var resp AreaResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Lab Quimica", resp.Nombre)
	s.Equal("labquimica", resp.Clave)
}

func (s *HandlerSuite) TestCreateArea_CollidingKeyConflicts() {
	rec := s.request(http.MethodPost, "/admin/areas", `{"nombre":"Lab Quimica"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.request(http.MethodPost, "/admin/areas", `{"nombre":"  LAB  quimica "}`)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestRenameAndDelete() {
	rec := s.request(http.MethodPost, "/admin/areas", `{"nombre":"Lab Quimica"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created AreaResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.request(http.MethodPut, "/admin/areas/"+created.ID, `{"nombre":"Lab Biologia"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var renamed AreaResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &renamed))
	s.Equal("labbiologia", renamed.Clave)

	rec = s.request(http.MethodDelete, "/admin/areas/"+created.ID, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/admin/areas/"+created.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)
}
