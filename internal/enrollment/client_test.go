package enrollment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

func TestEnroll_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/registrarHuella", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","huellaID":"42"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	fid, err := client.Enroll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FingerprintID(42), fid)
}

func TestEnroll_SensorFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.Enroll(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestEnroll_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.Enroll(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestEnroll_InvalidTemplateID(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-numeric", `{"status":"success","huellaID":"abc"}`},
		{"zero sentinel", `{"status":"success","huellaID":"0"}`},
		{"missing", `{"status":"success"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second)
			_, err := client.Enroll(context.Background())
			assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
		})
	}
}

func TestEnroll_UnconfiguredReader(t *testing.T) {
	client := New("", time.Second)
	_, err := client.Enroll(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestEnroll_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(srv.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Enroll(ctx)
	require.Error(t, err)
}
