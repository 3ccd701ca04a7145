// Package httpserver wraps the stdlib HTTP server with the timeouts the
// service runs with in production.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an http.Server bound to addr with sane timeouts. The write
// timeout leaves room for the enrollment flow, which waits on a finger
// touching the sensor.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
