package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	AdminToken      string
	DatabaseURL     string
	EnrollDeviceURL string
	EnrollTimeout   time.Duration
	Environment     string
	SeedDemo        bool
}

// DefaultEnrollTimeout bounds the wait for the enrollment reader. Enrolling a
// fingerprint requires a person to physically place a finger on the sensor,
// so this is much longer than a typical HTTP call budget.
var DefaultEnrollTimeout = 30 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("AFORO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("AFORO_ADMIN_TOKEN")
	if adminToken == "" {
		// Development default - must be overridden in production.
		adminToken = "dev-admin-token-change-in-production"
	}

	enrollTimeout := DefaultEnrollTimeout
	if v := os.Getenv("AFORO_ENROLL_TIMEOUT"); v != "" {
		if duration, err := time.ParseDuration(v); err == nil {
			enrollTimeout = duration
		}
	}

	environment := os.Getenv("AFORO_ENV")
	if environment == "" {
		environment = "development"
	}

	return Server{
		Addr:            addr,
		AdminToken:      adminToken,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		EnrollDeviceURL: os.Getenv("AFORO_ENROLL_DEVICE_URL"),
		EnrollTimeout:   enrollTimeout,
		Environment:     environment,
		SeedDemo:        os.Getenv("AFORO_SEED_DEMO") == "true",
	}
}
