package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds application-level Prometheus metrics for the management surface.
type Metrics struct {
	PersonsCreated       prometheus.Counter
	PersonsDeleted       prometheus.Counter
	FingerprintsEnrolled prometheus.Counter
	AreasCreated         prometheus.Counter
	PermissionsWritten   prometheus.Counter
}

// New creates and registers all management-surface metrics.
func New() *Metrics {
	return &Metrics{
		PersonsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aforo_persons_created_total",
			Help: "Total number of persons created",
		}),
		PersonsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aforo_persons_deleted_total",
			Help: "Total number of persons deleted",
		}),
		FingerprintsEnrolled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aforo_fingerprints_enrolled_total",
			Help: "Total number of fingerprint templates enrolled",
		}),
		AreasCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aforo_areas_created_total",
			Help: "Total number of areas created",
		}),
		PermissionsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aforo_permissions_written_total",
			Help: "Total number of permission records written",
		}),
	}
}
