// Package metrics records the outcome of a preconfiguration run as
// Prometheus metrics.
//
// The program runs once per capture session and exits, so metrics are
// not served over HTTP.  Instead they are written to a file in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trlsmax/freeture-gdmn/internal/reconcile"
)

var (
	// Registry holds the metrics of this program only, so the textfile
	// does not include Go runtime and process metrics.
	Registry = prometheus.NewRegistry()

	// GPSLock is 1 if the session's position came with a GPS lock.
	GPSLock = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "freeture_preconfig_gps_lock",
			Help: "Whether the session configuration was written with a GPS lock.",
		})
	// LocationOutcome is 1 for the way the location report was handled
	// and 0 for the others.
	LocationOutcome = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "freeture_preconfig_location_outcome",
			Help: "How the location report was handled (locked, nofix, or unreadable).",
		},
		[]string{"outcome"},
	)
	// SessionTimestamp is when the session configuration was written.
	SessionTimestamp = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "freeture_preconfig_session_timestamp_seconds",
			Help: "Unix time the last session configuration was written.",
		})

	ErrNoPath       = errors.New("empty metrics textfile pathname")
	ErrWriteMetrics = errors.New("failed to write metrics textfile")
)

// Record sets the metrics for a run whose reconciliation result is res
// and whose session configuration was written at now.
func Record(res reconcile.Result, now time.Time) {
	if res.Config.Station.Locked() {
		GPSLock.Set(1)
	} else {
		GPSLock.Set(0)
	}
	for _, o := range reconcile.Outcomes {
		v := 0.0
		if o == res.Outcome {
			v = 1
		}
		LocationOutcome.WithLabelValues(o.String()).Set(v)
	}
	SessionTimestamp.Set(float64(now.Unix()))
}

// WriteTextfile writes all metrics in Registry to path.
func WriteTextfile(path string) error {
	if path == "" {
		return ErrNoPath
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetrics, err)
	}
	return nil
}
