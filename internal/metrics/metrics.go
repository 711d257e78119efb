// Package metrics exposes brief generation counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/engine"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/logger"
	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/models"
)

// File results reported through ObserveFile.
const (
	ResultBrief       = "brief"
	ResultTranscribed = "transcribed"
	ResultFailed      = "failed"

	// ResultReused is a transcribe-only run that found a saved transcript.
	ResultReused = "reused"
)

// Collector owns a private registry so tests and batch runs never see the
// global default metrics.
type Collector struct {
	registry *prometheus.Registry

	modelLoads *prometheus.CounterVec
	attempts   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	files      *prometheus.CounterVec
	lastRun    prometheus.Gauge
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		modelLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefs_model_loads_total",
				Help: "Model load attempts by result",
			},
			[]string{"model", "family", "result"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefs_invocation_attempts_total",
				Help: "Invocation attempts by request shape and outcome",
			},
			[]string{"model", "family", "shape", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "briefs_invocation_duration_seconds",
				Help:    "Invocation duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
			[]string{"model", "family"},
		),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefs_files_total",
				Help: "Processed input files by result",
			},
			[]string{"result"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "briefs_last_run_timestamp_seconds",
			Help: "Unix time the metrics were last written",
		}),
	}

	c.registry.MustRegister(c.modelLoads, c.attempts, c.duration, c.files, c.lastRun)
	return c
}

// ObserveLoad implements engine.Observer.
func (c *Collector) ObserveLoad(spec models.Spec, err error, d time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.modelLoads.WithLabelValues(spec.ID, spec.Family.String(), result).Inc()
}

// ObserveAttempt implements engine.Observer.
func (c *Collector) ObserveAttempt(a engine.Attempt) {
	family := a.Family.String()
	c.attempts.WithLabelValues(a.Model, family, a.Shape.String(), a.Outcome).Inc()
	c.duration.WithLabelValues(a.Model, family).Observe(a.Duration.Seconds())
}

// ObserveFile counts one processed input file.
func (c *Collector) ObserveFile(result string) {
	c.files.WithLabelValues(result).Inc()
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	c.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Handler returns an HTTP handler for the /metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, log logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "Serving metrics on %s/metrics", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

var _ engine.Observer = (*Collector)(nil)
