// Package metrics exposes Prometheus collectors for the REST server and the
// model runs it serves.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records request and model-run metrics
type Recorder struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	runs      *prometheus.CounterVec
	crossings *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelmoisture_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fuelmoisture_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelmoisture_model_runs_total",
			Help: "Total number of model runs by operation and outcome",
		}, []string{"operation", "outcome"}),
		crossings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelmoisture_critical_crossings_total",
			Help: "Total number of runs in which moisture reached the critical threshold",
		}, []string{"operation"}),
	}

	var err error
	if r.requests, err = register(reg, r.requests); err != nil {
		return nil, err
	}
	if r.latency, err = register(reg, r.latency); err != nil {
		return nil, err
	}
	if r.runs, err = register(reg, r.runs); err != nil {
		return nil, err
	}
	if r.crossings, err = register(reg, r.crossings); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveRequest records one served HTTP request. A nil Recorder records nothing.
func (r *Recorder) ObserveRequest(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveRun records the outcome of a model operation. critical marks runs in
// which some moisture value reached the critical threshold.
func (r *Recorder) ObserveRun(operation string, err error, critical bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.runs.WithLabelValues(operation, outcome).Inc()
	if critical {
		r.crossings.WithLabelValues(operation).Inc()
	}
}
