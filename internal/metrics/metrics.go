// Package metrics counts remote calls, validation failures and stale
// responses. A nil *Recorder is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sqs_admin"

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

type Recorder struct {
	registry   *prometheus.Registry
	calls      *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	validation *prometheus.CounterVec
	stale      prometheus.Counter
}

// New builds a recorder on its own registry so parallel tests never collide
// on the default one.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calls_total",
			Help:      "Remote calls issued by the console, by action and result.",
		}, []string{"action", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_seconds",
			Help:      "Latency of remote calls by action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Local validation failures that prevented a remote call.",
		}, []string{"reason"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Receive responses dropped because their queue was no longer selected.",
		}),
	}
	r.registry.MustRegister(r.calls, r.latency, r.validation, r.stale)
	return r
}

func (r *Recorder) ObserveCall(action string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.calls.WithLabelValues(action, result).Inc()
	r.latency.WithLabelValues(action).Observe(elapsed.Seconds())
}

// Preset creates zero-valued call series for actions so they are exported
// before the first call.
func (r *Recorder) Preset(actions ...string) {
	if r == nil {
		return
	}
	for _, action := range actions {
		r.calls.WithLabelValues(action, ResultSuccess)
		r.calls.WithLabelValues(action, ResultError)
	}
}

func (r *Recorder) ValidationFailed(reason string) {
	if r == nil {
		return
	}
	r.validation.WithLabelValues(reason).Inc()
}

func (r *Recorder) StaleResponse() {
	if r == nil {
		return
	}
	r.stale.Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return r.serve(ctx, ln)
}

func (r *Recorder) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
