// Package metrics exposes frame loop metrics in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the orrery's metrics. Each collector has its own
// registry, so several can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	framesTotal    prometheus.Counter
	stageDuration  *prometheus.HistogramVec
	drawOps        *prometheus.GaugeVec
	commandsTotal  *prometheus.CounterVec
	executorErrors prometheus.Counter
	timeScale      prometheus.Gauge
	paused         prometheus.Gauge
	fps            prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_frames_total",
			Help: "Total number of frames stepped",
		}),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orrery_stage_duration_seconds",
				Help:    "Time spent in each frame stage",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"stage"},
		),
		drawOps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orrery_draw_ops",
				Help: "Draw operations in the last frame",
			},
			[]string{"pass"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_commands_total",
				Help: "Discrete commands applied",
			},
			[]string{"kind"},
		),
		executorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_executor_errors_total",
			Help: "Frames whose draw list failed to execute cleanly",
		}),
		timeScale: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_time_scale",
			Help: "Current simulation time scale",
		}),
		paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_paused",
			Help: "1 while the simulation is paused",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_fps",
			Help: "Measured frames per second",
		}),
	}

	m.registry.MustRegister(
		m.framesTotal,
		m.stageDuration,
		m.drawOps,
		m.commandsTotal,
		m.executorErrors,
		m.timeScale,
		m.paused,
		m.fps,
	)
	return m
}

// Registry returns the collector's registry.
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records the duration of one frame stage.
func (m *Collector) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordFrame counts a frame and its clock state.
func (m *Collector) RecordFrame(timeScale float64, paused bool) {
	m.framesTotal.Inc()
	m.timeScale.Set(timeScale)
	if paused {
		m.paused.Set(1)
	} else {
		m.paused.Set(0)
	}
}

// SetDrawOps records the number of ops of a pass in the last frame.
func (m *Collector) SetDrawOps(pass string, n int) {
	m.drawOps.WithLabelValues(pass).Set(float64(n))
}

// RecordCommand counts an applied command.
func (m *Collector) RecordCommand(kind string) {
	m.commandsTotal.WithLabelValues(kind).Inc()
}

// RecordExecutorError counts a frame with an executor error.
func (m *Collector) RecordExecutorError() {
	m.executorErrors.Inc()
}

// SetFPS records the measured frame rate.
func (m *Collector) SetFPS(fps float64) {
	m.fps.Set(fps)
}

// Handler returns the HTTP handler for the collector's registry.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
