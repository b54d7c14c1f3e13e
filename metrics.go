package lifecycle

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric label values for the status dimension
const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// MetricsSink tracks lifecycle Prometheus metrics.
//
// All metrics use the lifecycle_ prefix. Step and pass durations are
// measured between the matching started/ended events.
type MetricsSink struct {
	// PassesTotal counts completed passes by mode and status
	PassesTotal *prometheus.CounterVec

	// StepsTotal counts completed service steps by mode and status
	StepsTotal *prometheus.CounterVec

	// PassDuration tracks whole-pass latency by mode
	PassDuration *prometheus.HistogramVec

	// StepDuration tracks per-service step latency by mode
	StepDuration *prometheus.HistogramVec

	mu        sync.Mutex
	passStart map[Mode]time.Time
	stepStart map[string]time.Time
}

// NewMetricsSink creates lifecycle metrics registered against reg
// (typically prometheus.DefaultRegisterer). It panics if registration
// fails, which is expected during initialization only.
func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	s := &MetricsSink{
		PassesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifecycle_passes_total",
				Help: "Completed lifecycle passes by mode and status",
			},
			[]string{"mode", "status"},
		),
		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifecycle_steps_total",
				Help: "Completed service steps by mode and status",
			},
			[]string{"mode", "status"},
		),
		PassDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lifecycle_pass_duration_seconds",
				Help:    "Whole-pass duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lifecycle_step_duration_seconds",
				Help:    "Per-service step duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		passStart: make(map[Mode]time.Time),
		stepStart: make(map[string]time.Time),
	}

	reg.MustRegister(s.PassesTotal, s.StepsTotal, s.PassDuration, s.StepDuration)
	return s
}

// LifecycleEvent implements EventSink
func (s *MetricsSink) LifecycleEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	mode := ev.Mode.String()

	switch ev.Kind {
	case EventBootStarted, EventShutdownStarted:
		s.passStart[ev.Mode] = now

	case EventBootServiceStarted, EventShutdownServiceStarted:
		s.stepStart[ev.Service] = now

	case EventBootServiceEnded, EventShutdownServiceEnded:
		status := statusOK
		if ev.Err != nil {
			status = statusFailed
		}
		s.StepsTotal.WithLabelValues(mode, status).Inc()
		if start, ok := s.stepStart[ev.Service]; ok {
			s.StepDuration.WithLabelValues(mode).Observe(now.Sub(start).Seconds())
			delete(s.stepStart, ev.Service)
		}

	case EventBootEnded, EventShutdownEnded:
		status := statusOK
		if ev.Err != nil {
			status = statusFailed
		}
		s.PassesTotal.WithLabelValues(mode, status).Inc()
		if start, ok := s.passStart[ev.Mode]; ok {
			s.PassDuration.WithLabelValues(mode).Observe(now.Sub(start).Seconds())
			delete(s.passStart, ev.Mode)
		}
	}
}
