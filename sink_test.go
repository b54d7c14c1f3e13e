package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recordingSink collects events for fan-out assertions
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) LifecycleEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestObserveFansOut(t *testing.T) {
	o := New()

	var mu sync.Mutex
	var bootOrder, stopOrder []string
	instantService(o, "svc", &bootOrder, &stopOrder, &mu)

	first := &recordingSink{}
	second := &recordingSink{}
	Observe(o, first, second)

	require.NoError(t, o.Boot(context.Background()))
	require.NoError(t, o.Shutdown(context.Background()))

	// bootStarted, svc started/ended, bootEnded, then the shutdown four
	require.Equal(t, 8, first.len())
	require.Equal(t, 8, second.len())
}

func TestLogSink(t *testing.T) {
	o := New()

	o.RegisterService(ServiceRegistration{
		Name: "db",
		Boot: func(context.Context, *Orchestrator) (any, error) {
			return nil, errors.New("no route to host")
		},
	})

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	Observe(o, NewLogSink(logger))

	require.NoError(t, o.Boot(context.Background()))

	out := buf.String()
	require.Contains(t, out, "bootStarted")
	require.Contains(t, out, `"service":"db"`)
	require.Contains(t, out, `"mode":"boot"`)
	require.Contains(t, out, "no route to host")
	require.Contains(t, out, `"level":"error"`)
}

func TestMetricsSink(t *testing.T) {
	o := New()

	var mu sync.Mutex
	var bootOrder, stopOrder []string
	instantService(o, "db", &bootOrder, &stopOrder, &mu)
	instantService(o, "web", &bootOrder, &stopOrder, &mu)

	reg := prometheus.NewPedanticRegistry()
	sink := NewMetricsSink(reg)
	Observe(o, sink)

	require.NoError(t, o.Boot(context.Background()))
	require.NoError(t, o.Shutdown(context.Background()))

	require.Equal(t, float64(2), testutil.ToFloat64(sink.StepsTotal.WithLabelValues("boot", "ok")))
	require.Equal(t, float64(2), testutil.ToFloat64(sink.StepsTotal.WithLabelValues("shutdown", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.PassesTotal.WithLabelValues("boot", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.PassesTotal.WithLabelValues("shutdown", "ok")))
}

func TestMetricsSinkCountsFailures(t *testing.T) {
	o := New()

	o.RegisterService(ServiceRegistration{
		Name: "broken",
		Boot: func(context.Context, *Orchestrator) (any, error) {
			return nil, errors.New("nope")
		},
	})

	reg := prometheus.NewPedanticRegistry()
	sink := NewMetricsSink(reg)
	Observe(o, sink)

	require.NoError(t, o.Boot(context.Background()))

	require.Equal(t, float64(1), testutil.ToFloat64(sink.StepsTotal.WithLabelValues("boot", "failed")))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.PassesTotal.WithLabelValues("boot", "failed")))
}

func TestReadyFile(t *testing.T) {
	o := New()

	var mu sync.Mutex
	var bootOrder, stopOrder []string
	instantService(o, "svc", &bootOrder, &stopOrder, &mu)

	path := filepath.Join(t.TempDir(), "ready")
	Observe(o, &ReadyFile{Path: path})

	require.NoError(t, o.Boot(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err, "marker file missing after successful boot")
	require.NotEmpty(t, data)

	require.NoError(t, o.Shutdown(context.Background()))

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "marker file survives shutdown")
}

func TestReadyFileAbsentAfterFailedBoot(t *testing.T) {
	o := New()

	o.RegisterService(ServiceRegistration{
		Name: "broken",
		Boot: func(context.Context, *Orchestrator) (any, error) {
			return nil, errors.New("nope")
		},
	})

	path := filepath.Join(t.TempDir(), "ready")
	Observe(o, &ReadyFile{Path: path})

	require.NoError(t, o.Boot(context.Background()))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "marker file present after failed boot")
}
