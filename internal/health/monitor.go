// Package health keeps the gRPC health service in step with the record
// store. The HTTP /healthz endpoint pings on demand; the gRPC status is
// refreshed periodically here.
package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gurkanbulca/taskdeck/pkg/clock"
)

// ServiceName is the gRPC health service name reported for the task API.
const ServiceName = "taskdeck.v1.TaskService"

// Pinger is anything that can report liveness of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusSetter is implemented by *health.Server from grpc-go.
type StatusSetter interface {
	SetServingStatus(service string, status grpc_health_v1.HealthCheckResponse_ServingStatus)
}

type Options struct {
	Clock    clock.Clock
	Interval time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

type Monitor struct {
	pinger   Pinger
	status   StatusSetter
	clock    clock.Clock
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
	serving  *bool
}

func NewMonitor(p Pinger, s StatusSetter, opts Options) *Monitor {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Monitor{
		pinger:   p,
		status:   s,
		clock:    opts.Clock,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		log:      opts.Logger,
	}
}

// Check pings once and publishes the result for both the overall ("")
// and the task service entries. It reports whether the store is serving.
func (m *Monitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)
	serving := err == nil
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if !serving {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	m.status.SetServingStatus("", status)
	m.status.SetServingStatus(ServiceName, status)

	if m.serving == nil || *m.serving != serving {
		if serving {
			m.log.Info("task store is serving")
		} else {
			m.log.Error("task store is not serving", "error", err)
		}
	}
	m.serving = &serving
	return serving
}

// Start runs an initial check, then re-checks on every interval until ctx
// is done. The returned channel is closed when the loop exits.
func (m *Monitor) Start(ctx context.Context) <-chan struct{} {
	m.Check(ctx)
	ticker := m.clock.NewTicker(m.interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()
		m.log.Debug("health monitor started", "interval", m.interval)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
	return done
}
