package server

import (
	"context"
	"errors"
	"sync"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/tasks"
)

// ServerContext holds the authenticated Google clients and the shared
// instrumentation every tool handler needs. Clients are set once at
// construction and only read afterwards.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	calendar *calendar.Client
	tasks    *tasks.Client
	payloads *calendar.PayloadBuilder

	mu          sync.RWMutex
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	shutdown    bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, calendarClient *calendar.Client, tasksClient *tasks.Client, payloads *calendar.PayloadBuilder) (*ServerContext, error) {
	if calendarClient == nil || tasksClient == nil {
		return nil, errors.New("calendar and tasks clients are required")
	}
	if payloads == nil {
		payloads = calendar.NewPayloadBuilder("")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		calendar: calendarClient,
		tasks:    tasksClient,
		payloads: payloads,
		metrics:  &instrumentation.Metrics{},
	}, nil
}

// Context returns the server context. It is canceled by Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// CalendarClient returns the Google Calendar client
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.calendar
}

// TasksClient returns the Google Tasks client
func (sc *ServerContext) TasksClient() *tasks.Client {
	return sc.tasks
}

// PayloadBuilder returns the event payload builder holding the default time zone.
func (sc *ServerContext) PayloadBuilder() *calendar.PayloadBuilder {
	return sc.payloads
}

// SetMetrics sets the metrics recorder. A nil recorder is replaced by a no-op one.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	if m == nil {
		m = &instrumentation.Metrics{}
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the tool audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the tool audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
