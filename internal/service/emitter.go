package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: run lifecycle notifications
// ─────────────────────────────────────────────────────────────

// Pipeline events.
const (
	EventRunStarted  = "run:started"
	EventRunFinished = "run:finished"
)

// EventEmitter receives pipeline lifecycle events. Services take this
// interface so they can be tested with a recording emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes every event to a structured logger.
type LogEmitter struct {
	Logger *zap.SugaredLogger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	e.Logger.Infow(event, "data", data)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Names returns the recorded event names in order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Event
	}
	return out
}
