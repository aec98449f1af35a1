package search

import (
	"log/slog"
	"time"

	"github.com/outfield/retriever/core"
)

const defaultEventBuffer = 64

// Event summarizes one completed search. One Event is emitted per call to
// Orchestrator.Search, after the response is assembled.
type Event struct {
	Query           string
	OptimizedQuery  string
	SearchType      core.SearchType
	ResultCount     int
	SuggestionCount int
	Duration        time.Duration
	TopIDs          []core.ID
}

// Monitor receives search events. Implementations must not block: Record is
// called on the search path.
type Monitor interface {
	Record(event Event)
}

// NopMonitor discards every event.
type NopMonitor struct{}

var _ Monitor = NopMonitor{}

func (NopMonitor) Record(Event) {}

// LogMonitor writes each event to a structured logger at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

func (m *LogMonitor) Record(event Event) {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("search completed",
		"query", event.Query,
		"optimizedQuery", event.OptimizedQuery,
		"searchType", event.SearchType,
		"results", event.ResultCount,
		"suggestions", event.SuggestionCount,
		"duration", event.Duration)
}

// AsyncMonitor decouples a slow sink from the search path by forwarding
// events through a buffered channel. Events that arrive while the buffer is
// full are dropped.
type AsyncMonitor struct {
	sink   Monitor
	events chan Event
	done   chan struct{}
}

var _ Monitor = (*AsyncMonitor)(nil)

// NewAsyncMonitor wraps sink with an asynchronous forwarder. A nil sink is
// replaced with NopMonitor; a non-positive buffer falls back to the default.
func NewAsyncMonitor(sink Monitor, buffer int) *AsyncMonitor {
	if sink == nil {
		sink = NopMonitor{}
	}
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	m := &AsyncMonitor{
		sink:   sink,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *AsyncMonitor) run() {
	defer close(m.done)
	for event := range m.events {
		m.sink.Record(event)
	}
}

// Record enqueues the event for the sink. When the buffer is full the event
// is dropped rather than blocking the search path.
func (m *AsyncMonitor) Record(event Event) {
	select {
	case m.events <- event:
	default:
	}
}

// Close stops the forwarder after draining buffered events. Record must not
// be called after Close.
func (m *AsyncMonitor) Close() {
	close(m.events)
	<-m.done
}
