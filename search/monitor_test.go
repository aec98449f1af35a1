package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield/retriever/core"
)

func TestAsyncMonitor_ForwardsEvents(t *testing.T) {
	sink := &recordingMonitor{}
	monitor := NewAsyncMonitor(sink, 8)

	monitor.Record(Event{Query: "alpha", SearchType: core.SearchTypeExact})
	monitor.Record(Event{Query: "beta", SearchType: core.SearchTypeFuzzy})

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 2
	}, time.Second, 5*time.Millisecond)

	events := sink.Events()
	assert.Equal(t, "alpha", events[0].Query)
	assert.Equal(t, "beta", events[1].Query)

	monitor.Close()
}

func TestAsyncMonitor_CloseDrainsBuffer(t *testing.T) {
	sink := &recordingMonitor{}
	monitor := NewAsyncMonitor(sink, 16)

	for i := 0; i < 10; i++ {
		monitor.Record(Event{Query: "q"})
	}
	monitor.Close()

	assert.Len(t, sink.Events(), 10)
}

func TestAsyncMonitor_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	slow := &blockingMonitor{release: block}
	monitor := NewAsyncMonitor(slow, 1)

	// The first event occupies the worker, the second fills the buffer;
	// everything after that must be dropped without blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			monitor.Record(Event{Query: "q"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	close(block)
	monitor.Close()
	assert.LessOrEqual(t, slow.count, 50)
}

func TestAsyncMonitor_NilSink(t *testing.T) {
	monitor := NewAsyncMonitor(nil, 0)
	monitor.Record(Event{Query: "q"})
	monitor.Close()
}

// blockingMonitor stalls until released, counting delivered events.
type blockingMonitor struct {
	release chan struct{}
	count   int
}

func (m *blockingMonitor) Record(Event) {
	<-m.release
	m.count++
}
