// Package metrics is the append-only repair-event sink: an ordered
// timestamp/goroutine-id/event/label log plus the Prometheus counters and
// gauges that summarize the same events numerically. Grounded on the
// Hadoop original's MetricTimer/OurECLogger (an append-only log of repair
// milestones) and on the pack's cuemby-warren log package for the zerolog
// wiring the teacher itself never carried.
package metrics

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EventKind is one of the three event shapes the log records.
type EventKind string

const (
	Start EventKind = "START"
	End   EventKind = "END"
	Mark  EventKind = "MARK"
)

// Sink is the process-wide, best-effort event log. I/O failures are logged
// through its own logger and never propagated — metrics are never on the
// repair critical path.
type Sink struct {
	mu     sync.Mutex
	out    io.Writer
	logger zerolog.Logger

	repairsStarted  prometheus.Counter
	repairsFailed   prometheus.Counter
	activeRepairs   prometheus.Gauge
	helperReadFails prometheus.Counter
}

var (
	singleton *Sink
	once      sync.Once
)

// Default returns the process-wide Sink, creating it on first use.
func Default() *Sink {
	once.Do(func() {
		singleton = newSink(os.Stderr)
	})
	return singleton
}

// NewForTest builds a standalone Sink writing to w, bypassing the process-
// wide singleton and skipping Prometheus collector registration collisions
// across repeated test runs.
func NewForTest(w io.Writer) *Sink {
	s := newSink(w)
	for _, c := range []prometheus.Collector{s.repairsStarted, s.repairsFailed, s.activeRepairs, s.helperReadFails} {
		prometheus.Unregister(c)
	}
	return s
}

func newSink(w io.Writer) *Sink {
	s := &Sink{
		out:    w,
		logger: zerolog.New(w).With().Timestamp().Str("component", "metrics").Logger(),
		repairsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tr_repairs_started_total",
			Help: "Number of TR repairs started.",
		}),
		repairsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tr_repairs_failed_total",
			Help: "Number of TR repairs that ended in an error.",
		}),
		activeRepairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tr_repairs_active",
			Help: "Number of TR repairs currently in flight.",
		}),
		helperReadFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tr_helper_read_failures_total",
			Help: "Number of helper reads that failed or timed out.",
		}),
	}
	for _, c := range []prometheus.Collector{s.repairsStarted, s.repairsFailed, s.activeRepairs, s.helperReadFails} {
		_ = prometheus.Register(c)
	}
	return s
}

func (s *Sink) append(kind EventKind, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s\t%d\t%s\t%s\n", time.Now().UTC().Format(time.RFC3339Nano), goroutineID(), kind, label)
	if _, err := s.out.Write([]byte(line)); err != nil {
		s.logger.Warn().Err(err).Msg("metrics: append failed")
	}
}

// Start records the beginning of a named repair milestone.
func (s *Sink) Start(label string) {
	s.append(Start, label)
	s.activeRepairs.Inc()
	s.repairsStarted.Inc()
}

// End records the end of a named repair milestone.
func (s *Sink) End(label string) {
	s.append(End, label)
	s.activeRepairs.Dec()
}

// EndWithError is like End but also records a failure.
func (s *Sink) EndWithError(label string, err error) {
	s.append(End, label+":"+err.Error())
	s.activeRepairs.Dec()
	s.repairsFailed.Inc()
}

// Mark records a point-in-time event with no duration.
func (s *Sink) Mark(label string) {
	s.append(Mark, label)
}

// HelperReadFailed increments the helper-read-failure counter.
func (s *Sink) HelperReadFailed() {
	s.helperReadFails.Inc()
}

// Shutdown flushes and releases the sink's underlying writer. Safe to call
// multiple times.
func Shutdown() {
	s := Default()
	s.mu.Lock()
	defer s.mu.Unlock()
	if closer, ok := s.out.(io.Closer); ok && s.out != os.Stderr && s.out != os.Stdout {
		_ = closer.Close()
	}
}

// goroutineID is a best-effort numeric goroutine identifier for the log
// line's thread-id column; it parses runtime.Stack's header the way
// lightweight debug logging commonly does, and falls back to 0 if parsing
// ever fails (format is not part of the Go compatibility promise).
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	var id uint64
	for i := len("goroutine "); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
