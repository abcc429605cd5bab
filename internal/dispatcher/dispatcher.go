// Package dispatcher routes sensor and control events to their handlers.
package dispatcher

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/airpen/airpen/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Commands understood by the tracker.
const (
	CommandFrame = ":FRAME:"
	CommandReset = ":RESET:"
)

var (
	// ErrClosed is returned by Dispatch after Close.
	ErrClosed = errors.New("dispatcher closed")
	// ErrUnknownCommand is returned for commands without a handler.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrQueueFull is returned when a non-blocking queue drops an event.
	ErrQueueFull = errors.New("queue full")
)

// Event is one sensor frame or control request.
type Event struct {
	Command   string
	Frame     core.Frame
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*registration)

type registration struct {
	queue    int
	blocking bool
	logged   bool
}

// Buffered queues events for the command and handles them on one goroutine,
// in arrival order.
func Buffered(size int) Option {
	return func(r *registration) { r.queue = size }
}

// Blocking makes Dispatch wait for room in a full queue instead of dropping.
func Blocking() Option {
	return func(r *registration) { r.blocking = true }
}

// Logged logs every event at debug level, and failures at error level.
func Logged() Option {
	return func(r *registration) { r.logged = true }
}

// Dispatcher routes events to registered handlers. Handlers are registered
// during setup; Register must not race with Dispatch.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger
	inst     *instruments

	// mu guards queues and closed. Senders hold the read lock so Close never
	// closes a channel under an in-flight send.
	mu      sync.RWMutex
	queues  map[string]chan Event
	closed  bool
	workers sync.WaitGroup
}

// New creates a Dispatcher that records metrics on the global meter provider.
func New(logger Logger) (*Dispatcher, error) {
	return NewWithMeterProvider(logger, otel.GetMeterProvider())
}

// NewWithMeterProvider creates a Dispatcher that records metrics on mp.
func NewWithMeterProvider(logger Logger, mp metric.MeterProvider) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		queues:   make(map[string]chan Event),
		logger:   logger,
	}

	inst, err := newInstruments(mp.Meter(instrumentationName), d.queueLengths)
	if err != nil {
		return nil, err
	}
	d.inst = inst

	return d, nil
}

// Register adds a handler for the given command with optional configuration.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	r := &registration{}
	for _, opt := range opts {
		opt(r)
	}

	if r.logged {
		h = d.logged(command, h)
	}
	if r.queue > 0 {
		h = d.queued(command, r.queue, r.blocking, h)
	}

	d.handlers[command] = h
}

// Dispatch routes an event to its registered handler. Queued handlers return
// "queued" once the event is accepted.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	return h(e)
}

// HasHandler reports whether a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// Close stops accepting queued events and waits until every event already
// queued has been handled. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()

	d.workers.Wait()
}

func (d *Dispatcher) queueLengths() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]int, len(d.queues))
	for cmd, q := range d.queues {
		out[cmd] = len(q)
	}
	return out
}

func (d *Dispatcher) queued(command string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	q := make(chan Event, size)

	d.mu.Lock()
	d.queues[command] = q
	d.mu.Unlock()

	d.workers.Add(1)
	go func() {
		defer d.workers.Done()
		for e := range q {
			_, err := h(e)
			d.inst.handled(command, err)
		}
	}()

	return func(e Event) (any, error) {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return nil, ErrClosed
		}

		if blocking {
			q <- e
			return "queued", nil
		}

		select {
		case q <- e:
			return "queued", nil
		default:
			d.inst.drop(command)
			return nil, fmt.Errorf("%w: %s", ErrQueueFull, command)
		}
	}
}

func (d *Dispatcher) logged(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling event", "command", command, "hands", len(e.Frame.Hands))

		result, err := h(e)
		if err != nil {
			d.logger.Error("event failed", "command", command, "duration", time.Since(start), "error", err)
			return result, err
		}

		d.logger.Debug("event complete", "command", command, "duration", time.Since(start))
		return result, nil
	}
}
