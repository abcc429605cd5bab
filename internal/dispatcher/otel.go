package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/airpen/airpen/internal/dispatcher"

// instruments holds the dispatcher's queue metrics.
type instruments struct {
	processed metric.Int64Counter
	dropped   metric.Int64Counter
}

func newInstruments(m metric.Meter, lengths func() map[string]int) (*instruments, error) {
	queueSize, err := m.Int64ObservableGauge(
		"airpen.dispatcher.queue.size",
		metric.WithDescription("Events waiting in each command queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for cmd, n := range lengths() {
			o.ObserveInt64(queueSize, int64(n), metric.WithAttributes(attribute.String("command", cmd)))
		}
		return nil
	}, queueSize)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	inst := &instruments{}

	inst.processed, err = m.Int64Counter(
		"airpen.dispatcher.events.processed",
		metric.WithDescription("Queued events handled, by command and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	inst.dropped, err = m.Int64Counter(
		"airpen.dispatcher.events.dropped",
		metric.WithDescription("Events dropped because the queue was full"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return inst, nil
}

func (i *instruments) handled(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	i.processed.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	))
}

func (i *instruments) drop(command string) {
	i.dropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", command)))
}
