package tracker

import (
	"github.com/airpen/airpen/internal/dispatcher"
)

const frameQueueSize = 256

// RegisterHandlers wires the tracker to the dispatcher. Frames go through a
// single buffered worker so they are applied in arrival order and never
// overlap; resets are applied synchronously.
func (t *Tracker) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(dispatcher.CommandFrame, t.handleFrame,
		dispatcher.Buffered(frameQueueSize), dispatcher.Blocking(), dispatcher.Logged())
	d.Register(dispatcher.CommandReset, t.handleReset, dispatcher.Logged())
}

func (t *Tracker) handleFrame(e dispatcher.Event) (any, error) {
	mode := t.ProcessFrame(e.Frame)
	return mode.String(), nil
}

func (t *Tracker) handleReset(dispatcher.Event) (any, error) {
	t.Reset()
	return nil, nil
}
