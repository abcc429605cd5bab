package logging

import (
	"context"
	"log/slog"

	"github.com/airpen/airpen/internal/tracker"
)

// ContextProvider returns attributes evaluated at log time.
type ContextProvider func() []slog.Attr

// TrackerContext reports live tracker counts. stats may return false while the
// tracker is not built yet, in which case nothing is added.
func TrackerContext(stats func() (tracker.Stats, bool)) ContextProvider {
	return func() []slog.Attr {
		st, ok := stats()
		if !ok {
			return nil
		}
		return []slog.Attr{
			slog.Int("activeTracks", st.ActiveTracks),
			slog.Int("finishedStrokes", st.FinishedStrokes),
			slog.Bool("rotating", st.Rotating),
		}
	}
}

// ContextHandler appends the provider's attributes to every record before
// passing it on. Enabled comes from the embedded handler.
type ContextHandler struct {
	slog.Handler
	provider ContextProvider
}

func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{Handler: inner, provider: provider}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		if attrs := h.provider(); len(attrs) > 0 {
			r = r.Clone()
			r.AddAttrs(attrs...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.Handler.WithAttrs(attrs), h.provider)
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return NewContextHandler(h.Handler.WithGroup(name), h.provider)
}
