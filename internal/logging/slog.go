// Package logging sets up the session loggers: slog for application logs
// (console or file, plus the OTel bridge) and a zerolog adapter for the
// dispatcher's event log.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// SlogManager owns the application logger. Setup may be called again once
// the session log file and telemetry are available; the logger returned
// afterwards writes to the new outputs.
type SlogManager struct {
	logger  *slog.Logger
	level   slog.LevelVar
	console io.Writer

	contextProvider ContextProvider
	logProvider     *sdklog.LoggerProvider
}

// NewSlogManager creates a manager that logs to stdout until Setup is given a file.
func NewSlogManager() *SlogManager {
	return &SlogManager{console: os.Stdout}
}

// parseLevel maps a config level name to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// utcTime renders record times as RFC 3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// SetContextProvider adds dynamic attributes to every record logged after the
// next Setup.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.contextProvider = p
}

// SetLevel changes the level of the current logger in place.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Setup (re)builds the logger. Records go to file when one is given and to
// the console otherwise, and also to OTel when provider is non-nil.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	m.SetLevel(level)
	m.logProvider = provider

	out := m.console
	if file != nil {
		out = file
	}
	text := slog.NewTextHandler(out, &slog.HandlerOptions{Level: &m.level, ReplaceAttr: utcTime})

	var otelHandler slog.Handler
	if provider != nil {
		otelHandler = otelslog.NewHandler("airpen", otelslog.WithLoggerProvider(provider))
	}

	var handler slog.Handler = NewMultiHandler(text, otelHandler)
	if m.contextProvider != nil {
		handler = NewContextHandler(handler, m.contextProvider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "logLevel", m.level.Level().String())
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush exports pending OTel records, if any.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}
