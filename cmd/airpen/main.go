// Command airpen turns a stream of hand-tracking frames into 3D strokes.
//
// Frames are read as JSON from a file or stdin, classified by the tracker and
// drawn by a headless painter that logs every finished stroke. SIGHUP resets
// the camera; SIGINT or SIGTERM stop the session.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/airpen/airpen/internal/config"
	"github.com/airpen/airpen/internal/dispatcher"
	"github.com/airpen/airpen/internal/logging"
	"github.com/airpen/airpen/internal/monitor"
	intOtel "github.com/airpen/airpen/internal/otel"
	"github.com/airpen/airpen/internal/render"
	"github.com/airpen/airpen/internal/source"
	"github.com/airpen/airpen/internal/tracker"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const appName = "airpen"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	sessionStart := time.Now()

	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	if err := config.BindFlags(fs); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		return 2
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	slogManager := logging.NewSlogManager()
	slogManager.Setup(nil, viper.GetString("logLevel"), nil)
	logger := slogManager.Logger()

	if err := config.Load(viper.GetString("configDir")); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config", "file", viper.ConfigFileUsed())
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
		return 1
	}

	logPath := logging.LogFilePath(logsDir, appName, sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		logger.Error("Failed to create/open log file!", "error", err, "path", logPath)
		return 1
	}
	defer logFile.Close()

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "OTel shutdown: %v\n", err)
		}
	}()

	var tr *tracker.Tracker
	slogManager.SetContextProvider(logging.TrackerContext(func() (tracker.Stats, bool) {
		if tr == nil {
			return tracker.Stats{}, false
		}
		return tr.Stats(), true
	}))

	var otelLogProvider *sdklog.LoggerProvider
	if provider.Enabled() {
		otelLogProvider = provider.LoggerProvider()
	}
	slogManager.Setup(io.MultiWriter(os.Stdout, logFile), viper.GetString("logLevel"), otelLogProvider)
	logger = slogManager.Logger()
	logger.Info("Logging to file", "path", logPath, "otel", provider.Enabled())

	tr, err = tracker.New(config.GetTrackerConfig(), tracker.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to create tracker", "error", err)
		return 1
	}

	eventLog := logging.NewDispatcherLogger(newZerolog(logFile, viper.GetString("logLevel")))
	d, err := dispatcher.New(eventLog.With("component", "dispatcher"))
	if err != nil {
		logger.Error("Failed to create dispatcher", "error", err)
		return 1
	}
	tr.RegisterHandlers(d)

	src, paced, closeSrc, err := openSource(config.GetSourceConfig().Path)
	if err != nil {
		logger.Error("Failed to open frame source", "error", err)
		return 1
	}
	defer closeSrc()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.NewService(monitor.Dependencies{
		Logger:     logger,
		Stats:      tr.Stats,
		Totals:     provider.CounterTotals,
		StatusPath: filepath.Join(logsDir, "status.json"),
		Interval:   time.Second,
	})
	if err := mon.Start(); err != nil {
		logger.Error("Failed to start status monitor", "error", err)
	}
	defer mon.Stop()

	renderCtx, stopRender := context.WithCancel(ctx)
	painter := render.NewLogPainter(logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		render.Loop(renderCtx, tr, painter, config.GetRenderConfig().RefreshInterval, logger)
	}()
	go func() {
		defer wg.Done()
		resetOnHangup(renderCtx, d, logger)
	}()

	var opts []source.PumpOption
	if paced {
		opts = append(opts, source.Paced())
	}
	sent, pumpErr := source.Pump(ctx, src, d, logger, opts...)

	stopRender()
	wg.Wait()
	// Queued frames finish before the last paint.
	d.Close()
	if err := render.Draw(tr, painter); err != nil {
		logger.Error("Final paint failed", "error", err)
	}

	st := tr.Stats()
	logger.Info("Session finished",
		"frames", sent,
		"finishedStrokes", st.FinishedStrokes,
		"activeTracks", st.ActiveTracks,
		"duration", time.Since(sessionStart),
	)
	if totals, err := provider.CounterTotals(context.Background()); err == nil && len(totals) > 0 {
		logger.Info("Counters", "totals", totals)
	}

	if pumpErr != nil && !errors.Is(pumpErr, context.Canceled) {
		logger.Error("Frame source failed", "error", pumpErr)
		return 1
	}
	return 0
}

// openSource opens the configured frame stream. Files are replayed at their
// recorded pace; stdin is assumed to be live.
func openSource(path string) (src source.Source, paced bool, closeFn func(), err error) {
	if path == "" || path == "-" {
		return source.NewJSONSource(os.Stdin), false, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return source.NewJSONSource(f), true, func() { f.Close() }, nil
}

// resetOnHangup dispatches a camera reset for every SIGHUP until ctx is done.
func resetOnHangup(ctx context.Context, d *dispatcher.Dispatcher, logger interface {
	Error(msg string, args ...any)
}) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if _, err := d.Dispatch(dispatcher.Event{Command: dispatcher.CommandReset, Timestamp: time.Now()}); err != nil {
				logger.Error("Camera reset failed", "error", err)
			}
		}
	}
}

// newZerolog builds the dispatcher's event logger.
func newZerolog(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", "dispatcher").Logger()
}
