package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/airpen/airpen/pkg/core"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecording(t *testing.T, path string) {
	t.Helper()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	finger := func(x float64) []core.Hand {
		return []core.Hand{{
			ID:              1,
			ExtendedFingers: 1,
			Pointables: []core.Pointable{
				{ID: 10, Valid: true},
				{ID: 11, Tip: core.Vector{X: x, Y: 1}, Valid: true},
			},
		}}
	}

	var frames []core.Frame
	for i := 0; i < 11; i++ {
		frames = append(frames, core.Frame{Hands: finger(1)})
	}
	for _, x := range []float64{3, 5, 7} {
		frames = append(frames, core.Frame{Hands: finger(x)})
	}
	frames = append(frames, core.Frame{Hands: []core.Hand{{ID: 1, ExtendedFingers: 1}}})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range frames {
		frames[i].ID = int64(i + 1)
		frames[i].Timestamp = start.Add(time.Duration(i) * 50 * time.Millisecond)
		require.NoError(t, enc.Encode(frames[i]))
	}
}

func TestRun_ReplaysRecording(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	writeConfig(t, dir, map[string]any{
		"logsDir": logsDir,
		"render":  map[string]any{"refreshInterval": "10ms"},
	})

	recording := filepath.Join(dir, "frames.jsonl")
	writeRecording(t, recording)

	code := run([]string{"--config-dir", dir, "--source", recording})
	assert.Equal(t, 0, code)

	logs, err := filepath.Glob(filepath.Join(logsDir, "airpen.*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Session finished")
	assert.Contains(t, out, "LINESTRING Z")
	assert.Contains(t, out, "finishedStrokes=1")
}

func TestRun_MissingSource(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, map[string]any{"logsDir": filepath.Join(dir, "logs")})

	code := run([]string{"--config-dir", dir, "--source", filepath.Join(dir, "missing.jsonl")})
	assert.Equal(t, 1, code)
}

func TestRun_BadFlag(t *testing.T) {
	t.Cleanup(viper.Reset)
	assert.Equal(t, 2, run([]string{"--no-such-flag"}))
}

func TestOpenSource_Stdin(t *testing.T) {
	for _, path := range []string{"", "-"} {
		src, paced, closeFn, err := openSource(path)
		require.NoError(t, err)
		assert.NotNil(t, src)
		assert.False(t, paced)
		closeFn()
	}
}

func TestNewZerolog_Level(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l := newZerolog(os.Stderr, tt.in)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func writeConfig(t *testing.T, dir string, cfg map[string]any) {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "airpen.cfg.json"), data, 0644))
}
