package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.Equal(t, noop.Meter{}, p.Meter("test"))

	totals, err := p.CounterTotals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, totals)

	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutOutputs(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "airpen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log writer or endpoint")
}

func TestNew_EnabledWithWriter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{
		Enabled:      true,
		ServiceName:  "airpen",
		BatchTimeout: time.Second,
		LogWriter:    &buf,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	assert.True(t, p.Enabled())
	assert.NotNil(t, p.LoggerProvider())

	counter, err := p.Meter("test").Int64Counter("airpen.test.events")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)
	counter.Add(context.Background(), 3)

	totals, err := p.CounterTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), totals["airpen.test.events"])

	// The global provider routes to the same reader.
	global, err := otel.Meter("global").Int64Counter("airpen.test.global")
	require.NoError(t, err)
	global.Add(context.Background(), 1)

	totals, err = p.CounterTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals["airpen.test.global"])

	assert.NoError(t, p.Flush(context.Background()))
}
