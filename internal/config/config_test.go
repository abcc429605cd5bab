package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/airpen/airpen/internal/tracker"
	"github.com/airpen/airpen/pkg/core"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"tracker": { "primingSamples": 5, "primingInterval": "50ms" },
		"camera": { "default": { "y": 250 } }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 5, viper.GetInt("tracker.primingSamples"))
	assert.Equal(t, 50*time.Millisecond, viper.GetDuration("tracker.primingInterval"))
	assert.Equal(t, 250.0, viper.GetFloat64("camera.default.y"))
	assert.Equal(t, 600.0, viper.GetFloat64("camera.default.z"))
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	for key, want := range map[string]any{
		"logLevel":               "info",
		"logsDir":                "./airpenlogs",
		"render.refreshInterval": "33ms",
		"source.path":            "",
		"otel.enabled":           false,
		"otel.serviceName":       "airpen",
		"otel.batchTimeout":      "5s",
		"otel.endpoint":          "",
		"otel.insecure":          true,
	} {
		assert.Equal(t, want, viper.Get(key), key)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(filepath.Join(t.TempDir(), "absent"))
	require.ErrorContains(t, err, "error reading config file")

	assert.Equal(t, "info", GetString("logLevel"), "defaults apply without a file")
	assert.Equal(t, tracker.DefaultConfig(), GetTrackerConfig())
}

func TestScalarGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("source.path", "session.jsonl")
	viper.Set("tracker.primingSamples", 12)
	viper.Set("otel.enabled", true)

	assert.Equal(t, "session.jsonl", GetString("source.path"))
	assert.Equal(t, 12, GetInt("tracker.primingSamples"))
	assert.True(t, GetBool("otel.enabled"))
}

func TestGetTrackerConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, tracker.DefaultConfig(), GetTrackerConfig())
}

func TestGetTrackerConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"tracker": {
			"primingSamples": 4,
			"primingRadius": 20,
			"primingInterval": "10ms",
			"invalidInterval": "1s",
			"decimation": 2.5,
			"minStrokePoints": 1,
			"primaryIndex": 0
		},
		"rotation": { "openHandFingers": 4, "deadZone": 1, "angleDivisor": 100, "depthGain": 3 },
		"camera": { "default": { "x": 1, "y": 2, "z": 3 } }
	}`)))

	assert.Equal(t, tracker.Config{
		PrimingSamples:  4,
		PrimingRadius:   20,
		PrimingInterval: 10 * time.Millisecond,
		InvalidInterval: time.Second,
		Decimation:      2.5,
		MinStrokePoints: 1,
		PrimaryIndex:    0,
		OpenHandFingers: 4,
		DeadZone:        1,
		AngleDivisor:    100,
		DepthGain:       3,
		CameraDefault:   core.Vector{X: 1, Y: 2, Z: 3},
	}, GetTrackerConfig())
	assert.Equal(t, core.Vector{X: 1, Y: 2, Z: 3}, GetCameraConfig().Default)
}

func TestGetRenderAndSourceConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"render": { "refreshInterval": "100ms" },
		"source": { "path": "frames.jsonl" }
	}`)))

	assert.Equal(t, 100*time.Millisecond, GetRenderConfig().RefreshInterval)
	assert.Equal(t, "frames.jsonl", GetSourceConfig().Path)
}

func TestGetOTelConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
		want OTelConfig
	}{
		{
			name: "defaults",
			body: `{}`,
			want: OTelConfig{ServiceName: "airpen", BatchTimeout: 5 * time.Second, Insecure: true},
		},
		{
			name: "collector",
			body: `{"otel": {"enabled": true, "serviceName": "airpen-lab", "batchTimeout": "2s", "endpoint": "collector:4318", "insecure": false}}`,
			want: OTelConfig{Enabled: true, ServiceName: "airpen-lab", BatchTimeout: 2 * time.Second, Endpoint: "collector:4318"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			require.NoError(t, Load(writeConfig(t, tt.body)))
			assert.Equal(t, tt.want, GetOTelConfig())
		})
	}
}

func TestBindFlags(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := pflag.NewFlagSet("airpen", pflag.ContinueOnError)
	require.NoError(t, BindFlags(fs))
	require.NoError(t, fs.Parse([]string{"--log-level", "debug", "--source", "replay.jsonl", "--otel"}))

	dir := writeConfig(t, `{ "logLevel": "warn", "source": { "path": "other.jsonl" } }`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"), "flags win over the file")
	assert.Equal(t, "replay.jsonl", GetSourceConfig().Path)
	assert.True(t, GetOTelConfig().Enabled)
	assert.Equal(t, ".", viper.GetString("configDir"))
}

func TestBindFlags_UnsetFlagsKeepFileValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := pflag.NewFlagSet("airpen", pflag.ContinueOnError)
	require.NoError(t, BindFlags(fs))
	require.NoError(t, fs.Parse(nil))

	require.NoError(t, Load(writeConfig(t, `{ "logLevel": "warn" }`)))
	assert.Equal(t, "warn", viper.GetString("logLevel"))
	assert.False(t, GetOTelConfig().Enabled)
}
