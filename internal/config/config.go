package config

import (
	"fmt"
	"time"

	"github.com/airpen/airpen/internal/tracker"
	"github.com/airpen/airpen/pkg/core"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "airpen.cfg.json"

// CameraConfig holds the camera home position.
type CameraConfig struct {
	Default core.Vector `json:"default" mapstructure:"default"`
}

// RenderConfig holds render loop settings.
type RenderConfig struct {
	RefreshInterval time.Duration `json:"refreshInterval" mapstructure:"refreshInterval"`
}

// SourceConfig holds frame source settings. An empty path means stdin.
type SourceConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./airpenlogs")

	viper.SetDefault("tracker.primingSamples", 10)
	viper.SetDefault("tracker.primingRadius", 10.0)
	viper.SetDefault("tracker.primingInterval", "30ms")
	viper.SetDefault("tracker.invalidInterval", "100ms")
	viper.SetDefault("tracker.decimation", 1.0)
	viper.SetDefault("tracker.minStrokePoints", 3)
	viper.SetDefault("tracker.primaryIndex", 1)

	viper.SetDefault("rotation.openHandFingers", 3)
	viper.SetDefault("rotation.deadZone", 0.3)
	viper.SetDefault("rotation.angleDivisor", 200.0)
	viper.SetDefault("rotation.depthGain", 6.0)

	viper.SetDefault("camera.default.x", 0.0)
	viper.SetDefault("camera.default.y", 300.0)
	viper.SetDefault("camera.default.z", 600.0)

	viper.SetDefault("render.refreshInterval", "33ms")

	viper.SetDefault("source.path", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "airpen")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Defaults stay in
// effect when the file cannot be read.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// BindFlags registers command line overrides and binds them into viper.
func BindFlags(fs *pflag.FlagSet) error {
	fs.String("config-dir", ".", "directory containing "+FileName)
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("source", "", "frame file to replay, - or empty for stdin")
	fs.Bool("otel", false, "enable OpenTelemetry logs and metrics")

	binds := map[string]string{
		"configDir":    "config-dir",
		"logLevel":     "log-level",
		"source.path":  "source",
		"otel.enabled": "otel",
	}
	for key, name := range binds {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetCameraConfig returns the camera home position.
func GetCameraConfig() CameraConfig {
	return CameraConfig{
		Default: core.Vector{
			X: viper.GetFloat64("camera.default.x"),
			Y: viper.GetFloat64("camera.default.y"),
			Z: viper.GetFloat64("camera.default.z"),
		},
	}
}

// GetTrackerConfig returns the gesture thresholds.
func GetTrackerConfig() tracker.Config {
	return tracker.Config{
		PrimingSamples:  viper.GetInt("tracker.primingSamples"),
		PrimingRadius:   viper.GetFloat64("tracker.primingRadius"),
		PrimingInterval: viper.GetDuration("tracker.primingInterval"),
		InvalidInterval: viper.GetDuration("tracker.invalidInterval"),
		Decimation:      viper.GetFloat64("tracker.decimation"),
		MinStrokePoints: viper.GetInt("tracker.minStrokePoints"),
		PrimaryIndex:    viper.GetInt("tracker.primaryIndex"),

		OpenHandFingers: viper.GetInt("rotation.openHandFingers"),
		DeadZone:        viper.GetFloat64("rotation.deadZone"),
		AngleDivisor:    viper.GetFloat64("rotation.angleDivisor"),
		DepthGain:       viper.GetFloat64("rotation.depthGain"),

		CameraDefault: GetCameraConfig().Default,
	}
}

// GetRenderConfig returns render loop settings.
func GetRenderConfig() RenderConfig {
	return RenderConfig{
		RefreshInterval: viper.GetDuration("render.refreshInterval"),
	}
}

// GetSourceConfig returns frame source settings.
func GetSourceConfig() SourceConfig {
	return SourceConfig{
		Path: viper.GetString("source.path"),
	}
}

// GetOTelConfig returns OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
