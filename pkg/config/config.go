package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the host monitor configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Log         LogConfig         `yaml:"log"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Keeper      KeeperConfig      `yaml:"keeper"`
	Sensor      SensorConfig      `yaml:"sensor"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MeasurementConfig contains host-side processing parameters.
type MeasurementConfig struct {
	AverageSamples int     `yaml:"average_samples"` // Number of readings to average (0 = disabled, default)
	WindowSeconds  float64 `yaml:"window_seconds"`  // Time span shown by the GUI plot
}

// KeeperConfig mirrors the device loop parameters. The mock device runs with them.
type KeeperConfig struct {
	SampleInterval time.Duration `yaml:"sample_interval"`
	Samples        int           `yaml:"samples"`
	NoiseFloor     float64       `yaml:"noise_floor"` // A
	OffLEDHold     time.Duration `yaml:"off_led_hold"`
	Debounce       time.Duration `yaml:"debounce"`
}

// SensorConfig contains CT sensor calibration.
type SensorConfig struct {
	Calibration      float64 `yaml:"calibration"`       // ICAL
	SupplyMillivolts float64 `yaml:"supply_millivolts"` // ADC reference (mV)
	Resolution       int     `yaml:"resolution"`        // ADC bits
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Irms         float64       `yaml:"irms"`          // Simulated load current (A)
	ButtonPeriod time.Duration `yaml:"button_period"` // Time between simulated button presses (0 = never)
	PollInterval time.Duration `yaml:"poll_interval"` // Loop iteration period
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyUSB0",
			BaudRate: 115200,
		},
		Log: LogConfig{
			Level: "info",
		},
		Measurement: MeasurementConfig{
			AverageSamples: 0, // No averaging by default
			WindowSeconds:  120,
		},
		Keeper: KeeperConfig{
			SampleInterval: time.Second,
			Samples:        2048,
			NoiseFloor:     0.16,
			OffLEDHold:     10 * time.Second,
			Debounce:       300 * time.Millisecond,
		},
		Sensor: SensorConfig{
			Calibration:      1.45,
			SupplyMillivolts: 3300,
			Resolution:       12,
		},
		Mock: MockConfig{
			Irms:         0.8,
			ButtonPeriod: 0,
			PollInterval: 10 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	if c.Measurement.WindowSeconds == 0 {
		c.Measurement.WindowSeconds = def.Measurement.WindowSeconds
	}

	if c.Keeper.SampleInterval == 0 {
		c.Keeper.SampleInterval = def.Keeper.SampleInterval
	}
	if c.Keeper.Samples == 0 {
		c.Keeper.Samples = def.Keeper.Samples
	}
	if c.Keeper.OffLEDHold == 0 {
		c.Keeper.OffLEDHold = def.Keeper.OffLEDHold
	}

	if c.Sensor.Calibration == 0 {
		c.Sensor.Calibration = def.Sensor.Calibration
	}
	if c.Sensor.SupplyMillivolts == 0 {
		c.Sensor.SupplyMillivolts = def.Sensor.SupplyMillivolts
	}
	if c.Sensor.Resolution == 0 {
		c.Sensor.Resolution = def.Sensor.Resolution
	}

	if c.Mock.PollInterval == 0 {
		c.Mock.PollInterval = def.Mock.PollInterval
	}
}
