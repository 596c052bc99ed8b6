package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Measurement.AverageSamples)
	assert.Equal(t, float64(120), cfg.Measurement.WindowSeconds)
	assert.Equal(t, time.Second, cfg.Keeper.SampleInterval)
	assert.Equal(t, 2048, cfg.Keeper.Samples)
	assert.Equal(t, 0.16, cfg.Keeper.NoiseFloor)
	assert.Equal(t, 10*time.Second, cfg.Keeper.OffLEDHold)
	assert.Equal(t, 300*time.Millisecond, cfg.Keeper.Debounce)
	assert.Equal(t, 1.45, cfg.Sensor.Calibration)
	assert.Equal(t, float64(3300), cfg.Sensor.SupplyMillivolts)
	assert.Equal(t, 12, cfg.Sensor.Resolution)
	assert.Equal(t, 10*time.Millisecond, cfg.Mock.PollInterval)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"
  baud_rate: 9600

log:
  level: debug

measurement:
  average_samples: 5
  window_seconds: 30

keeper:
  sample_interval: 500ms
  samples: 1024
  noise_floor: 0.2
  off_led_hold: 5s
  debounce: 100ms

sensor:
  calibration: 30
  supply_millivolts: 5000
  resolution: 10

mock:
  irms: 1.2
  button_period: 3s
  poll_interval: 5ms
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Measurement.AverageSamples)
	assert.Equal(t, float64(30), cfg.Measurement.WindowSeconds)
	assert.Equal(t, 500*time.Millisecond, cfg.Keeper.SampleInterval)
	assert.Equal(t, 1024, cfg.Keeper.Samples)
	assert.Equal(t, 0.2, cfg.Keeper.NoiseFloor)
	assert.Equal(t, 5*time.Second, cfg.Keeper.OffLEDHold)
	assert.Equal(t, 100*time.Millisecond, cfg.Keeper.Debounce)
	assert.Equal(t, float64(30), cfg.Sensor.Calibration)
	assert.Equal(t, float64(5000), cfg.Sensor.SupplyMillivolts)
	assert.Equal(t, 10, cfg.Sensor.Resolution)
	assert.Equal(t, 1.2, cfg.Mock.Irms)
	assert.Equal(t, 3*time.Second, cfg.Mock.ButtonPeriod)
	assert.Equal(t, 5*time.Millisecond, cfg.Mock.PollInterval)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"
keeper:
  samples: 0
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)  // default
	assert.Equal(t, 2048, cfg.Keeper.Samples)     // default
	assert.Equal(t, 1.45, cfg.Sensor.Calibration) // default
	assert.Equal(t, float64(120), cfg.Measurement.WindowSeconds)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyACM1"
	cfg.Measurement.AverageSamples = 8
	cfg.Mock.ButtonPeriod = 2 * time.Second

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM1", loaded.Serial.Port)
	assert.Equal(t, 8, loaded.Measurement.AverageSamples)
	assert.Equal(t, 2*time.Second, loaded.Mock.ButtonPeriod)
}
