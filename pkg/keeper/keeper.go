// Package keeper implements the PowerKeeper control loop: push-button voltage
// mode cycling, indicator LEDs with a timed OFF indicator, and periodic RMS
// current telemetry.
//
// The loop is hardware independent. Firmware binds it to machine pins and an
// ADC; tests and the mock device bind it to fakes.
package keeper

import (
	"fmt"
	"io"
	"time"

	"github.com/itohio/powerkeeper/pkg/telemetry"
)

const (
	// DefaultSampleInterval is the period between telemetry lines.
	DefaultSampleInterval = time.Second
	// DefaultSamples is the number of ADC samples per RMS calculation.
	DefaultSamples = 2048
	// DefaultNoiseFloor is the RMS current (A) below which readings are reported as zero.
	DefaultNoiseFloor = 0.16
	// DefaultOffLEDHold is how long the OFF indicator stays lit after entering OFF.
	DefaultOffLEDHold = 10 * time.Second
	// DefaultDebounce is the lockout after an accepted button press.
	DefaultDebounce = 300 * time.Millisecond
)

// Input is a digital input. machine.Pin satisfies it.
type Input interface {
	Get() bool
}

// Output is a digital output. machine.Pin satisfies it.
type Output interface {
	Set(value bool)
}

// Sensor returns RMS current computed over n ADC samples.
type Sensor interface {
	Irms(n int) float64
}

// Hardware groups the peripherals driven by the loop.
type Hardware struct {
	Button Input // active low, pulled up
	LED110 Output
	LED220 Output
	LEDOff Output
	Sensor Sensor
}

// Config contains loop timing and filtering parameters.
type Config struct {
	SampleInterval time.Duration
	Samples        int
	NoiseFloor     float64
	OffLEDHold     time.Duration
	Debounce       time.Duration
}

// DefaultConfig returns the stock loop parameters.
func DefaultConfig() Config {
	return Config{
		SampleInterval: DefaultSampleInterval,
		Samples:        DefaultSamples,
		NoiseFloor:     DefaultNoiseFloor,
		OffLEDHold:     DefaultOffLEDHold,
		Debounce:       DefaultDebounce,
	}
}

// State is the device state mutated by Poll.
type State struct {
	Mode            Mode
	LastButtonLevel bool      // true = released
	LastSample      time.Time // time of the last telemetry sample
	OffLEDDeadline  time.Time // zero when the OFF indicator is not timed
	LastIrms        float64   // last reported RMS current (A)
}

// Keeper runs the polling loop.
type Keeper struct {
	cfg   Config
	hw    Hardware
	out   io.Writer
	state State

	lockoutUntil time.Time
}

// New creates a Keeper. Zero config fields take defaults.
func New(cfg Config, hw Hardware, out io.Writer) *Keeper {
	def := DefaultConfig()
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = def.SampleInterval
	}
	if cfg.Samples <= 0 {
		cfg.Samples = def.Samples
	}
	if cfg.NoiseFloor < 0 {
		cfg.NoiseFloor = 0
	}
	if cfg.OffLEDHold <= 0 {
		cfg.OffLEDHold = def.OffLEDHold
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if out == nil {
		out = io.Discard
	}

	return &Keeper{
		cfg: cfg,
		hw:  hw,
		out: out,
		state: State{
			Mode:            Mode110,
			LastButtonLevel: true,
		},
	}
}

// Start renders the initial LED state and starts the sampling clock.
func (k *Keeper) Start(now time.Time) {
	k.state.LastSample = now
	k.renderLEDs()
}

// State returns a copy of the current state.
func (k *Keeper) State() State {
	return k.state
}

// Poll runs one loop iteration at time now.
func (k *Keeper) Poll(now time.Time) {
	k.pollButton(now)
	k.expireOffLED(now)
	k.sample(now)
}

// pollButton advances the mode on a released-to-pressed edge.
func (k *Keeper) pollButton(now time.Time) {
	level := k.hw.Button.Get()
	pressed := k.state.LastButtonLevel && !level
	k.state.LastButtonLevel = level

	if !pressed || now.Before(k.lockoutUntil) {
		return
	}
	k.lockoutUntil = now.Add(k.cfg.Debounce)

	k.state.Mode = k.state.Mode.Next()
	k.renderLEDs()
	fmt.Fprintf(k.out, "Button pressed. New voltage: %d V\n", k.state.Mode.Volts())

	if k.state.Mode == ModeOff {
		k.state.OffLEDDeadline = now.Add(k.cfg.OffLEDHold)
		fmt.Fprintf(k.out, "OFF LED on, stays lit for %s\n", k.cfg.OffLEDHold)
	} else {
		k.state.OffLEDDeadline = time.Time{}
	}
}

// expireOffLED turns the OFF indicator off once its hold time has passed.
func (k *Keeper) expireOffLED(now time.Time) {
	if k.state.OffLEDDeadline.IsZero() || now.Before(k.state.OffLEDDeadline) {
		return
	}
	k.hw.LEDOff.Set(false)
	k.state.OffLEDDeadline = time.Time{}
	fmt.Fprintf(k.out, "OFF LED extinguished after %s\n", k.cfg.OffLEDHold)
}

// sample reads the sensor and prints telemetry once per interval.
func (k *Keeper) sample(now time.Time) {
	if now.Sub(k.state.LastSample) < k.cfg.SampleInterval {
		return
	}
	k.state.LastSample = now

	irms := k.hw.Sensor.Irms(k.cfg.Samples)
	if irms < k.cfg.NoiseFloor {
		irms = 0
	}
	k.state.LastIrms = irms

	telemetry.Format(k.out, k.state.Mode.Volts(), irms)
}

// renderLEDs lights exactly the indicator of the current mode.
func (k *Keeper) renderLEDs() {
	k.hw.LED220.Set(false)
	k.hw.LED110.Set(false)
	k.hw.LEDOff.Set(false)

	switch k.state.Mode {
	case Mode110:
		k.hw.LED110.Set(true)
	case Mode220:
		k.hw.LED220.Set(true)
	case ModeOff:
		k.hw.LEDOff.Set(true)
	}
}
