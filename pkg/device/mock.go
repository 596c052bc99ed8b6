package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/itohio/powerkeeper/pkg/config"
	"github.com/itohio/powerkeeper/pkg/ct"
	"github.com/itohio/powerkeeper/pkg/keeper"
	"github.com/itohio/powerkeeper/pkg/logger"
	"github.com/itohio/powerkeeper/pkg/telemetry"
)

// Mock simulates a PowerKeeper board. It runs the real control loop against
// a simulated button, LEDs and CT sensor and feeds its console output back
// through the same line parser as Serial.
type Mock struct {
	cfg *config.Config
	log *logger.Logger

	console   *console
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	pr        *io.PipeReader
	pw        *io.PipeWriter
	connected bool

	// Simulated hardware, guarded by mu
	keeper         *keeper.Keeper
	button         mockPin
	leds           [3]mockPin
	sine           *ct.Sine
	pendingPresses int
	lastPress      time.Time
}

// mockPin is a simulated GPIO pin.
type mockPin struct {
	level bool
}

func (p *mockPin) Get() bool      { return p.level }
func (p *mockPin) Set(value bool) { p.level = value }

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.Config, log *logger.Logger) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:     cfg,
		log:     log,
		console: newConsole(DefaultBufferSize, log),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// KeeperConfig converts the configured loop parameters.
func KeeperConfig(cfg *config.KeeperConfig) keeper.Config {
	return keeper.Config{
		SampleInterval: cfg.SampleInterval,
		Samples:        cfg.Samples,
		NoiseFloor:     cfg.NoiseFloor,
		OffLEDHold:     cfg.OffLEDHold,
		Debounce:       cfg.Debounce,
	}
}

// SensorConfig converts the configured CT calibration.
func SensorConfig(cfg *config.SensorConfig) ct.Config {
	return ct.Config{
		Calibration:      float32(cfg.Calibration),
		SupplyMillivolts: float32(cfg.SupplyMillivolts),
		Resolution:       uint8(cfg.Resolution),
	}
}

// Connect starts the simulated board.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}
	if m.ctx.Err() != nil {
		return fmt.Errorf("device closed")
	}

	sensorCfg := SensorConfig(&m.cfg.Sensor)
	m.sine = ct.NewSine(sensorCfg, 64)
	m.sine.SetIrms(m.cfg.Mock.Irms)
	m.button.level = true

	pr, pw := io.Pipe()
	m.pr, m.pw = pr, pw
	m.keeper = keeper.New(KeeperConfig(&m.cfg.Keeper), keeper.Hardware{
		Button: &m.button,
		LED110: &m.leds[0],
		LED220: &m.leds[1],
		LEDOff: &m.leds[2],
		Sensor: ct.New(m.sine, sensorCfg),
	}, pw)

	now := time.Now()
	m.lastPress = now
	m.connected = true

	go m.console.run(m.ctx, pr)
	go m.runLoop(now)

	return nil
}

// Close stops the simulated board. The readings and events channels are
// closed once the console reader drains.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.connected = false
	m.mu.Unlock()

	// Unblocks a loop iteration stuck writing to a reader that already quit.
	err := m.pw.Close()
	<-m.done
	m.pr.Close()
	return err
}

// Readings returns the channel of parsed telemetry.
func (m *Mock) Readings() <-chan telemetry.Reading {
	return m.console.readings
}

// Events returns the channel of non-telemetry console lines.
func (m *Mock) Events() <-chan string {
	return m.console.events
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Press simulates one push of the mode button. Pushes made faster than the
// loop polls are queued and replayed one per press/release cycle.
func (m *Mock) Press() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingPresses++
}

// SetLoad changes the simulated load current (A).
func (m *Mock) SetLoad(irms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sine != nil {
		m.sine.SetIrms(irms)
	}
}

// State returns the simulated board state and LED levels (110, 220, OFF).
func (m *Mock) State() (keeper.State, [3]bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keeper == nil {
		return keeper.State{}, [3]bool{}
	}
	return m.keeper.State(), [3]bool{m.leds[0].level, m.leds[1].level, m.leds[2].level}
}

// runLoop drives the control loop until the context is cancelled.
func (m *Mock) runLoop(start time.Time) {
	defer close(m.done)

	m.mu.Lock()
	m.keeper.Start(start)
	m.mu.Unlock()

	ticker := time.NewTicker(m.cfg.Mock.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.poll(now)
		}
	}
}

// poll runs one loop iteration. The button is held low for one iteration per press.
func (m *Mock) poll(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if period := m.cfg.Mock.ButtonPeriod; period > 0 && now.Sub(m.lastPress) >= period {
		m.pendingPresses++
		m.lastPress = now
	}

	if !m.button.level {
		m.button.level = true
	} else if m.pendingPresses > 0 {
		m.button.level = false
		m.pendingPresses--
	}

	m.keeper.Poll(now)
}
