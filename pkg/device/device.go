package device

import (
	"context"
	"fmt"
	"sync"

	"go.bug.st/serial"

	"github.com/itohio/powerkeeper/pkg/logger"
	"github.com/itohio/powerkeeper/pkg/telemetry"
)

const (
	// DefaultBaudRate is the console baud rate of the firmware.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the readings and events channel buffers.
	DefaultBufferSize = 100
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the device console.
type Serial struct {
	port     string
	baudRate int
	log      *logger.Logger

	conn      serial.Port
	console   *console
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int, log *logger.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		log:      log,
		console:  newConsole(bufSize, log),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading the console.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}
	if d.ctx.Err() != nil {
		return fmt.Errorf("device closed")
	}

	port, err := serial.Open(d.port, &serial.Mode{
		BaudRate: d.baudRate,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.log.Infow("serial port opened", "port", d.port, "baud", d.baudRate)

	go d.console.run(d.ctx, port)

	return nil
}

// Close closes the port. The readings and events channels are closed once
// the reader goroutine exits.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			d.log.Warnw("error closing serial port", "error", err)
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// Readings returns the channel of parsed telemetry.
func (d *Serial) Readings() <-chan telemetry.Reading {
	return d.console.readings
}

// Events returns the channel of non-telemetry console lines.
func (d *Serial) Events() <-chan string {
	return d.console.events
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}
