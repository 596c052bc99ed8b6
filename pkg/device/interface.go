package device

import "github.com/itohio/powerkeeper/pkg/telemetry"

// Device defines the interface for PowerKeeper consoles (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Readings() <-chan telemetry.Reading
	Events() <-chan string
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
