package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMock_GracefulShutdown tests that Mock device closes its channels
// when Close() is called.
func TestMock_GracefulShutdown(t *testing.T) {
	mock := NewMock(fastConfig(), nil)
	err := mock.Connect()
	assert.NoError(t, err)

	readings := mock.Readings()

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range readings {
			received++
			if received == 3 {
				mock.Close()
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Readings channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3, "Should receive readings before channel closes")

	_, ok := <-readings
	assert.False(t, ok, "Channel should be closed")

	_, ok = <-mock.Events()
	assert.False(t, ok, "Channel should be closed")

	assert.False(t, mock.IsConnected())
	assert.NoError(t, mock.Close())
	assert.Error(t, mock.Connect())
}
