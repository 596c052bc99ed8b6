// Package telemetry formats and parses the PowerKeeper console telemetry lines.
package telemetry

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrNotTelemetry is returned by Parse for console lines that carry no reading
// (button events, Wi-Fi progress and similar).
var ErrNotTelemetry = errors.New("not a telemetry line")

const (
	voltagePrefix = "Voltage:"
	currentMarker = "Current (Irms):"
)

// Reading is a single periodic measurement printed by the device.
type Reading struct {
	Timestamp time.Time // Host receive time (zero when parsed offline)
	Volts     int       // Nominal voltage of the selected mode (110, 220 or 0)
	Irms      float64   // RMS current (A)
}

// Format writes one telemetry line.
// Format: "Voltage: <volts> V | Current (Irms): <amps> A\n"
// Example: "Voltage: 220 V | Current (Irms): 1.234 A\n"
func Format(w io.Writer, volts int, irms float64) error {
	_, err := fmt.Fprintf(w, "%s %d V | %s %.3f A\n", voltagePrefix, volts, currentMarker, irms)
	return err
}

// Parse parses a telemetry line produced by Format.
func Parse(line string) (Reading, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, voltagePrefix) {
		return Reading{}, ErrNotTelemetry
	}

	parts := strings.Split(line, "|")
	if len(parts) != 2 {
		return Reading{}, fmt.Errorf("invalid line format: expected 2 '|'-separated fields, got %d", len(parts))
	}

	voltsStr := strings.TrimSpace(strings.TrimPrefix(parts[0], voltagePrefix))
	voltsStr = strings.TrimSpace(strings.TrimSuffix(voltsStr, "V"))
	volts, err := strconv.Atoi(voltsStr)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid voltage: %w", err)
	}
	if volts < 0 {
		return Reading{}, fmt.Errorf("voltage out of range: %d", volts)
	}

	current := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(current, currentMarker) {
		return Reading{}, fmt.Errorf("invalid current field: %q", current)
	}
	current = strings.TrimSpace(strings.TrimPrefix(current, currentMarker))
	current = strings.TrimSpace(strings.TrimSuffix(current, "A"))
	irms, err := strconv.ParseFloat(current, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("invalid current: %w", err)
	}
	if irms < 0 {
		return Reading{}, fmt.Errorf("current out of range: %f", irms)
	}

	return Reading{Volts: volts, Irms: irms}, nil
}
