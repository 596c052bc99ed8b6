package sample

import (
	"github.com/itohio/powerkeeper/pkg/telemetry"
)

// NewAveragingConverter creates a converter that averages the current over the
// last windowSize readings taken at the same nominal voltage. A voltage change
// restarts the window.
func NewAveragingConverter(windowSize int, bufSize int) Converter {
	if windowSize <= 0 {
		windowSize = 1 // No averaging if invalid
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan telemetry.Reading) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			var (
				buffer []telemetry.Reading
				acc    energyAccumulator
			)
			for r := range in {
				if len(buffer) > 0 && buffer[len(buffer)-1].Volts != r.Volts {
					buffer = buffer[:0]
				}
				buffer = append(buffer, r)
				if len(buffer) > windowSize {
					buffer = buffer[1:] // Remove oldest
				}

				out <- acc.convert(averageReadings(buffer))
			}
		}()

		return out
	}
}

// averageReadings averages the current of a slice of readings.
// Uses the most recent reading's timestamp and voltage.
func averageReadings(readings []telemetry.Reading) telemetry.Reading {
	if len(readings) == 0 {
		return telemetry.Reading{}
	}

	var sum float64
	for _, r := range readings {
		sum += r.Irms
	}

	last := readings[len(readings)-1]
	return telemetry.Reading{
		Timestamp: last.Timestamp,
		Volts:     last.Volts,
		Irms:      sum / float64(len(readings)),
	}
}
