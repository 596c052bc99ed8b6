package sample

import (
	"time"

	"github.com/itohio/powerkeeper/pkg/telemetry"
)

// Sample represents a processed reading with derived power values.
type Sample struct {
	Timestamp     time.Time
	Volts         int     // Nominal voltage (V)
	Irms          float64 // RMS current (A)
	ApparentPower float64 // S = V * Irms (VA)
	Energy        float64 // Apparent energy accumulated since the converter started (VAh)
}

// Converter is a function type that converts a Reading channel to a Sample channel.
type Converter func(in <-chan telemetry.Reading) <-chan Sample

// NewConverter creates a converter that derives apparent power and integrates
// it into energy. Output blocks when the consumer is slow.
func NewConverter(bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan telemetry.Reading) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			var acc energyAccumulator
			for r := range in {
				out <- acc.convert(r)
			}
		}()

		return out
	}
}

// energyAccumulator integrates apparent power over reading timestamps.
type energyAccumulator struct {
	last   time.Time
	power  float64
	energy float64
}

// convert derives the sample for r. Energy uses the power held since the
// previous reading (zero-order hold).
func (a *energyAccumulator) convert(r telemetry.Reading) Sample {
	if !a.last.IsZero() && r.Timestamp.After(a.last) {
		a.energy += a.power * r.Timestamp.Sub(a.last).Hours()
	}
	a.last = r.Timestamp
	a.power = apparentPower(r.Volts, r.Irms)

	return Sample{
		Timestamp:     r.Timestamp,
		Volts:         r.Volts,
		Irms:          r.Irms,
		ApparentPower: a.power,
		Energy:        a.energy,
	}
}

// apparentPower returns S = V * I in VA.
func apparentPower(volts int, irms float64) float64 {
	return float64(volts) * irms
}
