// Package ct computes RMS current from a current-transformer sensor sampled
// through an ADC.
//
// The sensor output is biased to mid-scale. The bias is tracked with a slow
// digital low-pass filter and removed from every sample before squaring, so
// the filter state carries over between calls.
package ct

import (
	"github.com/chewxy/math32"
)

const (
	// DefaultCalibration is the current calibration factor (ICAL) for an
	// SCT-013 with its burden resistor.
	DefaultCalibration = 1.45
	// DefaultSupplyMillivolts is the ADC reference voltage in millivolts.
	DefaultSupplyMillivolts = 3300
	// DefaultResolution is the ADC resolution in bits.
	DefaultResolution = 12
	// DefaultSamples is the number of ADC samples per RMS calculation.
	DefaultSamples = 2048

	// offsetFilterDiv sets the low-pass filter constant for bias tracking.
	offsetFilterDiv = 1024
)

// ADC is a source of raw readings. Values are left-aligned to 16 bits, the
// way machine.ADC.Get returns them.
type ADC interface {
	Get() uint16
}

// Config contains CT sensor parameters.
type Config struct {
	Calibration      float32 // ICAL
	SupplyMillivolts float32 // ADC reference (mV)
	Resolution       uint8   // ADC resolution in bits (1-16)
}

// DefaultConfig returns the configuration for a 12-bit 3.3V ADC.
func DefaultConfig() Config {
	return Config{
		Calibration:      DefaultCalibration,
		SupplyMillivolts: DefaultSupplyMillivolts,
		Resolution:       DefaultResolution,
	}
}

// Sensor measures RMS current.
type Sensor struct {
	adc    ADC
	cfg    Config
	counts float32 // full scale in ADC counts
	offset float32 // tracked bias in ADC counts
}

// New creates a Sensor reading from adc. Zero config fields take defaults.
func New(adc ADC, cfg Config) *Sensor {
	def := DefaultConfig()
	if cfg.Calibration == 0 {
		cfg.Calibration = def.Calibration
	}
	if cfg.SupplyMillivolts == 0 {
		cfg.SupplyMillivolts = def.SupplyMillivolts
	}
	if cfg.Resolution == 0 || cfg.Resolution > 16 {
		cfg.Resolution = def.Resolution
	}

	counts := float32(uint32(1) << cfg.Resolution)
	return &Sensor{
		adc:    adc,
		cfg:    cfg,
		counts: counts,
		offset: counts / 2,
	}
}

// Irms samples the ADC n times and returns the RMS current in amperes.
func (s *Sensor) Irms(n int) float64 {
	if n <= 0 {
		return 0
	}

	shift := 16 - s.cfg.Resolution
	var sum float32
	for i := 0; i < n; i++ {
		sample := float32(s.adc.Get() >> shift)

		s.offset += (sample - s.offset) / offsetFilterDiv
		filtered := sample - s.offset
		sum += filtered * filtered
	}

	ratio := s.cfg.Calibration * ((s.cfg.SupplyMillivolts / 1000) / s.counts)
	return float64(ratio * math32.Sqrt(sum/float32(n)))
}

// Offset returns the currently tracked bias in ADC counts.
func (s *Sensor) Offset() float32 {
	return s.offset
}
