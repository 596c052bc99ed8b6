package ct

import (
	"math"

	"github.com/chewxy/math32"
)

// Sine is a simulated CT front end. It produces a sinusoid around mid-scale
// whose RMS, read back through a Sensor with the same Config, equals the
// requested current.
type Sine struct {
	cfg      Config
	period   int // samples per cycle
	step     int
	peak     float32 // amplitude in ADC counts
	midScale float32
	fullMax  float32
}

// NewSine creates a simulator with the given samples per cycle.
func NewSine(cfg Config, period int) *Sine {
	if period < 3 {
		period = 3
	}
	s := New(nil, cfg)
	return &Sine{
		cfg:      s.cfg,
		period:   period,
		midScale: s.counts / 2,
		fullMax:  s.counts - 1,
	}
}

// SetIrms sets the simulated RMS current in amperes.
func (s *Sine) SetIrms(irms float64) {
	countsPerAmp := (float32(uint32(1)<<s.cfg.Resolution) / (s.cfg.SupplyMillivolts / 1000)) / s.cfg.Calibration
	s.peak = float32(irms) * countsPerAmp * math.Sqrt2
}

// Get returns the next sample, left-aligned to 16 bits.
func (s *Sine) Get() uint16 {
	phase := 2 * math.Pi * float32(s.step) / float32(s.period)
	s.step = (s.step + 1) % s.period

	v := s.midScale + s.peak*math32.Sin(phase)
	if v < 0 {
		v = 0
	} else if v > s.fullMax {
		v = s.fullMax
	}
	return uint16(v+0.5) << (16 - s.cfg.Resolution)
}
