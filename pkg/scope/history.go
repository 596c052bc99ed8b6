package scope

import (
	"time"

	"github.com/itohio/powerkeeper/pkg/sample"
)

// Segment is a run of consecutive samples taken at the same nominal voltage.
type Segment struct {
	Volts int
	Start time.Time
	End   time.Time
}

// history is the plot data model: a time-windowed FIFO of samples plus the
// derived display slice, voltage segments and axis ranges.
type history struct {
	window    time.Duration
	maxPoints int

	samples  []sample.Sample // ordered oldest to newest
	display  []sample.Sample // downsampled samples (reused buffer)
	segments []Segment

	iMin, iMax float64 // current axis (A)
	pMin, pMax float64 // apparent power axis (VA)
	xMin, xMax time.Time
}

func newHistory(window time.Duration, maxPoints int) *history {
	if window <= 0 {
		window = 2 * time.Minute
	}
	if maxPoints < 2 {
		maxPoints = 2
	}
	h := &history{
		window:    window,
		maxPoints: maxPoints,
		display:   make([]sample.Sample, 0, maxPoints),
	}
	h.update()
	return h
}

// add appends s and drops samples older than the window, measured from s.
func (h *history) add(s sample.Sample) {
	h.samples = append(h.samples, s)

	cutoff := s.Timestamp.Add(-h.window)
	drop := 0
	for drop < len(h.samples) && h.samples[drop].Timestamp.Before(cutoff) {
		drop++
	}
	if drop > 0 {
		h.samples = append(h.samples[:0], h.samples[drop:]...)
	}

	h.update()
}

// update recomputes the display data from samples.
func (h *history) update() {
	h.display = sample.DownsampleSamples(h.display, h.samples, h.maxPoints)
	h.segments = voltageSegments(h.segments[:0], h.samples)
	h.autoScale()
}

// autoScale calculates axis ranges from the full sample window.
func (h *history) autoScale() {
	if len(h.samples) == 0 {
		h.iMin, h.iMax = 0, 1
		h.pMin, h.pMax = 0, 100
		h.xMin = time.Now()
		h.xMax = h.xMin.Add(h.window)
		return
	}

	// Both axes start at zero; current and power are never negative.
	h.iMin, h.iMax = 0, 0
	h.pMin, h.pMax = 0, 0
	for _, s := range h.samples {
		if s.Irms > h.iMax {
			h.iMax = s.Irms
		}
		if s.ApparentPower > h.pMax {
			h.pMax = s.ApparentPower
		}
	}
	h.iMax = withMargin(h.iMax, 1)
	h.pMax = withMargin(h.pMax, 100)

	h.xMin = h.samples[0].Timestamp
	h.xMax = h.samples[len(h.samples)-1].Timestamp
	if h.xMax.Sub(h.xMin) < h.window {
		h.xMax = h.xMin.Add(h.window)
	}
}

// withMargin adds 10% headroom, or returns fallback for an empty range.
func withMargin(peak, fallback float64) float64 {
	if peak <= 0 {
		return fallback
	}
	return peak * 1.1
}

// voltageSegments splits samples into runs of equal Volts. Each segment ends
// where the next one starts so shaded regions tile the plot without gaps.
func voltageSegments(dst []Segment, samples []sample.Sample) []Segment {
	for i, s := range samples {
		if i == 0 || s.Volts != dst[len(dst)-1].Volts {
			if len(dst) > 0 {
				dst[len(dst)-1].End = s.Timestamp
			}
			dst = append(dst, Segment{Volts: s.Volts, Start: s.Timestamp, End: s.Timestamp})
			continue
		}
		dst[len(dst)-1].End = s.Timestamp
	}
	return dst
}
