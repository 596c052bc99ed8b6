package scope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlotArea_Mapping(t *testing.T) {
	t0 := time.Unix(1000, 0)
	p := plotArea{x: 10, y: 20, w: 100, h: 50, xMin: t0, xMax: t0.Add(10 * time.Second)}

	assert.Equal(t, float32(10), p.xOf(t0))
	assert.Equal(t, float32(60), p.xOf(t0.Add(5*time.Second)))
	assert.Equal(t, float32(110), p.xOf(t0.Add(10*time.Second)))

	assert.Equal(t, float32(70), p.yOf(0, 0, 2))
	assert.Equal(t, float32(20), p.yOf(2, 0, 2))
	assert.Equal(t, float32(45), p.yOf(1, 0, 2))

	// Degenerate ranges map to the plot origin.
	flat := plotArea{x: 10, y: 20, w: 100, h: 50, xMin: t0, xMax: t0}
	assert.Equal(t, float32(10), flat.xOf(t0.Add(time.Second)))
	assert.Equal(t, float32(70), p.yOf(1, 1, 1))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "110V", voltsLabel(110))
	assert.Equal(t, "220V", voltsLabel(220))
	assert.Equal(t, "OFF", voltsLabel(0))

	assert.Equal(t, "1.25A", formatCurrent(1.25))
	assert.Equal(t, "275VA", formatPower(275))
	assert.Equal(t, "2.50kVA", formatPower(2500))

	assert.Equal(t, "30s", formatTime(30*time.Second))
	assert.Equal(t, "1.5m", formatTime(90*time.Second))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), clamp(-5, 0, 10))
	assert.Equal(t, float32(10), clamp(15, 0, 10))
	assert.Equal(t, float32(3), clamp(3, 0, 10))
}

func TestSegmentColor(t *testing.T) {
	assert.NotEqual(t, segmentColor(110), segmentColor(220))
	assert.NotEqual(t, segmentColor(220), segmentColor(0))
}
