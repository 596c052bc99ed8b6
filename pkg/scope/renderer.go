package scope

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/powerkeeper/pkg/sample"
)

var (
	gridColor    = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	currentColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	powerColor   = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
)

// segmentColor returns the shading for a voltage region.
func segmentColor(volts int) color.RGBA {
	switch volts {
	case 110:
		return color.RGBA{R: 20, G: 60, B: 20, A: 90} // green
	case 220:
		return color.RGBA{R: 70, G: 60, B: 10, A: 90} // amber
	default:
		return color.RGBA{R: 70, G: 20, B: 20, A: 90} // red, OFF
	}
}

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// plotArea is the inner rectangle and axis ranges used for coordinate mapping.
type plotArea struct {
	x, y, w, h float32
	xMin, xMax time.Time
}

func (p plotArea) xOf(t time.Time) float32 {
	span := p.xMax.Sub(p.xMin).Seconds()
	if span <= 0 {
		return p.x
	}
	return p.x + float32(t.Sub(p.xMin).Seconds()/span)*p.w
}

func (p plotArea) yOf(v, vMin, vMax float64) float32 {
	if vMax <= vMin {
		return p.y + p.h
	}
	return p.y + p.h - float32((v-vMin)/(vMax-vMin))*p.h
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	// Plot objects use absolute positions, so a resize needs a redraw.
	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the canvas objects from the current data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	h := r.scope.hist
	display := h.display
	segments := h.segments
	iMin, iMax := h.iMin, h.iMax
	pMin, pMax := h.pMin, h.pMax
	area := plotArea{xMin: h.xMin, xMax: h.xMax}
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	marginLeft := float32(60.0)
	marginRight := float32(60.0)
	marginTop := float32(30.0)
	marginBottom := float32(40.0)

	area.x = marginLeft
	area.y = marginTop
	area.w = size.Width - marginLeft - marginRight
	area.h = size.Height - marginTop - marginBottom

	r.drawSegments(area, segments)
	r.drawGrid(area, iMin, iMax, pMin, pMax)

	if len(display) > 1 {
		r.drawTrace(area, display, iMin, iMax, currentColor, 1.5, func(s sample.Sample) float64 { return s.Irms })
		r.drawTrace(area, display, pMin, pMax, powerColor, 1.5, func(s sample.Sample) float64 { return s.ApparentPower })
	}
	if len(display) > 0 {
		r.drawLatest(area, display[len(display)-1])
	}
}

// drawSegments shades each constant-voltage region and labels it.
func (r *scopeRenderer) drawSegments(area plotArea, segments []Segment) {
	for _, seg := range segments {
		x0 := clamp(area.xOf(seg.Start), area.x, area.x+area.w)
		x1 := clamp(area.xOf(seg.End), area.x, area.x+area.w)
		if x1 <= x0 {
			x1 = x0 + 1
		}

		rect := canvas.NewRectangle(segmentColor(seg.Volts))
		rect.Move(fyne.NewPos(x0, area.y))
		rect.Resize(fyne.NewSize(x1-x0, area.h))
		r.objects = append(r.objects, rect)

		text := canvas.NewText(voltsLabel(seg.Volts), labelColor)
		text.TextSize = 10
		text.Move(fyne.NewPos(x0+3, area.y-14))
		r.objects = append(r.objects, text)
	}
}

// drawGrid draws the grid with current labels on the left and power labels on the right.
func (r *scopeRenderer) drawGrid(area plotArea, iMin, iMax, pMin, pMax float64) {
	numHLines := 8
	for i := 0; i < numHLines+1; i++ {
		y := area.y + float32(i)*area.h/float32(numHLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(area.x, y)
		line.Position2 = fyne.NewPos(area.x+area.w, y)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		frac := float64(i) / float64(numHLines)

		left := canvas.NewText(formatCurrent(iMax-frac*(iMax-iMin)), currentColor)
		left.TextSize = 10
		left.Alignment = fyne.TextAlignTrailing
		left.Move(fyne.NewPos(area.x-5, y-6))
		r.objects = append(r.objects, left)

		right := canvas.NewText(formatPower(pMax-frac*(pMax-pMin)), powerColor)
		right.TextSize = 10
		right.Alignment = fyne.TextAlignLeading
		right.Move(fyne.NewPos(area.x+area.w+5, y-6))
		r.objects = append(r.objects, right)
	}

	numVLines := 10
	span := area.xMax.Sub(area.xMin)
	for i := 0; i < numVLines+1; i++ {
		x := area.x + float32(i)*area.w/float32(numVLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, area.y)
		line.Position2 = fyne.NewPos(x, area.y+area.h)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		offset := span * time.Duration(i) / time.Duration(numVLines)
		text := canvas.NewText(formatTime(offset), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, area.y+area.h+5))
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws one value of the samples as connected line segments.
func (r *scopeRenderer) drawTrace(area plotArea, samples []sample.Sample, vMin, vMax float64, c color.Color, width float32, value func(sample.Sample) float64) {
	var prev fyne.Position
	for i, s := range samples {
		p := fyne.NewPos(area.xOf(s.Timestamp), area.yOf(value(s), vMin, vMax))
		if i > 0 {
			line := canvas.NewLine(c)
			line.Position1 = prev
			line.Position2 = p
			line.StrokeWidth = width
			r.objects = append(r.objects, line)
		}
		prev = p
	}
}

// drawLatest prints the most recent reading in the top-left corner of the plot.
func (r *scopeRenderer) drawLatest(area plotArea, s sample.Sample) {
	text := canvas.NewText(fmt.Sprintf("%s  %s  %s  %.3f VAh",
		voltsLabel(s.Volts), formatCurrent(s.Irms), formatPower(s.ApparentPower), s.Energy),
		color.RGBA{R: 200, G: 200, B: 200, A: 255})
	text.TextSize = 11
	text.Move(fyne.NewPos(area.x+10, area.y+10))
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func voltsLabel(volts int) string {
	if volts == 0 {
		return "OFF"
	}
	return fmt.Sprintf("%dV", volts)
}

func formatCurrent(a float64) string {
	return fmt.Sprintf("%.2fA", a)
}

func formatPower(va float64) string {
	if va >= 1000 {
		return fmt.Sprintf("%.2fkVA", va/1000)
	}
	return fmt.Sprintf("%.0fVA", va)
}

func formatTime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
