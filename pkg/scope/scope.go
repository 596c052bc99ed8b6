package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/powerkeeper/pkg/config"
	"github.com/itohio/powerkeeper/pkg/sample"
)

// DefaultDisplayPoints limits the points drawn per trace.
const DefaultDisplayPoints = 1000

// ScopeWidget is a custom Fyne widget that plots RMS current and apparent power
// over a sliding time window, shading the regions of each selected voltage.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu   sync.RWMutex
	hist *history
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	window := time.Duration(cfg.Measurement.WindowSeconds * float64(time.Second))
	s := &ScopeWidget{
		cfg:  cfg,
		hist: newHistory(window, DefaultDisplayPoints),
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// Add appends a sample to the plot.
// This should be called on the main thread using fyne.Do().
func (s *ScopeWidget) Add(smp sample.Sample) {
	s.mu.Lock()
	s.hist.add(smp)
	s.mu.Unlock()

	// Refresh outside the lock; the renderer takes a read lock.
	s.Refresh()
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
