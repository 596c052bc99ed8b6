package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/powerkeeper/pkg/config"
	"github.com/itohio/powerkeeper/pkg/device"
	"github.com/itohio/powerkeeper/pkg/logger"
	"github.com/itohio/powerkeeper/pkg/sample"
	"github.com/itohio/powerkeeper/pkg/scope"
)

// scopeUpdateInterval throttles plot refreshes to ~60 FPS.
const scopeUpdateInterval = 16 * time.Millisecond

// runGUI plots the device samples in a window. The device is read-only here:
// the window has no controls and closing it closes the device.
func runGUI(cfg *config.Config, dev device.Device, mock bool, log *logger.Logger) {
	application := app.NewWithID("com.itohio.powerkeeper")

	window := application.NewWindow("PowerKeeper Monitor")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	scopeWidget := scope.New(cfg)
	status := widget.NewLabel(connectionLabel(cfg, mock))
	lastEvent := widget.NewLabel("")

	window.SetContent(container.NewBorder(
		container.NewHBox(status, lastEvent),
		nil,
		nil,
		nil,
		scopeWidget,
	))

	samples := newConverter(cfg)(dev.Readings())

	go func() {
		for line := range dev.Events() {
			log.Infow("device", "event", line)
			fyne.Do(func() { lastEvent.SetText(line) })
		}
	}()

	go func() {
		pending := make([]sample.Sample, 0, 16)
		var lastUpdate time.Time
		for s := range samples {
			pending = append(pending, s)
			if time.Since(lastUpdate) < scopeUpdateInterval {
				continue
			}
			lastUpdate = time.Now()

			flushSamples(scopeWidget, pending)
			pending = make([]sample.Sample, 0, 16)
		}
		if len(pending) > 0 {
			flushSamples(scopeWidget, pending)
		}
	}()

	window.SetOnClosed(func() {
		if err := dev.Close(); err != nil {
			log.Warnw("error closing device", "error", err)
		}
	})

	window.ShowAndRun()
}

// flushSamples hands a batch to the plot on the main thread.
func flushSamples(scopeWidget *scope.ScopeWidget, batch []sample.Sample) {
	fyne.Do(func() {
		for _, s := range batch {
			scopeWidget.Add(s)
		}
	})
}

func connectionLabel(cfg *config.Config, mock bool) string {
	if mock {
		return "Simulated device"
	}
	return fmt.Sprintf("Serial: %s @ %d", cfg.Serial.Port, cfg.Serial.BaudRate)
}
