//go:build tinygo

//go:generate tinygo flash -target=nano-rp2040

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/netlink/probe"

	"github.com/itohio/powerkeeper/pkg/ct"
	"github.com/itohio/powerkeeper/pkg/keeper"
	"github.com/itohio/powerkeeper/pkg/wifi"
)

var console = machine.Serial

func main() {
	console.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// Button and LEDs
	PIN_BUTTON.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_LED_220V.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED_110V.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED_OFF.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// CT sensor ADC
	machine.InitADC()
	adc := machine.ADC{Pin: PIN_CT}
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	sensor := ct.New(adc, ct.Config{
		Calibration:      CT_CALIBRATION,
		SupplyMillivolts: ADC_REFERENCE_MV,
		Resolution:       ADC_RESOLUTION,
	})

	k := keeper.New(keeper.Config{
		SampleInterval: SAMPLE_INTERVAL_MS * time.Millisecond,
		Samples:        CT_SAMPLES,
		NoiseFloor:     CT_NOISE_FLOOR,
		OffLEDHold:     OFF_LED_HOLD_MS * time.Millisecond,
		Debounce:       DEBOUNCE_MS * time.Millisecond,
	}, keeper.Hardware{
		Button: PIN_BUTTON,
		LED110: PIN_LED_110V,
		LED220: PIN_LED_220V,
		LEDOff: PIN_LED_OFF,
		Sensor: sensor,
	}, console)
	k.Start(time.Now())

	connectWiFi()

	for {
		k.Poll(time.Now())
		time.Sleep(POLL_INTERVAL_US * time.Microsecond)
	}
}

// connectWiFi associates once at boot. The loop runs regardless of the outcome.
func connectWiFi() {
	if ssid == "" {
		println("Wi-Fi not configured")
		return
	}

	// Connect prints the outcome; failure leaves the board offline.
	link, dev := probe.Probe()
	_, _ = wifi.Connect(link, dev, wifi.Config{
		SSID:            ssid,
		Passphrase:      pass,
		ConnectTimeout:  WIFI_CONNECT_TIMEOUT_S * time.Second,
		WatchdogTimeout: WIFI_WATCHDOG_TIMEOUT_S * time.Second,
	}, console)
}
