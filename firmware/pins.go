//go:build tinygo

package main

import "machine"

const (
	// Loop timing
	POLL_INTERVAL_US   = 1000 // Main loop sleep in microseconds
	SAMPLE_INTERVAL_MS = 1000 // Telemetry period in milliseconds
	DEBOUNCE_MS        = 300  // Lockout after an accepted button press
	OFF_LED_HOLD_MS    = 10000

	// CT sensor
	CT_SAMPLES     = 2048 // ADC samples per RMS calculation
	CT_CALIBRATION = 1.45 // ICAL for SCT-013 with on-board burden resistor
	CT_NOISE_FLOOR = 0.16 // Readings below this (A) are reported as 0

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Button (active low, internal pull-up)
	PIN_BUTTON = machine.D2

	// Indicator LEDs
	PIN_LED_220V = machine.D3
	PIN_LED_110V = machine.D4
	PIN_LED_OFF  = machine.D5

	// CT sensor input
	PIN_CT = machine.A0

	// Serial console
	UART_BAUD_RATE = 115200

	// Wi-Fi
	WIFI_CONNECT_TIMEOUT_S  = 10
	WIFI_WATCHDOG_TIMEOUT_S = 30
)

// Wi-Fi credentials, set at build time:
//
//	tinygo flash -target=nano-rp2040 -ldflags="-X main.ssid=MyNet -X main.pass=secret" ./firmware
var (
	ssid string
	pass string
)
