// Command monitor reads the PowerKeeper serial console and logs current,
// apparent power and device events. With -gui it plots them instead.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/itohio/powerkeeper/pkg/config"
	"github.com/itohio/powerkeeper/pkg/device"
	"github.com/itohio/powerkeeper/pkg/logger"
	"github.com/itohio/powerkeeper/pkg/sample"
)

func main() {
	var (
		portFlag           = flag.String("p", "", "Serial port override (e.g., /dev/ttyUSB0 or COM3)")
		configFlag         = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag           = flag.Bool("mock", false, "Use simulated device instead of serial port")
		listFlag           = flag.Bool("list", false, "List serial ports and exit")
		averageSamplesFlag = flag.Int("average-samples", -1, "Number of readings to average (0 = disabled, overrides config)")
		logLevelFlag       = flag.String("log-level", "", "Log level override (debug, info, warn, error)")
		guiFlag            = flag.Bool("gui", false, "Plot current and apparent power in a window instead of printing CSV")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *averageSamplesFlag >= 0 {
		cfg.Measurement.AverageSamples = *averageSamplesFlag
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}

	log := logger.Get(cfg.Log.Level)
	defer log.Sync()

	if *listFlag {
		if err := listPorts(); err != nil {
			log.Fatalw("failed to list ports", "error", err)
		}
		return
	}

	dev := newDevice(cfg, *mockFlag, log)
	if err := dev.Connect(); err != nil {
		log.Fatalw("failed to connect", "port", cfg.Serial.Port, "error", err)
	}

	if *guiFlag {
		runGUI(cfg, dev, *mockFlag, log)
		return
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Infow("shutting down")
		if err := dev.Close(); err != nil {
			log.Warnw("error closing device", "error", err)
		}
	}()

	run(cfg, dev, log)
}

// newDevice picks the serial console or the simulator.
func newDevice(cfg *config.Config, mock bool, log *logger.Logger) device.Device {
	if mock {
		log.Infow("using simulated device", "irms", cfg.Mock.Irms, "button_period", cfg.Mock.ButtonPeriod)
		return device.NewMock(cfg, log)
	}
	return device.New(cfg.Serial.Port, cfg.Serial.BaudRate, device.DefaultBufferSize, log)
}

// run consumes the device until its channels close.
func run(cfg *config.Config, dev device.Device, log *logger.Logger) {
	samples := newConverter(cfg)(dev.Readings())

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for line := range dev.Events() {
			log.Infow("device", "event", line)
		}
	}()

	go func() {
		defer wg.Done()
		for s := range samples {
			fmt.Printf("%s,%d,%.3f,%.1f,%.4f\n",
				s.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), s.Volts, s.Irms, s.ApparentPower, s.Energy)
		}
	}()

	wg.Wait()
}

// newConverter averages readings when the config asks for it.
func newConverter(cfg *config.Config) sample.Converter {
	if cfg.Measurement.AverageSamples > 0 {
		return sample.NewAveragingConverter(cfg.Measurement.AverageSamples, device.DefaultBufferSize)
	}
	return sample.NewConverter(device.DefaultBufferSize)
}

func listPorts() error {
	ports, err := device.Ports()
	if err != nil {
		return err
	}
	for _, p := range ports {
		fmt.Println(p.Name)
	}
	return nil
}
