// Package wifi associates the board with a Wi-Fi network at boot.
//
// Connection failure is not fatal: the caller keeps running without network.
// When a watchdog timeout is configured the link driver re-associates in the
// background after a drop.
package wifi

import (
	"fmt"
	"io"
	"net/netip"
	"time"

	"tinygo.org/x/drivers/netlink"
)

const (
	// DefaultConnectTimeout bounds the boot-time association attempt.
	DefaultConnectTimeout = 10 * time.Second
	// DefaultWatchdogTimeout is the link check period once associated.
	DefaultWatchdogTimeout = 30 * time.Second
)

// Link is the part of netlink.Netlinker used here.
type Link interface {
	NetConnect(params *netlink.ConnectParams) error
	NetNotify(cb func(netlink.Event))
}

// Addresser reports the local IP. netdev.Netdever satisfies it.
type Addresser interface {
	Addr() (netip.Addr, error)
}

// Config contains network credentials and timeouts.
type Config struct {
	SSID            string
	Passphrase      string
	ConnectTimeout  time.Duration
	WatchdogTimeout time.Duration // 0 disables background reconnects
}

// Connect associates with the configured network and reports progress to out.
// It returns the local address on success.
func Connect(link Link, dev Addresser, cfg Config, out io.Writer) (netip.Addr, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if out == nil {
		out = io.Discard
	}

	fmt.Fprintf(out, "Connecting to Wi-Fi %s", cfg.SSID)

	link.NetNotify(func(e netlink.Event) {
		switch e {
		case netlink.EventNetUp:
			fmt.Fprintln(out, "Wi-Fi link up")
		case netlink.EventNetDown:
			fmt.Fprintln(out, "Wi-Fi link down")
		}
	})

	err := link.NetConnect(&netlink.ConnectParams{
		Ssid:            cfg.SSID,
		Passphrase:      cfg.Passphrase,
		AuthType:        netlink.AuthTypeWPA2,
		ConnectTimeout:  cfg.ConnectTimeout,
		WatchdogTimeout: cfg.WatchdogTimeout,
	})
	if err != nil {
		fmt.Fprintln(out, "\nWi-Fi connection failed (prototype mode).")
		return netip.Addr{}, fmt.Errorf("failed to connect to %s: %w", cfg.SSID, err)
	}

	addr, err := dev.Addr()
	if err != nil {
		fmt.Fprintln(out, "\nWi-Fi connected, no address")
		return netip.Addr{}, fmt.Errorf("failed to get address: %w", err)
	}

	fmt.Fprintln(out, "\nWi-Fi connected")
	fmt.Fprintf(out, "IP: %s\n", addr)
	return addr, nil
}
