package wifi

import (
	"bytes"
	"errors"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers/netlink"
)

type fakeLink struct {
	err    error
	params *netlink.ConnectParams
	notify func(netlink.Event)
}

func (l *fakeLink) NetConnect(params *netlink.ConnectParams) error {
	l.params = params
	return l.err
}

func (l *fakeLink) NetNotify(cb func(netlink.Event)) {
	l.notify = cb
}

type fakeDev struct {
	addr netip.Addr
	err  error
}

func (d fakeDev) Addr() (netip.Addr, error) {
	return d.addr, d.err
}

func TestConnect_Success(t *testing.T) {
	link := &fakeLink{}
	dev := fakeDev{addr: netip.MustParseAddr("192.168.1.42")}
	var out bytes.Buffer

	addr, err := Connect(link, dev, Config{
		SSID:            "home",
		Passphrase:      "secret123",
		WatchdogTimeout: DefaultWatchdogTimeout,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, dev.addr, addr)

	require.NotNil(t, link.params)
	assert.Equal(t, "home", link.params.Ssid)
	assert.Equal(t, "secret123", link.params.Passphrase)
	assert.Equal(t, DefaultConnectTimeout, link.params.ConnectTimeout)
	assert.Equal(t, DefaultWatchdogTimeout, link.params.WatchdogTimeout)

	assert.Equal(t, "Connecting to Wi-Fi home\nWi-Fi connected\nIP: 192.168.1.42\n", out.String())
}

func TestConnect_Failure(t *testing.T) {
	link := &fakeLink{err: errors.New("timeout")}
	var out bytes.Buffer

	addr, err := Connect(link, fakeDev{}, Config{SSID: "home", ConnectTimeout: time.Second}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home")
	assert.False(t, addr.IsValid())
	assert.Equal(t, time.Second, link.params.ConnectTimeout)
	assert.Contains(t, out.String(), "Wi-Fi connection failed (prototype mode).")
	assert.Equal(t, 1, strings.Count(out.String(), "failed"))
	assert.NotContains(t, out.String(), "timeout")
}

func TestConnect_NoAddress(t *testing.T) {
	link := &fakeLink{}
	_, err := Connect(link, fakeDev{err: errors.New("no dhcp lease")}, Config{SSID: "home"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dhcp lease")
}

func TestConnect_LinkEvents(t *testing.T) {
	link := &fakeLink{}
	var out bytes.Buffer

	_, err := Connect(link, fakeDev{addr: netip.MustParseAddr("10.0.0.2")}, Config{SSID: "lab"}, &out)
	require.NoError(t, err)
	require.NotNil(t, link.notify)

	out.Reset()
	link.notify(netlink.EventNetDown)
	link.notify(netlink.EventNetUp)
	assert.Equal(t, "Wi-Fi link down\nWi-Fi link up\n", out.String())
}
