package network

import (
	"strings"
	"testing"
)

func TestFormatDevices(t *testing.T) {
	if got := FormatDevices(nil); got != "(no devices)\n" {
		t.Errorf("FormatDevices(nil) = %q", got)
	}

	out := FormatDevices([]Device{
		{Name: "eth0", Type: DeviceTypeEthernet, State: DeviceStateActivated},
		{Name: "wlan0", Type: DeviceTypeWireless, State: DeviceStateDisconnected},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("FormatDevices() has %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[2], "wireless") {
		t.Errorf("FormatDevices() =\n%s", out)
	}
	// Columns are aligned
	if strings.Index(lines[1], "ethernet") != strings.Index(lines[2], "wireless") {
		t.Errorf("columns are not aligned:\n%s", out)
	}
}

func TestFormatConnections(t *testing.T) {
	if got := FormatConnections([]Connection{}); got != "(no connections)\n" {
		t.Errorf("FormatConnections(empty) = %q", got)
	}

	out := FormatConnections([]Connection{
		{ID: "eth0", Interface: "eth0", Method4: MethodAuto},
		{ID: "eth1", Method4: MethodManual, Addresses: []string{"10.0.0.2/24", "10.0.0.3/24"}, Status: StatusDown},
	})
	for _, want := range []string{"ID", "eth0", "auto", "10.0.0.2/24,10.0.0.3/24", "down", "up"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatConnections() missing %q:\n%s", want, out)
		}
	}
}

func TestDevice_Summary(t *testing.T) {
	d := Device{Name: "eth0", Type: DeviceTypeEthernet, State: DeviceStateActivated}
	if got, want := d.Summary(), "eth0 (ethernet, activated)"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestConnection_FormatCompact(t *testing.T) {
	c := Connection{ID: "eth0", Interface: "eth0", Method4: MethodManual, Gateway4: "10.0.0.1", Addresses: []string{"10.0.0.2/24"}}
	out := c.FormatCompact()
	for _, want := range []string{"Connection: eth0 (up)", "Interface:  eth0", "IPv4:       manual 10.0.0.1", "Addresses:  10.0.0.2/24"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatCompact() missing %q:\n%s", want, out)
		}
	}
}

func TestConnection_FormatDetailed(t *testing.T) {
	c := Connection{
		ID:          "wlan0",
		Interface:   "wlan0",
		Method4:     MethodAuto,
		Nameservers: []string{"1.1.1.1"},
		MTU:         1400,
		Wireless:    &WirelessSettings{SSID: "home", Password: "secret123", Security: "wpa-psk"},
		Bond:        &BondSettings{Mode: "balance-rr", Ports: []string{"eth0"}},
	}
	out := c.FormatDetailed()

	for _, want := range []string{"=== Connection wlan0 ===", "MTU:           1400", "Nameservers:   1.1.1.1", "Search:        (none)", "SSID:          home", "Password:      ********", "Ports:         eth0"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDetailed() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret123") {
		t.Error("FormatDetailed() leaks the wireless password")
	}
}

func TestFormatDiff(t *testing.T) {
	old := Connection{ID: "eth0", Method4: MethodAuto, MTU: 1500}
	updated := Connection{ID: "eth0", Method4: MethodManual, Addresses: []string{"10.0.0.2/24"}, MTU: 1500, Status: StatusDown}

	out := FormatDiff(old, updated)
	for _, want := range []string{"IPv4 Method:   auto → manual", "Addresses:     - → 10.0.0.2/24", "Status:        up → down"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDiff() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MTU") {
		t.Errorf("FormatDiff() reports an unchanged MTU:\n%s", out)
	}

	if out := FormatDiff(old, old); !strings.Contains(out, "no differences") {
		t.Errorf("FormatDiff(same) = %q", out)
	}
}
