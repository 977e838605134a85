package network

import (
	"fmt"
	"net/netip"

	"github.com/google/go-cmp/cmp"
)

// ConnectionBuilder provides a fluent API for building a connection from a
// baseline. It tracks whether anything changed and validates before building.
//
// Example usage:
//
//	conn, err := NewConnectionBuilder(current).
//	    SetStatic("192.168.1.10/24", "192.168.1.1").
//	    SetNameservers("192.168.1.1").
//	    Up().
//	    Build()
type ConnectionBuilder struct {
	// base is the unchanged baseline, conn the working copy
	base Connection
	conn Connection
}

// NewConnectionBuilder creates a builder starting from current. Pass a zero
// Connection with an ID when starting from scratch.
func NewConnectionBuilder(current Connection) *ConnectionBuilder {
	return &ConnectionBuilder{
		base: current.Clone(),
		conn: current.Clone(),
	}
}

// NewConnection starts a builder for a new connection bound to iface.
func NewConnection(id, iface string) *ConnectionBuilder {
	return NewConnectionBuilder(Connection{ID: id, Interface: iface})
}

// SetInterface binds the connection to a device
func (b *ConnectionBuilder) SetInterface(iface string) *ConnectionBuilder {
	b.conn.Interface = iface
	return b
}

// SetDHCP switches IPv4 to automatic configuration and drops static settings.
func (b *ConnectionBuilder) SetDHCP() *ConnectionBuilder {
	b.conn.Method4 = MethodAuto
	b.conn.Gateway4 = ""
	b.conn.Addresses = withoutIPv4(b.conn.Addresses)
	return b
}

// SetStatic configures a manual IPv4 address (CIDR notation) and gateway.
// Existing IPv4 addresses are replaced; IPv6 ones are kept.
func (b *ConnectionBuilder) SetStatic(address, gateway string) *ConnectionBuilder {
	b.conn.Method4 = MethodManual
	b.conn.Addresses = append(withoutIPv4(b.conn.Addresses), address)
	b.conn.Gateway4 = gateway
	return b
}

// SetMethod6 sets the IPv6 method
func (b *ConnectionBuilder) SetMethod6(m Method) *ConnectionBuilder {
	b.conn.Method6 = m
	return b
}

// AddAddress appends an address in CIDR notation
func (b *ConnectionBuilder) AddAddress(address string) *ConnectionBuilder {
	b.conn.Addresses = append(b.conn.Addresses, address)
	return b
}

// SetNameservers replaces the DNS servers
func (b *ConnectionBuilder) SetNameservers(servers ...string) *ConnectionBuilder {
	b.conn.Nameservers = cloneStrings(servers)
	return b
}

// SetSearchDomains replaces the DNS search list
func (b *ConnectionBuilder) SetSearchDomains(domains ...string) *ConnectionBuilder {
	b.conn.DNSSearchList = cloneStrings(domains)
	return b
}

// IgnoreAutoDNS controls whether DNS servers from DHCP are ignored
func (b *ConnectionBuilder) IgnoreAutoDNS(ignore bool) *ConnectionBuilder {
	b.conn.IgnoreAutoDNS = ignore
	return b
}

// SetMTU sets the MTU (0 leaves the default)
func (b *ConnectionBuilder) SetMTU(mtu uint32) *ConnectionBuilder {
	b.conn.MTU = mtu
	return b
}

// SetMACAddress sets a custom MAC address
func (b *ConnectionBuilder) SetMACAddress(mac string) *ConnectionBuilder {
	b.conn.MACAddress = mac
	return b
}

// SetWiFi configures a WPA-PSK network
func (b *ConnectionBuilder) SetWiFi(ssid, password string) *ConnectionBuilder {
	b.conn.Wireless = &WirelessSettings{SSID: ssid, Password: password, Security: "wpa-psk", Mode: "infrastructure"}
	return b
}

// SetWiFiOpen configures an open network
func (b *ConnectionBuilder) SetWiFiOpen(ssid string) *ConnectionBuilder {
	b.conn.Wireless = &WirelessSettings{SSID: ssid, Security: "none", Mode: "infrastructure"}
	return b
}

// SetBond turns the connection into a bond over ports
func (b *ConnectionBuilder) SetBond(mode string, ports ...string) *ConnectionBuilder {
	b.conn.Bond = &BondSettings{Mode: mode, Ports: cloneStrings(ports)}
	return b
}

// Up marks the connection active
func (b *ConnectionBuilder) Up() *ConnectionBuilder {
	b.conn.Status = StatusUp
	return b
}

// Down marks the connection inactive
func (b *ConnectionBuilder) Down() *ConnectionBuilder {
	b.conn.Status = StatusDown
	return b
}

// HasChanges reports whether the connection differs from the baseline
func (b *ConnectionBuilder) HasChanges() bool {
	return !cmp.Equal(b.base, b.conn, cmpOptions...)
}

// Diff returns a human-readable diff from the baseline, empty when unchanged
func (b *ConnectionBuilder) Diff() string {
	return cmp.Diff(b.base, b.conn, cmpOptions...)
}

// Validate checks the working copy
func (b *ConnectionBuilder) Validate() error {
	return ValidateConnection(b.conn)
}

// Build validates and returns the connection.
func (b *ConnectionBuilder) Build() (Connection, error) {
	if err := b.Validate(); err != nil {
		return Connection{}, fmt.Errorf("invalid connection: %w", err)
	}
	return b.conn.Clone(), nil
}

// Reset discards every change since the baseline
func (b *ConnectionBuilder) Reset() *ConnectionBuilder {
	b.conn = b.base.Clone()
	return b
}

func withoutIPv4(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if !isIPv4Prefix(a) {
			out = append(out, a)
		}
	}
	return out
}

func isIPv4Prefix(addr string) bool {
	p, err := netip.ParsePrefix(addr)
	return err == nil && p.Addr().Is4()
}
