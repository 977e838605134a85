package network

import (
	"fmt"
	"strings"
)

// DeviceType is the kind of a network device
type DeviceType string

const (
	DeviceTypeLoopback DeviceType = "loopback"
	DeviceTypeEthernet DeviceType = "ethernet"
	DeviceTypeWireless DeviceType = "wireless"
	DeviceTypeDummy    DeviceType = "dummy"
	DeviceTypeBond     DeviceType = "bond"
	DeviceTypeVlan     DeviceType = "vlan"
	DeviceTypeBridge   DeviceType = "bridge"
)

// DeviceState is the activation state of a device as reported by the service
type DeviceState string

const (
	DeviceStateUnmanaged    DeviceState = "unmanaged"
	DeviceStateUnavailable  DeviceState = "unavailable"
	DeviceStateDisconnected DeviceState = "disconnected"
	DeviceStateConfig       DeviceState = "config"
	DeviceStateIPConfig     DeviceState = "ip_config"
	DeviceStateActivated    DeviceState = "activated"
	DeviceStateDeactivating DeviceState = "deactivating"
	DeviceStateFailed       DeviceState = "failed"
)

// Device is a network interface known to the service. Devices are read-only;
// their id is the interface name.
type Device struct {
	Name  string      `json:"name" yaml:"name"`
	Type  DeviceType  `json:"type" yaml:"type"`
	State DeviceState `json:"state" yaml:"state"`
}

// Status is the desired state of a connection
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Method is an IP configuration method
type Method string

const (
	MethodDisabled  Method = "disabled"
	MethodAuto      Method = "auto"
	MethodManual    Method = "manual"
	MethodLinkLocal Method = "link-local"
)

// Connection is a network connection profile. ID is its stable identifier.
type Connection struct {
	ID            string            `json:"id" yaml:"id"`
	Interface     string            `json:"interface,omitempty" yaml:"interface,omitempty"`
	Method4       Method            `json:"method4,omitempty" yaml:"method4,omitempty"`
	Gateway4      string            `json:"gateway4,omitempty" yaml:"gateway4,omitempty"`
	Method6       Method            `json:"method6,omitempty" yaml:"method6,omitempty"`
	Gateway6      string            `json:"gateway6,omitempty" yaml:"gateway6,omitempty"`
	Addresses     []string          `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Nameservers   []string          `json:"nameservers,omitempty" yaml:"nameservers,omitempty"`
	DNSSearchList []string          `json:"dns_searchlist,omitempty" yaml:"dns_searchlist,omitempty"`
	IgnoreAutoDNS bool              `json:"ignore_auto_dns,omitempty" yaml:"ignore_auto_dns,omitempty"`
	MACAddress    string            `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	MTU           uint32            `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	Status        Status            `json:"status,omitempty" yaml:"status,omitempty"`
	Wireless      *WirelessSettings `json:"wireless,omitempty" yaml:"wireless,omitempty"`
	Bond          *BondSettings     `json:"bond,omitempty" yaml:"bond,omitempty"`
	Match         *MatchSettings    `json:"match,omitempty" yaml:"match,omitempty"`
}

// WirelessSettings holds the wireless part of a connection
type WirelessSettings struct {
	SSID     string `json:"ssid" yaml:"ssid"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Security string `json:"security,omitempty" yaml:"security,omitempty"`
	Mode     string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Hidden   bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// BondSettings holds the bonding part of a connection
type BondSettings struct {
	Mode    string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	Options string   `json:"options,omitempty" yaml:"options,omitempty"`
	Ports   []string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// MatchSettings selects the devices a connection applies to
type MatchSettings struct {
	Driver    []string `json:"driver,omitempty" yaml:"driver,omitempty"`
	Interface []string `json:"interface,omitempty" yaml:"interface,omitempty"`
	Path      []string `json:"path,omitempty" yaml:"path,omitempty"`
	Kernel    []string `json:"kernel,omitempty" yaml:"kernel,omitempty"`
}

// IsUp reports whether the connection should be active
func (c Connection) IsUp() bool {
	return c.Status != StatusDown
}

// Clone returns a deep copy of the connection
func (c Connection) Clone() Connection {
	out := c
	out.Addresses = cloneStrings(c.Addresses)
	out.Nameservers = cloneStrings(c.Nameservers)
	out.DNSSearchList = cloneStrings(c.DNSSearchList)
	if c.Wireless != nil {
		w := *c.Wireless
		out.Wireless = &w
	}
	if c.Bond != nil {
		b := *c.Bond
		b.Ports = cloneStrings(c.Bond.Ports)
		out.Bond = &b
	}
	if c.Match != nil {
		m := MatchSettings{
			Driver:    cloneStrings(c.Match.Driver),
			Interface: cloneStrings(c.Match.Interface),
			Path:      cloneStrings(c.Match.Path),
			Kernel:    cloneStrings(c.Match.Kernel),
		}
		out.Match = &m
	}
	return out
}

// String returns a one-line summary of the connection
func (c Connection) String() string {
	parts := []string{c.ID}
	if c.Interface != "" {
		parts = append(parts, "on "+c.Interface)
	}
	if c.Method4 != "" {
		parts = append(parts, fmt.Sprintf("ipv4=%s", c.Method4))
	}
	if c.Method6 != "" {
		parts = append(parts, fmt.Sprintf("ipv6=%s", c.Method6))
	}
	if len(c.Addresses) > 0 {
		parts = append(parts, strings.Join(c.Addresses, ","))
	}
	status := c.Status
	if status == "" {
		status = StatusUp
	}
	parts = append(parts, "("+string(status)+")")
	return strings.Join(parts, " ")
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
