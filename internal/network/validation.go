package network

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"go.uber.org/multierr"
)

// FieldError is a validation failure of one connection field
type FieldError struct {
	Connection string
	Field      string
	Message    string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Connection == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("connection %q: %s: %s", e.Connection, e.Field, e.Message)
}

const maxMTU = 65535

// ValidateConnection checks a connection before it is sent to the service.
// All problems are reported at once; use multierr.Errors to list them.
func ValidateConnection(c Connection) error {
	var err error
	fail := func(field, format string, args ...any) {
		err = multierr.Append(err, &FieldError{Connection: c.ID, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.ID) == "" {
		fail("id", "must not be empty")
	}

	if !validMethod(c.Method4) {
		fail("method4", "unknown method %q", c.Method4)
	}
	if !validMethod(c.Method6) {
		fail("method6", "unknown method %q", c.Method6)
	}

	var has4, has6 bool
	for _, addr := range c.Addresses {
		prefix, perr := netip.ParsePrefix(addr)
		if perr != nil {
			fail("addresses", "%q is not an address with prefix length (e.g. 192.168.1.10/24)", addr)
			continue
		}
		if prefix.Addr().Is4() {
			has4 = true
		} else {
			has6 = true
		}
	}
	if c.Method4 == MethodManual && !has4 {
		fail("addresses", "manual IPv4 configuration needs at least one IPv4 address")
	}
	if c.Method6 == MethodManual && !has6 {
		fail("addresses", "manual IPv6 configuration needs at least one IPv6 address")
	}

	if c.Gateway4 != "" {
		if gw, gerr := netip.ParseAddr(c.Gateway4); gerr != nil || !gw.Is4() {
			fail("gateway4", "%q is not an IPv4 address", c.Gateway4)
		}
	}
	if c.Gateway6 != "" {
		if gw, gerr := netip.ParseAddr(c.Gateway6); gerr != nil || !gw.Is6() {
			fail("gateway6", "%q is not an IPv6 address", c.Gateway6)
		}
	}

	for _, ns := range c.Nameservers {
		if _, nerr := netip.ParseAddr(ns); nerr != nil {
			fail("nameservers", "%q is not an IP address", ns)
		}
	}

	if c.MACAddress != "" {
		if _, merr := net.ParseMAC(c.MACAddress); merr != nil {
			fail("mac_address", "%q is not a MAC address", c.MACAddress)
		}
	}
	if c.MTU > maxMTU {
		fail("mtu", "must be at most %d, got %d", maxMTU, c.MTU)
	}

	switch c.Status {
	case "", StatusUp, StatusDown:
	default:
		fail("status", "must be %q or %q, got %q", StatusUp, StatusDown, c.Status)
	}

	if c.Wireless != nil {
		err = multierr.Append(err, validateWireless(c.ID, c.Wireless))
	}
	if c.Bond != nil && len(c.Bond.Ports) == 0 {
		fail("bond.ports", "a bond needs at least one port")
	}

	return err
}

func validateWireless(id string, w *WirelessSettings) error {
	var err error
	fail := func(field, format string, args ...any) {
		err = multierr.Append(err, &FieldError{Connection: id, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if w.SSID == "" {
		fail("wireless.ssid", "must not be empty")
	}
	if len(w.SSID) > 32 {
		fail("wireless.ssid", "too long (max 32 bytes): %d bytes", len(w.SSID))
	}
	switch w.Security {
	case "", "none":
		if w.Password != "" {
			fail("wireless.password", "should be empty for open networks")
		}
	case "wpa-psk", "sae":
		if len(w.Password) < 8 || len(w.Password) > 63 {
			fail("wireless.password", "must be 8-63 characters for %s, got %d", w.Security, len(w.Password))
		}
	}
	switch w.Mode {
	case "", "infrastructure", "adhoc", "mesh", "ap":
	default:
		fail("wireless.mode", "unknown mode %q", w.Mode)
	}
	return err
}

// ValidateSettings validates every connection and rejects duplicate ids
func ValidateSettings(s *Settings) error {
	if s == nil {
		return nil
	}
	var err error
	seen := make(map[string]bool, len(s.Connections))
	for _, c := range s.Connections {
		err = multierr.Append(err, ValidateConnection(c))
		if c.ID != "" && seen[c.ID] {
			err = multierr.Append(err, &FieldError{Connection: c.ID, Field: "id", Message: "duplicate connection id"})
		}
		seen[c.ID] = true
	}
	return err
}

// Warnings returns non-fatal remarks about a connection
func Warnings(c Connection) []string {
	var warnings []string
	if c.Method4 == MethodAuto && c.Gateway4 != "" {
		warnings = append(warnings, "gateway4 is ignored when method4 is auto")
	}
	if c.Method6 == MethodAuto && c.Gateway6 != "" {
		warnings = append(warnings, "gateway6 is ignored when method6 is auto")
	}
	if c.IgnoreAutoDNS && len(c.Nameservers) == 0 {
		warnings = append(warnings, "ignore_auto_dns without nameservers leaves the connection without DNS")
	}
	if c.Method4 == MethodDisabled && (c.Method6 == MethodDisabled || c.Method6 == "") && c.IsUp() {
		warnings = append(warnings, "connection is up but has no IP configuration")
	}
	return warnings
}

// FormatValidationErrors formats validation errors into a user-friendly message.
func FormatValidationErrors(err error) string {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Connection validation failed with %d error(s):\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, e.Error()))
	}
	return sb.String()
}

func validMethod(m Method) bool {
	switch m {
	case "", MethodDisabled, MethodAuto, MethodManual, MethodLinkLocal:
		return true
	default:
		return false
	}
}
