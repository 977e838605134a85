package network

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Summary returns a one-line summary of the device
func (d Device) Summary() string {
	return fmt.Sprintf("%s (%s, %s)", d.Name, d.Type, d.State)
}

// FormatDevices renders devices as an aligned table
func FormatDevices(devices []Device) string {
	if len(devices) == 0 {
		return "(no devices)\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSTATE")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Type, d.State)
	}
	_ = w.Flush()
	return b.String()
}

// FormatConnections renders connections as an aligned table
func FormatConnections(conns []Connection) string {
	if len(conns) == 0 {
		return "(no connections)\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINTERFACE\tIPV4\tIPV6\tADDRESSES\tSTATUS")
	for _, c := range conns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, dash(c.Interface), dash(string(c.Method4)), dash(string(c.Method6)),
			dash(strings.Join(c.Addresses, ",")), statusOf(c))
	}
	_ = w.Flush()
	return b.String()
}

// FormatCompact returns a compact multi-line view of the connection
func (c Connection) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Connection: %s (%s)\n", c.ID, statusOf(c)))
	b.WriteString(fmt.Sprintf("Interface:  %s\n", dash(c.Interface)))
	b.WriteString(fmt.Sprintf("IPv4:       %s %s\n", dash(string(c.Method4)), c.Gateway4))
	b.WriteString(fmt.Sprintf("IPv6:       %s %s\n", dash(string(c.Method6)), c.Gateway6))
	if len(c.Addresses) > 0 {
		b.WriteString(fmt.Sprintf("Addresses:  %s\n", strings.Join(c.Addresses, ", ")))
	}

	return b.String()
}

// FormatDetailed returns every configured field of the connection
func (c Connection) FormatDetailed() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== Connection %s ===\n", c.ID))
	b.WriteString(fmt.Sprintf("Status:        %s\n", statusOf(c)))
	b.WriteString(fmt.Sprintf("Interface:     %s\n", dash(c.Interface)))
	if c.MACAddress != "" {
		b.WriteString(fmt.Sprintf("MAC Address:   %s\n", c.MACAddress))
	}
	if c.MTU != 0 {
		b.WriteString(fmt.Sprintf("MTU:           %d\n", c.MTU))
	}

	b.WriteString("\n=== IP Configuration ===\n")
	b.WriteString(fmt.Sprintf("IPv4 Method:   %s\n", dash(string(c.Method4))))
	if c.Gateway4 != "" {
		b.WriteString(fmt.Sprintf("IPv4 Gateway:  %s\n", c.Gateway4))
	}
	b.WriteString(fmt.Sprintf("IPv6 Method:   %s\n", dash(string(c.Method6))))
	if c.Gateway6 != "" {
		b.WriteString(fmt.Sprintf("IPv6 Gateway:  %s\n", c.Gateway6))
	}
	b.WriteString(fmt.Sprintf("Addresses:     %s\n", list(c.Addresses)))

	b.WriteString("\n=== DNS ===\n")
	b.WriteString(fmt.Sprintf("Nameservers:   %s\n", list(c.Nameservers)))
	b.WriteString(fmt.Sprintf("Search:        %s\n", list(c.DNSSearchList)))
	b.WriteString(fmt.Sprintf("Ignore Auto:   %v\n", c.IgnoreAutoDNS))

	if c.Wireless != nil {
		b.WriteString("\n=== Wireless ===\n")
		b.WriteString(fmt.Sprintf("SSID:          %s\n", c.Wireless.SSID))
		b.WriteString(fmt.Sprintf("Security:      %s\n", dash(c.Wireless.Security)))
		if c.Wireless.Password != "" {
			b.WriteString("Password:      ********\n")
		}
		b.WriteString(fmt.Sprintf("Mode:          %s\n", dash(c.Wireless.Mode)))
		if c.Wireless.Hidden {
			b.WriteString("Hidden:        true\n")
		}
	}

	if c.Bond != nil {
		b.WriteString("\n=== Bond ===\n")
		b.WriteString(fmt.Sprintf("Mode:          %s\n", dash(c.Bond.Mode)))
		b.WriteString(fmt.Sprintf("Ports:         %s\n", list(c.Bond.Ports)))
		if c.Bond.Options != "" {
			b.WriteString(fmt.Sprintf("Options:       %s\n", c.Bond.Options))
		}
	}

	return b.String()
}

// FormatDiff lists the fields that differ between two versions of a connection
func FormatDiff(old, new Connection) string {
	var b strings.Builder
	b.WriteString("=== Connection Differences ===\n")

	changes := 0
	field := func(name, from, to string) {
		if from != to {
			b.WriteString(fmt.Sprintf("  %-14s %s → %s\n", name+":", dash(from), dash(to)))
			changes++
		}
	}

	field("Interface", old.Interface, new.Interface)
	field("Status", string(statusOf(old)), string(statusOf(new)))
	field("IPv4 Method", string(old.Method4), string(new.Method4))
	field("IPv4 Gateway", old.Gateway4, new.Gateway4)
	field("IPv6 Method", string(old.Method6), string(new.Method6))
	field("IPv6 Gateway", old.Gateway6, new.Gateway6)
	field("Addresses", strings.Join(old.Addresses, ","), strings.Join(new.Addresses, ","))
	field("Nameservers", strings.Join(old.Nameservers, ","), strings.Join(new.Nameservers, ","))
	field("Search", strings.Join(old.DNSSearchList, ","), strings.Join(new.DNSSearchList, ","))
	field("Ignore Auto", fmt.Sprint(old.IgnoreAutoDNS), fmt.Sprint(new.IgnoreAutoDNS))
	field("MAC Address", old.MACAddress, new.MACAddress)
	field("MTU", mtu(old.MTU), mtu(new.MTU))
	field("SSID", ssid(old.Wireless), ssid(new.Wireless))

	if changes == 0 {
		b.WriteString("\n(no differences detected)\n")
	}
	return b.String()
}

func statusOf(c Connection) Status {
	if c.IsUp() {
		return StatusUp
	}
	return StatusDown
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func list(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func mtu(v uint32) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprint(v)
}

func ssid(w *WirelessSettings) string {
	if w == nil {
		return ""
	}
	return w.SSID
}
