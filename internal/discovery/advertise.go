package discovery

import (
	"fmt"
	"sort"

	"github.com/grandcat/zeroconf"
)

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise announces an installer API on port under instance. txt entries
// become TXT records ("path" and "scheme" are read back by Service.BaseURL).
func Advertise(instance string, port int, txt map[string]string) (*Advertisement, error) {
	records := make([]string, 0, len(txt))
	for k, v := range txt {
		records = append(records, k+"="+v)
	}
	sort.Strings(records)

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, records, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}
