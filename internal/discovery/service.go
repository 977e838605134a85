package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service is an installer API found on the network
type Service struct {
	// Instance is the mDNS instance name (e.g., "agama on install-01")
	Instance string

	// Hostname is the mDNS hostname (e.g., "install-01.local.")
	Hostname string

	// IP is the address the service answered from, IPv4 preferred
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data
	// Known keys: "path=/api", "scheme=https", "version=..."
	Metadata map[string]string

	// DiscoveredAt is when the service was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, strings.TrimSuffix(s.Hostname, "."), net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// BaseURL returns the API base URL of the service. The TXT keys "scheme"
// and "path" override http and DefaultAPIPath.
func (s *Service) BaseURL() string {
	scheme := s.GetMetadata("scheme")
	if scheme == "" {
		scheme = "http"
	}
	path := s.GetMetadata("path")
	if path == "" {
		path = DefaultAPIPath
	}
	path = "/" + strings.Trim(path, "/")
	if path == "/" {
		path = ""
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
