package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/logging"
)

const (
	// ServiceType is the mDNS service type of the installer API
	ServiceType = "_agama._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 80

	// DefaultAPIPath is the API prefix used when the TXT record has no path
	DefaultAPIPath = "/api"
)

// ErrNotFound is returned when no matching service answered in time
var ErrNotFound = errors.New("no installer service found")

// Scanner handles mDNS service discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration

	logger *zap.Logger
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		logger:  logging.Named("discovery"),
	}
}

// Scan collects every installer service that answers before the timeout
// or the context ends.
func (s *Scanner) Scan(ctx context.Context) ([]*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu       sync.Mutex
		services = make([]*Service, 0)
		seen     = make(map[string]bool)
		done     = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			svc := parseServiceEntry(entry)
			if svc == nil {
				continue
			}
			mu.Lock()
			if !seen[svc.Instance] {
				seen[svc.Instance] = true
				services = append(services, svc)
				s.logger.Debug("Service discovered", zap.String("instance", svc.Instance), zap.String("url", svc.BaseURL()))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// zeroconf closes entries once the browse context ends
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Service, len(services))
	copy(out, services)
	return out, nil
}

// WaitFor returns the first service whose instance name contains match
// (any service when match is empty).
func (s *Scanner) WaitFor(ctx context.Context, match string) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Service, 1)

	go func() {
		for entry := range entries {
			svc := parseServiceEntry(entry)
			if svc != nil && strings.Contains(svc.Instance, match) {
				select {
				case found <- svc:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case svc := <-found:
		return svc, nil
	case <-ctx.Done():
		select {
		case svc := <-found:
			return svc, nil
		default:
		}
		if match == "" {
			return nil, fmt.Errorf("%w within %s", ErrNotFound, s.Timeout)
		}
		return nil, fmt.Errorf("%w matching %q within %s", ErrNotFound, match, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Service.
// Returns nil when the entry has no hostname or no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Service {
	if entry == nil || entry.HostName == "" {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Service{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Discover scans with the given timeout
func Discover(ctx context.Context, timeout time.Duration) ([]*Service, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
