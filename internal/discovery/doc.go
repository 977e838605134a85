// Package discovery finds installer services on the local network with mDNS.
//
// The reference service advertises itself as "_agama._tcp" (see Advertise);
// clients browse for that type and build the API base URL from the answer.
// TXT records may carry "path" (API prefix, default /api) and "scheme".
//
// # Usage Example
//
//	services, err := discovery.Discover(ctx, 3*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, svc := range services {
//	    fmt.Printf("%s -> %s\n", svc.Instance, svc.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Services must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
