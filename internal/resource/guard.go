package resource

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Hostnames refused before any DNS lookup. Cloud metadata services
// also sit on link-local addresses, which the dial check catches.
var blockedHosts = map[string]struct{}{
	"localhost":                {},
	"metadata.google.internal": {},
	"metadata.gce.internal":    {},
	"metadata.internal":        {},
}

// guardedTransport dials only public addresses. Resource URLs come
// from users, and the fetcher must not become a door into the network
// the server runs on: every hostname is resolved and every resulting
// IP checked before a connection is made, which also covers DNS
// rebinding and redirects to internal hosts.
func guardedTransport() *http.Transport {
	return &http.Transport{
		DialContext:         guardedDial,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func guardedDial(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, ""
	}

	if err := checkHostname(host); err != nil {
		return nil, err
	}

	if ip := net.ParseIP(host); ip != nil {
		if err := checkIP(ip); err != nil {
			return nil, err
		}
		return (&net.Dialer{}).DialContext(ctx, network, addr)
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", host, err)
	}
	for _, ip := range ips {
		if err := checkIP(ip); err != nil {
			return nil, fmt.Errorf("%s resolves to %s: %w", host, ip, err)
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no addresses for %s", host)
	}

	// Dial the address that was checked, not the name, so a second
	// resolution cannot swap in a different target.
	target := ips[0].String()
	if port != "" {
		target = net.JoinHostPort(target, port)
	}
	return (&net.Dialer{}).DialContext(ctx, network, target)
}

func checkHostname(host string) error {
	if _, blocked := blockedHosts[strings.ToLower(host)]; blocked {
		return fmt.Errorf("%w: %s", ErrBlockedURL, host)
	}
	return nil
}

func checkIP(ip net.IP) error {
	// Normalize mapped addresses so ::ffff:127.0.0.1 is caught as
	// loopback.
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	switch {
	case ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsUnspecified():
		return fmt.Errorf("%w: %s", ErrBlockedURL, ip)
	}
	return nil
}
