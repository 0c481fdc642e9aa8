package util

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"slices"
)

// PublicDialContext returns a DialContext func that refuses hosts resolving to loopback,
// private or otherwise non-global addresses.
func PublicDialContext(dialer *net.Dialer) func(context.Context, string, string) (net.Conn, error) {
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, err
		}
		if i := slices.IndexFunc(ips, isRestricted); i != -1 {
			return nil, fmt.Errorf("restricted ip: %v", ips[i])
		}
		slices.SortFunc(ips, func(a, b netip.Addr) int { return a.Compare(b) })
		var lastErr error
		for _, ip := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}

func isRestricted(ip netip.Addr) bool { return !ip.IsGlobalUnicast() || ip.IsPrivate() }
