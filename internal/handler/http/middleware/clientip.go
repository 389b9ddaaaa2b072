package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientResolver works out which address a request came from.
// With no trusted proxies only the TCP peer counts.
type ClientResolver struct {
	Trusted []netip.Prefix
}

// NewClientResolver parses TRUSTED_PROXIES: comma-separated IPs or CIDRs.
// A bare IP becomes a single-host prefix. Any invalid entry is an error.
func NewClientResolver(list string) (ClientResolver, error) {
	var res ClientResolver
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			res.Trusted = append(res.Trusted, p.Masked())
			continue
		}
		ip, err := netip.ParseAddr(s)
		if err != nil {
			return ClientResolver{}, fmt.Errorf("trusted proxy %q: want an IP address or CIDR such as 10.0.0.0/8", s)
		}
		res.Trusted = append(res.Trusted, netip.PrefixFrom(ip.Unmap(), ip.Unmap().BitLen()))
	}
	return res, nil
}

// Proxied reports whether forwarding headers may be honoured at all.
func (c ClientResolver) Proxied() bool { return len(c.Trusted) > 0 }

func (c ClientResolver) trusts(ip netip.Addr) bool {
	ip = ip.Unmap()
	for _, p := range c.Trusted {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// Resolve returns the client address. Behind a trusted proxy the
// X-Forwarded-For chain is walked from the right, skipping trusted hops;
// X-Real-IP is consulted only when there is no usable chain.
func (c ClientResolver) Resolve(r *http.Request) (netip.Addr, error) {
	peer, err := peerAddr(r.RemoteAddr)
	if err != nil {
		return netip.Addr{}, err
	}
	if !c.trusts(peer) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" && c.Proxied() {
			slog.Warn("forwarding header from untrusted peer ignored",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff))
		}
		return peer, nil
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			// 壊れたエントリより左は信用しない
			break
		}
		if !c.trusts(ip) {
			return ip.Unmap(), nil
		}
	}
	if ip, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return ip.Unmap(), nil
	}
	return peer, nil
}

// peerAddr accepts "host:port" or a bare IP.
func peerAddr(addr string) (netip.Addr, error) {
	if ap, err := netip.ParseAddrPort(addr); err == nil {
		return ap.Addr().Unmap(), nil
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid remote address %q", addr)
	}
	return ip.Unmap(), nil
}

type clientIPKey struct{}

// ClientIP resolves the client address once per request so the rate
// limiter, comment author IP and activity log agree on it.
func ClientIP(res ClientResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if addr, err := res.Resolve(r); err == nil {
				ip = addr.String()
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPKey{}, ip)))
		})
	}
}

// ClientIPFromContext returns the address stored by ClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// RequestIP is ClientIPFromContext with a fallback to the TCP peer.
func RequestIP(r *http.Request) string {
	if ip := ClientIPFromContext(r.Context()); ip != "" {
		return ip
	}
	if addr, err := peerAddr(r.RemoteAddr); err == nil {
		return addr.String()
	}
	return r.RemoteAddr
}
