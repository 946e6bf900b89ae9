package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders are consulted in order before falling back to RemoteAddr.
var DefaultHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// Resolver extracts the caller address from a request.
type Resolver struct {
	headers []string
}

// NewResolver trusts the given proxy headers in priority order. With no
// headers it uses DefaultHeaders; pass an empty non-nil slice to trust only
// the connection address.
func NewResolver(headers []string) *Resolver {
	if headers == nil {
		headers = DefaultHeaders
	}
	return &Resolver{headers: headers}
}

// IP returns the first valid address found in the trusted headers, or the
// connection address. Multi-valued headers yield their leftmost valid entry.
// It returns an empty string when nothing parses.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		for _, v := range r.Header.Values(h) {
			for part := range strings.SplitSeq(v, ",") {
				if ip := parseIP(part); ip != "" {
					return ip
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP normalizes an address; IPv4-mapped IPv6 is unmapped and zones are kept.
func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}
