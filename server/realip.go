package server

import (
	"net"
	"net/http"
	"strings"
)

var privateCidrs []*net.IPNet

func init() {
	for _, block := range []string{
		"127.0.0.1/8",    // localhost
		"10.0.0.0/8",     // RFC 1918
		"172.16.0.0/12",  // RFC 1918
		"192.168.0.0/16", // RFC 1918
		"169.254.0.0/16", // link local
		"100.64.0.0/10",  // carrier grade NAT (RFC 6598)
		"::1/128",        // localhost IPv6
		"fc00::/7",       // unique local IPv6
		"fe80::/10",      // link local IPv6
	} {
		_, cidr, _ := net.ParseCIDR(block)
		privateCidrs = append(privateCidrs, cidr)
	}
}

func isPrivateIP(address string) bool {
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}
	for _, cidr := range privateCidrs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

// RealIP returns the client's real public IP address from request headers
func RealIP(r *http.Request) string {
	xRealIP := r.Header.Get("X-Real-Ip")
	xForwardedFor := r.Header.Get("X-Forwarded-For")

	if xRealIP == "" && xForwardedFor == "" {
		if strings.ContainsRune(r.RemoteAddr, ':') {
			host, _, _ := net.SplitHostPort(r.RemoteAddr)
			return host
		}
		return r.RemoteAddr
	}
	// first global address of X-Forwarded-For wins
	for _, address := range strings.Split(xForwardedFor, ",") {
		address = strings.TrimSpace(address)
		if net.ParseIP(address) != nil && !isPrivateIP(address) {
			return address
		}
	}
	return xRealIP
}
