package util

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the originating address of a request, used to key rate
// limits. The first X-Forwarded-For hop wins when present, otherwise the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		if ip := strings.TrimSpace(strings.Split(v, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
