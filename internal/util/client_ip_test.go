package util

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr with port", "10.0.0.1:54321", "", "10.0.0.1"},
		{"remote addr without port", "10.0.0.1", "", "10.0.0.1"},
		{"single forwarded hop", "10.0.0.1:54321", "203.0.113.7", "203.0.113.7"},
		{"first forwarded hop wins", "10.0.0.1:54321", "203.0.113.7, 198.51.100.2", "203.0.113.7"},
		{"forwarded hop trimmed", "10.0.0.1:54321", "  203.0.113.7 , 198.51.100.2", "203.0.113.7"},
		{"blank forwarded falls back", "10.0.0.1:54321", "   ", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
