package useragent

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name, ua, want string
	}{
		{"chrome", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", "Chrome on Linux"},
		{"edge", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36 Edg/120.0", "Edge on Windows"},
		{"safari", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Version/17.0 Safari/604.1", "Safari on iOS"},
		{"firefox", "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.0; rv:121.0) Firefox/121.0", "Firefox on macOS"},
		{"curl", "curl/8.4.0", "curl"},
		{"empty", "", "unknown client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.Header.Set("User-Agent", tt.ua)
			assert.Equal(t, tt.want+" from 192.0.2.1", Describe(r))
		})
	}
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	assert.Equal(t, "192.0.2.1", RemoteIP(r))

	r.Header.Set("X-Real-IP", " 10.0.0.2 ")
	assert.Equal(t, "10.0.0.2", RemoteIP(r))

	r.Header.Set("X-Forwarded-For", "10.0.0.9, 172.16.0.1")
	assert.Equal(t, "10.0.0.9", RemoteIP(r))
}
