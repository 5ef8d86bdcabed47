package useragent

import (
	"net"
	"net/http"
	"strings"
)

type marker struct {
	contains, excludes, name string
}

// first match wins; Edge and Chrome both claim Safari
var browsers = []marker{
	{contains: "Edg/", name: "Edge"},
	{contains: "Firefox/", name: "Firefox"},
	{contains: "Chrome/", name: "Chrome"},
	{contains: "Safari/", excludes: "Chrome", name: "Safari"},
	{contains: "curl/", name: "curl"},
}

var platforms = []marker{
	{contains: "Android", name: "Android"},
	{contains: "iPhone", name: "iOS"},
	{contains: "iPad", name: "iOS"},
	{contains: "Windows", name: "Windows"},
	{contains: "Mac OS X", name: "macOS"},
	{contains: "Linux", name: "Linux"},
}

func match(ua string, markers []marker) string {
	for _, m := range markers {
		if strings.Contains(ua, m.contains) && (m.excludes == "" || !strings.Contains(ua, m.excludes)) {
			return m.name
		}
	}
	return ""
}

// Describe summarises who is connecting, e.g. "Firefox on Linux from 10.0.0.7".
func Describe(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	client := match(ua, browsers)
	if client == "" {
		client = "unknown client"
	}
	if platform := match(ua, platforms); platform != "" {
		client += " on " + platform
	}
	return client + " from " + RemoteIP(r)
}

// RemoteIP prefers proxy headers over the socket address.
func RemoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
