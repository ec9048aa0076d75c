package vpnapi

import (
	"net/url"
	"strings"
)

const (
	LocalFallback  = "http://127.0.0.1:8000"
	RemoteFallback = "https://psychoware.website"
)

// ResolveCandidates computes the ordered base URLs tried for every request.
// The empty string stands for the page origin (same origin).
//
//   - an explicit override is used alone;
//   - a loopback page host tries same origin, then the local backend;
//   - any other page host tries same origin, then the remote fallback;
//   - with no page origin only the remote fallback is left.
func ResolveCandidates(override, fallback, pageOrigin string) []string {
	if base := trimBase(override); base != "" {
		return []string{base}
	}

	fallback = trimBase(fallback)
	if fallback == "" {
		fallback = RemoteFallback
	}

	origin := trimBase(pageOrigin)
	if origin == "" {
		return []string{fallback}
	}

	switch hostname(origin) {
	case "localhost", "127.0.0.1":
		return []string{"", LocalFallback}
	}
	return []string{"", fallback}
}

func trimBase(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

func hostname(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
