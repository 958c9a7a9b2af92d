package client

import (
	"fmt"
	"net/url"
	"strings"
)

// SocketURL derives the room socket endpoint from the REST base URL: the
// scheme is swapped to ws or wss and /ws/chat is appended with userId and
// roomId query parameters.
func SocketURL(baseURL, userID, roomID string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/chat"
	u.RawQuery = url.Values{"userId": {userID}, "roomId": {roomID}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// originFor returns the http(s) origin matching a socket endpoint.
func originFor(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "http://localhost/"
	}
	scheme := "http"
	if u.Scheme == "wss" {
		scheme = "https"
	}
	return scheme + "://" + u.Host + "/"
}
