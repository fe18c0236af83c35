package ratelimit

import "strings"

// MatchEndpoint resolves the rate limit config for a path and method. Exact
// path matches win over prefix matches; configs whose Path ends in "/" act
// as prefixes (so "/v1/sessions/" covers "/v1/sessions/{id}/results").
// Returns nil when nothing matches, which means the caller falls back to the
// default limit.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check is never throttled.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
