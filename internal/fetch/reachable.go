// Package fetch - reachable.go provides lightweight URL liveness checks used
// by ghost-job detection.
package fetch

import (
	"context"
	"net/http"
	"time"
)

// DefaultReachabilityTimeout bounds a single reachability probe. Postings are
// checked in bulk, so individual probes stay short.
const DefaultReachabilityTimeout = 3 * time.Second

// Reachable issues a HEAD request and reports whether the URL answers with a
// success status. Redirects are followed. Any transport error, timeout or
// non-2xx status counts as unreachable; the caller decides what that means
// (for discovery it is one ghost-job signal, never a fatal error).
func Reachable(ctx context.Context, urlStr string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultReachabilityTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, urlStr, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
