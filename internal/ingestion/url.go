package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/mhe931/jobflow/internal/fetch"
	"github.com/mhe931/jobflow/internal/types"
)

var googleDocIDRe = regexp.MustCompile(`^/document/d/([a-zA-Z0-9_-]+)`)

// GoogleDocExportURL rewrites a Google Docs link to its plain-text export
// endpoint. Returns the original URL unchanged if it is not a Google Doc.
func GoogleDocExportURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	if parsed.Host != "docs.google.com" {
		return urlStr
	}
	m := googleDocIDRe.FindStringSubmatch(parsed.Path)
	if m == nil {
		return urlStr
	}
	return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=txt", m[1])
}

// isPlainText reports whether the fetched content is already plain text and
// needs no HTML extraction.
func isPlainText(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "text/plain")
}

// IngestFromURL fetches a hosted resume, extracts the main text and cleans
// it. Google Docs links are rewritten to their text export endpoint. If
// useBrowser is true, pages that come back nearly empty over plain HTTP are
// re-fetched with a headless browser before extraction.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (string, error) {
	fetchURL := GoogleDocExportURL(urlStr)
	if verbose && fetchURL != urlStr {
		log.Printf("[VERBOSE] Google Doc detected, using export URL: %s", fetchURL)
	}

	result, err := fetch.URL(ctx, fetchURL, nil)
	if err != nil {
		return "", &types.UpstreamError{Collaborator: "fetch", Cause: err}
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched %d bytes from %s", len(result.HTML), fetchURL)
	}

	var textContent string
	if isPlainText(result.ContentType) {
		textContent = result.HTML
	} else {
		textContent, err = fetch.ExtractMainText(result.HTML, fetch.ResumePageSelectors())
		if err != nil {
			return "", &types.UpstreamError{Collaborator: "fetch", Cause: err}
		}
	}

	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering",
				len(textContent), fetch.MinContentLength)
		}
		browserHTML, browserErr := fetch.BrowserSimple(ctx, fetchURL, verbose)
		if browserErr != nil {
			// Browser fallback is best-effort; keep the HTTP content.
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else {
			rendered, exErr := fetch.ExtractMainText(browserHTML, fetch.ResumePageSelectors())
			if exErr == nil && len(rendered) > len(textContent) {
				textContent = rendered
			}
		}
	}

	cleaned := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleaned))
	}

	if err := ValidateResumeText(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}
