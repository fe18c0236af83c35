// Package ingestion turns raw resume sources (pasted text, hosted pages,
// Google Docs) into cleaned plain text suitable for analysis.
package ingestion

import (
	"regexp"
	"strings"

	"github.com/mhe931/jobflow/internal/types"
)

// MinResumeLength is the minimum cleaned resume length in characters.
// Anything shorter is almost certainly not a resume (an error page, a
// paywall stub, a login redirect) and is rejected before analysis.
const MinResumeLength = 100

var multiSpaceRe = regexp.MustCompile(`\s+`)
var excessBlankRe = regexp.MustCompile(`\n\n\n+`)

// CleanText cleans and normalizes resume text while preserving structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")

	// Reduce 3+ consecutive blank lines to 2
	result = excessBlankRe.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving headings, bullets and
// intentional indentation.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")

	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")

	// Keep markdown-style headings, normalize leading spaces to 0
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	// Preserve bullet lists with their indentation
	if isBulletLine(line) {
		indent := len(line) - len(trimmed)
		if indent > 0 {
			return strings.Repeat(" ", indent) + trimmed
		}
		return trimmed
	}

	// Regular lines: collapse internal runs of whitespace, keep indentation
	leadingSpace := len(line) - len(trimmed)
	content := multiSpaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// isBulletLine checks if a line is a bullet list item.
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// ValidateResumeText rejects content too short to be a real resume.
func ValidateResumeText(cleaned string) error {
	if len(cleaned) < MinResumeLength {
		return &types.ValidationError{
			Field:   "resume_text",
			Message: "resume text too short; expected at least 100 characters of content",
		}
	}
	return nil
}

// IngestText cleans pasted resume text and validates it in one step.
func IngestText(raw string) (string, error) {
	cleaned := CleanText(raw)
	if err := ValidateResumeText(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}
