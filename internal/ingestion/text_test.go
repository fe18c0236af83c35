package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhe931/jobflow/internal/types"
)

func TestCleanText_NormalizesLineEndings(t *testing.T) {
	input := "line one\r\nline two\rline three"
	got := CleanText(input)
	assert.Equal(t, "line one\nline two\nline three", got)
}

func TestCleanText_CollapsesInternalWhitespace(t *testing.T) {
	input := "Jane   Doe\tSenior    Engineer"
	got := CleanText(input)
	assert.Equal(t, "Jane Doe Senior Engineer", got)
}

func TestCleanText_PreservesHeadings(t *testing.T) {
	input := "   ## Experience\nSome content"
	got := CleanText(input)
	assert.Equal(t, "## Experience\nSome content", got)
}

func TestCleanText_PreservesBulletIndentation(t *testing.T) {
	input := "Skills:\n  - Go\n  - Postgres"
	got := CleanText(input)
	assert.Equal(t, "Skills:\n  - Go\n  - Postgres", got)
}

func TestCleanText_ReducesBlankLines(t *testing.T) {
	input := "section one\n\n\n\n\nsection two"
	got := CleanText(input)
	assert.Equal(t, "section one\n\nsection two", got)
}

func TestCleanText_TrimsSurroundingWhitespace(t *testing.T) {
	input := "\n\n  content  \n\n"
	got := CleanText(input)
	assert.Equal(t, "content", got)
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\t\n  "))
}

func TestValidateResumeText_TooShort(t *testing.T) {
	err := ValidateResumeText("too short to be a resume")
	require.Error(t, err)

	var valErr *types.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "resume_text", valErr.Field)
}

func TestValidateResumeText_OK(t *testing.T) {
	text := strings.Repeat("Built and operated distributed systems. ", 10)
	assert.NoError(t, ValidateResumeText(text))
}

func TestIngestText_CleansAndValidates(t *testing.T) {
	raw := "Jane Doe\r\n\r\n\r\n\r\n" + strings.Repeat("Led a platform team shipping Go services.  ", 10)
	cleaned, err := IngestText(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cleaned, "Jane Doe\n\n"))
	assert.NotContains(t, cleaned, "\r")
	assert.NotContains(t, cleaned, "  ")
}

func TestIngestText_RejectsShortContent(t *testing.T) {
	_, err := IngestText("404 Not Found")
	require.Error(t, err)

	var valErr *types.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestIsBulletLine(t *testing.T) {
	assert.True(t, isBulletLine("- item"))
	assert.True(t, isBulletLine("  * item"))
	assert.True(t, isBulletLine("• item"))
	assert.False(t, isBulletLine("plain text"))
	assert.False(t, isBulletLine("-notabullet"))
}
