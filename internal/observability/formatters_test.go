package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhe931/jobflow/internal/analyzer"
	"github.com/mhe931/jobflow/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &analyzer.Analysis{
		Skills:    []string{"Go", "Kubernetes", "PostgreSQL"},
		Seniority: "senior",
	}

	p.PrintAnalysis(analysis)
	output := buf.String()

	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "senior")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Kubernetes")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAnalysis_TruncatesLongSkillList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &analyzer.Analysis{
		Skills:    []string{"a", "b", "c", "d", "e", "f", "g"},
		Seniority: "mid",
	}

	p.PrintAnalysis(analysis)

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintMatrix(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	matrix := &analyzer.Matrix{
		Titles: []string{"Backend Engineer", "Platform Engineer"},
		Hubs:   []string{"Berlin", "Amsterdam"},
	}

	p.PrintMatrix(matrix)
	output := buf.String()

	assert.Contains(t, output, "PROPOSED SEARCH MATRIX")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "Amsterdam")
}

func TestPrintParameters(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParameters(types.StrategicParameters{
		Titles: []string{"SRE"},
		Hubs:   []string{"London"},
	})
	output := buf.String()

	assert.Contains(t, output, "STRATEGIC PARAMETERS")
	assert.Contains(t, output, "SRE")
	assert.Contains(t, output, "London")
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.ResultRecord{
		{
			Role: "Backend Engineer", Company: "Acme", Hub: "Berlin",
			MatchScore: 92, HireProbability: 71,
			SalaryRange: "€90,000", SalaryVerified: true,
		},
		{
			Role: "SRE", Company: "Globex", Hub: "London",
			MatchScore: 80, HireProbability: 60,
			SalaryRange: "€70,000", SalaryConfidence: 65,
			GhostJob: true,
		},
	}

	p.PrintResults(results)
	output := buf.String()

	assert.Contains(t, output, "DISCOVERED RESULTS")
	assert.Contains(t, output, "Total results: 2")
	assert.Contains(t, output, "Acme")
	assert.Contains(t, output, "(stated)")
	assert.Contains(t, output, "inferred")
	assert.Contains(t, output, "ghost")
}

func TestPrintResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResults(nil)

	assert.Contains(t, buf.String(), "No results.")
}

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	session := &types.SearchSession{
		ID:        "s_123",
		CreatedAt: 1700000000000,
		Parameters: types.StrategicParameters{
			Titles: []string{"Backend Engineer"},
			Hubs:   []string{"Berlin"},
		},
		Results: []types.ResultRecord{
			{Role: "Backend Engineer", Company: "Acme", Hub: "Berlin", MatchScore: 90, HireProbability: 70},
		},
	}

	p.PrintSession(session)
	output := buf.String()

	assert.Contains(t, output, "SEARCH SESSION")
	assert.Contains(t, output, "s_123")
	assert.Contains(t, output, "DISCOVERED RESULTS")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	assert.Contains(t, buf.String(), "...")
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
