// Package analyzer infers a candidate's profile and search strategy from
// resume text using the LLM collaborator. Its output is validated at the
// boundary before anything reaches the profile store.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mhe931/jobflow/internal/llm"
	"github.com/mhe931/jobflow/internal/schemas"
	"github.com/mhe931/jobflow/internal/types"
)

// Search matrix dimensions: how many hubs and titles the strategic mapper
// proposes.
const (
	MatrixHubs   = 10
	MatrixTitles = 8
)

// Analysis is the structured result of resume analysis.
type Analysis struct {
	Skills    []string `json:"skills"`
	Seniority string   `json:"seniority"`
}

// Matrix is the search matrix proposed by the strategic mapper.
type Matrix struct {
	Hubs   []string `json:"hubs"`
	Titles []string `json:"titles"`
}

// Analyzer wraps the LLM client for profile analysis and strategic mapping.
type Analyzer struct {
	client llm.Client
}

// New creates an Analyzer on top of an LLM client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeResume extracts technical skills and a seniority level from resume
// text. A seniority outside the recognized enum falls back to Mid rather than
// failing the whole analysis. LLM failures surface as UpstreamError.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText string) (*Analysis, error) {
	raw, err := a.client.GenerateJSON(ctx, analyzePrompt(resumeText), llm.TierStandard)
	if err != nil {
		return nil, &types.UpstreamError{Collaborator: "profile analyzer", Cause: err}
	}

	if err := validateAgainst("schemas/profile_analysis.schema.json", raw); err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &types.UpstreamError{
			Collaborator: "profile analyzer",
			Cause:        fmt.Errorf("malformed response: %w", err),
		}
	}

	if !types.ValidSeniority(analysis.Seniority) {
		analysis.Seniority = types.SeniorityMid
	}

	return &analysis, nil
}

// BuildSearchMatrix proposes geographic hubs and optimized job titles for the
// profile. The matrix always has exactly MatrixHubs hubs and MatrixTitles
// titles: oversized lists are truncated, undersized lists padded with
// placeholders the user is expected to edit.
func (a *Analyzer) BuildSearchMatrix(ctx context.Context, profile *types.UserProfile) (*Matrix, error) {
	raw, err := a.client.GenerateJSON(ctx, matrixPrompt(profile), llm.TierStandard)
	if err != nil {
		return nil, &types.UpstreamError{Collaborator: "strategic mapper", Cause: err}
	}

	if err := validateAgainst("schemas/search_matrix.schema.json", raw); err != nil {
		return nil, err
	}

	var matrix Matrix
	if err := json.Unmarshal([]byte(raw), &matrix); err != nil {
		return nil, &types.UpstreamError{
			Collaborator: "strategic mapper",
			Cause:        fmt.Errorf("malformed response: %w", err),
		}
	}

	matrix.Hubs = fitLength(matrix.Hubs, MatrixHubs, "Hub")
	matrix.Titles = fitLength(matrix.Titles, MatrixTitles, "Title")

	return &matrix, nil
}

// validateAgainst runs best-effort schema validation: a missing schema file is
// skipped, a schema that fails to load is logged, but a document that fails
// validation is an upstream malformed-data error.
func validateAgainst(schemaRelPath, jsonContent string) error {
	schemaPath := schemas.ResolveSchemaPath(schemaRelPath)
	if schemaPath == "" {
		return nil
	}

	schema, err := schemas.LoadSchema(schemaPath)
	if err != nil {
		log.Printf("Warning: could not load schema %s: %v", schemaRelPath, err)
		return nil
	}

	if err := schemas.ValidateJSONString(schema, jsonContent); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			log.Printf("Warning: could not validate against schema %s: %v", schemaRelPath, err)
			return nil
		}
		return &types.UpstreamError{
			Collaborator: "profile analyzer",
			Cause:        fmt.Errorf("response does not match schema: %w", err),
		}
	}
	return nil
}

// fitLength truncates or pads a list to exactly n entries.
func fitLength(items []string, n int, placeholder string) []string {
	if len(items) > n {
		return items[:n]
	}
	for len(items) < n {
		items = append(items, fmt.Sprintf("%s %d", placeholder, len(items)+1))
	}
	return items
}
