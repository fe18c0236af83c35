// Package discovery finds and scores job postings for a user's strategic
// parameters via the LLM collaborator, then enriches them with salary data
// and ghost-job signals. All external data is validated at the boundary;
// invalid records are dropped, never stored.
package discovery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mhe931/jobflow/internal/cache"
	"github.com/mhe931/jobflow/internal/llm"
	"github.com/mhe931/jobflow/internal/schemas"
	"github.com/mhe931/jobflow/internal/types"
)

// Service runs discovery requests against the LLM with optional Redis
// caching of reachability verdicts.
type Service struct {
	client  llm.Client
	cache   *cache.Cache
	verbose bool
}

// New creates a discovery Service. The cache may be nil.
func New(client llm.Client, c *cache.Cache, verbose bool) *Service {
	return &Service{client: client, cache: c, verbose: verbose}
}

// discoveredJob is the raw LLM shape before boundary validation.
type discoveredJob struct {
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Hub             string  `json:"hub"`
	URL             string  `json:"url"`
	Description     string  `json:"description"`
	SalaryRange     string  `json:"salary_range"`
	MatchScore      float64 `json:"match_score"`
	HireProbability float64 `json:"hire_probability"`
	PostedDaysAgo   int     `json:"posted_days_ago"`
}

type discoverResponse struct {
	Jobs []discoveredJob `json:"jobs"`
}

func discoverCacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "discover:" + hex.EncodeToString(sum[:8])
}

// Discover finds scored postings for the given parameters. Records that fail
// validation are dropped with a log line; an empty search scope is a
// ValidationError before any LLM call. LLM failures and fully malformed
// responses surface as UpstreamError.
func (s *Service) Discover(ctx context.Context, profile *types.UserProfile, params types.StrategicParameters) ([]types.ResultRecord, error) {
	if params.IsEmpty() {
		return nil, &types.ValidationError{
			Field:   "parameters",
			Message: "strategic parameters are empty; analyze a resume or set them first",
		}
	}

	prompt := discoverPrompt(profile, params)

	// A repeat search with identical scope within the TTL reuses the cached
	// payload instead of burning LLM quota. Records still get fresh identities.
	cacheKey := discoverCacheKey(prompt)
	var raw string
	if !s.cache.GetJSON(ctx, cacheKey, &raw) {
		var err error
		raw, err = s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			return nil, &types.UpstreamError{Collaborator: "job discovery", Cause: err}
		}
	} else if s.verbose {
		log.Printf("[VERBOSE] Discovery served from cache")
	}

	if err := s.validateAgainst("schemas/discovered_jobs.schema.json", raw); err != nil {
		return nil, err
	}

	var resp discoverResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &types.UpstreamError{
			Collaborator: "job discovery",
			Cause:        fmt.Errorf("malformed response: %w", err),
		}
	}

	// Only payloads that survived validation are worth replaying; a cached
	// malformed response would fail every retry until the TTL expires.
	s.cache.SetJSON(ctx, cacheKey, raw, cache.DiscoveryTTL)

	now := time.Now()
	results := make([]types.ResultRecord, 0, len(resp.Jobs))
	ages := make([]int, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		record := s.toRecord(ctx, profile, job, now)
		if err := record.Validate(); err != nil {
			log.Printf("Dropping invalid discovered record (%s at %s): %v", job.Title, job.Company, err)
			continue
		}
		results = append(results, record)
		ages = append(ages, job.PostedDaysAgo)
	}

	flagGhostJobs(ctx, s.cache, results, ages)

	if s.verbose {
		log.Printf("[VERBOSE] Discovery produced %d valid results from %d candidates", len(results), len(resp.Jobs))
	}
	return results, nil
}

// toRecord converts a raw LLM job into a validated-shape record, resolving
// the salary: stated salaries are verified verbatim, otherwise a best-effort
// market estimate is attached with its confidence.
func (s *Service) toRecord(ctx context.Context, profile *types.UserProfile, job discoveredJob, now time.Time) types.ResultRecord {
	record := types.ResultRecord{
		ID:              "r_" + uuid.NewString(),
		Company:         job.Company,
		Role:            job.Title,
		Hub:             job.Hub,
		Description:     job.Description,
		URL:             job.URL,
		MatchScore:      job.MatchScore,
		HireProbability: job.HireProbability,
		DiscoveredAt:    now.UnixMilli(),
	}

	if stated, ok := ExtractSalary(job.SalaryRange + " " + job.Description); ok {
		record.SalaryRange = stated
		record.SalaryVerified = true
		return record
	}

	inferred, confidence, err := InferSalary(ctx, s.client, job.Title, job.Hub, profile.Seniority)
	if err != nil {
		// Salary is enrichment, not identity; the record survives without it.
		if s.verbose {
			log.Printf("[VERBOSE] Salary inference failed for %s at %s: %v", job.Title, job.Company, err)
		}
		return record
	}
	record.SalaryRange = inferred
	record.SalaryConfidence = confidence
	return record
}

// validateAgainst runs best-effort schema validation, same policy as the
// analyzer: missing or broken schemas are skipped, documents that fail
// validation are upstream malformed-data errors.
func (s *Service) validateAgainst(schemaRelPath, jsonContent string) error {
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
			Collaborator: "job discovery",
			Cause:        fmt.Errorf("response does not match schema: %w", err),
		}
	}
	return nil
}
