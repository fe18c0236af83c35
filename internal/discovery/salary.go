package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/mhe931/jobflow/internal/llm"
)

// salaryRe matches stated compensation like "$120,000 - $150,000", "€85k–€105k"
// or "£70,000". Ranges and single figures both count as a stated salary.
var salaryRe = regexp.MustCompile(`[$€£]\s?\d{1,3}(?:[,.]\d{3})*(?:\s?[kK])?(?:\s?[-–—]\s?[$€£]?\s?\d{1,3}(?:[,.]\d{3})*(?:\s?[kK])?)?`)

// ExtractSalary pulls a stated salary from posting text. A match is treated
// as verified data; the boolean reports whether anything was found.
func ExtractSalary(text string) (string, bool) {
	match := salaryRe.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// salaryEstimate is the LLM's answer when a posting states no salary.
type salaryEstimate struct {
	SalaryRange string  `json:"salary_range"`
	Confidence  float64 `json:"confidence"`
}

// InferSalary asks the LLM for a market estimate. Inferred ranges are never
// marked verified; the confidence rides along so the UI can hedge.
func InferSalary(ctx context.Context, client llm.Client, role, hub, seniority string) (string, float64, error) {
	raw, err := client.GenerateJSON(ctx, salaryPrompt(role, hub, seniority), llm.TierLite)
	if err != nil {
		return "", 0, fmt.Errorf("salary inference failed: %w", err)
	}

	var est salaryEstimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return "", 0, fmt.Errorf("malformed salary estimate: %w", err)
	}
	if est.Confidence < 0 {
		est.Confidence = 0
	}
	if est.Confidence > 100 {
		est.Confidence = 100
	}
	return est.SalaryRange, est.Confidence, nil
}
