package discovery

import (
	"fmt"
	"strings"

	"github.com/mhe931/jobflow/internal/types"
)

// discoverPrompt builds the sourcing prompt that generates scored job
// postings for the user's strategic parameters.
func discoverPrompt(profile *types.UserProfile, params types.StrategicParameters) string {
	var keywords string
	if len(params.Keywords) > 0 {
		keywords = "\n- Focus keywords: " + strings.Join(params.Keywords, ", ")
	}

	return fmt.Sprintf(`You are a technical sourcing specialist with deep knowledge of the current job market. Find realistic, currently-open job postings matching this candidate:

Candidate:
- Skills: %s
- Seniority: %s

Search scope:
- Target titles: %s
- Geographic hubs: %s%s

For each posting, score two independent dimensions from 0 to 100:
- match_score: how well the candidate's skills fit the role requirements
- hire_probability: how likely the candidate is to receive an offer, considering seniority fit, market competition and location

Also report posted_days_ago (your best estimate of the posting's age) and salary_range verbatim when the posting states one.

Return ONLY valid JSON in this exact format:
{
  "jobs": [
    {
      "title": "Senior Backend Engineer",
      "company": "Acme GmbH",
      "hub": "Berlin",
      "url": "https://jobs.acme.example/senior-backend",
      "description": "Own the payments platform...",
      "salary_range": "€85,000 - €105,000",
      "match_score": 87,
      "hire_probability": 62,
      "posted_days_ago": 12
    }
  ]
}`,
		strings.Join(profile.Skills, ", "),
		profile.Seniority,
		strings.Join(params.Titles, ", "),
		strings.Join(params.Hubs, ", "),
		keywords,
	)
}

// salaryPrompt builds the compensation-estimate prompt used when a posting
// does not state a salary.
func salaryPrompt(role, hub, seniority string) string {
	return fmt.Sprintf(`You are a compensation analyst. Estimate the annual salary range for this position:

- Role: %s
- Location: %s
- Seniority: %s

Report a realistic local-currency range and your confidence in the estimate from 0 to 100.

Return ONLY valid JSON in this exact format:
{
  "salary_range": "€70,000 - €90,000",
  "confidence": 65
}`, role, hub, seniority)
}
