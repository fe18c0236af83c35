package analyzer

import (
	"fmt"
	"strings"

	"github.com/mhe931/jobflow/internal/types"
)

// analyzePrompt builds the recruiter prompt that extracts skills and seniority
// from resume text.
func analyzePrompt(resumeText string) string {
	return fmt.Sprintf(`You are a senior technical recruiter. Analyze the following resume and extract:

1. All technical skills (languages, frameworks, tools, cloud platforms, databases)
2. Seniority level based on years of experience:
   - Junior: <2 years
   - Mid: 2-5 years
   - Senior: 5-8 years
   - Lead: 8-12 years
   - Principal: 12+ years

Resume:
%s

Return ONLY valid JSON in this exact format:
{
  "skills": ["Python", "React", "AWS"],
  "seniority": "Senior"
}`, resumeText)
}

// matrixPrompt builds the career-strategist prompt that proposes geographic
// hubs and optimized job titles for a profile.
func matrixPrompt(profile *types.UserProfile) string {
	return fmt.Sprintf(`You are a career strategist. Given this technical profile:
- Skills: %s
- Seniority: %s

Generate:
1. %d geographic hubs with high demand for this profile. Prioritize:
   - Salary transparency regions (California, EU, NYC)
   - Tech hubs with strong job markets
   - Diversity of continents

2. %d optimized job titles that:
   - Align with the seniority level
   - Bypass ATS filters (avoid generic terms like "Developer")
   - Match the skill set precisely

Return ONLY valid JSON in this exact format:
{
  "hubs": ["Berlin", "Toronto", "Singapore", "London", "Amsterdam", "New York", "San Francisco", "Austin", "Seattle", "Dublin"],
  "titles": ["Senior Backend Engineer", "Platform Engineer", "ML Platform Engineer", "Senior Python Developer", "Backend Architect", "Senior Software Engineer", "API Platform Engineer", "Senior Cloud Engineer"]
}`, strings.Join(profile.Skills, ", "), profile.Seniority, MatrixHubs, MatrixTitles)
}
