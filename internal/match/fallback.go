package match

import (
	"strings"

	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/profile"
)

// Title keywords marking a posting as part of the QA/testing role family.
var qaTitleKeywords = []string{
	"qa automation", "test automation", "sdet", "quality assurance",
	"selenium", "playwright", "cypress", "appium", "software tester",
	"automation engineer", "quality engineer", "test engineer", "qa engineer",
	"qa analyst", "automation tester", "software testing",
}

var (
	seniorMarkers = []string{"senior", "lead", "principal"}
	juniorMarkers = []string{"junior", "associate"}
)

const (
	// fallbackScoreCap keeps heuristic scores below what a genuine AI
	// assessment can reach.
	fallbackScoreCap       = 85
	fallbackApplyThreshold = 50
	seniorExperienceYears  = 4
)

// trendingSkills is the fixed set reported as missing when absent from the
// candidate's skill list.
var trendingSkills = []struct{ key, label string }{
	{"cypress", "Cypress (popular JS framework)"},
	{"playwright", "Playwright"},
	{"k6", "K6 performance testing"},
}

// TitleFallback scores a posting from its title alone. Used when the AI path
// is unavailable or the description is too short to be worth a prompt.
func TitleFallback(p *job.Posting, prof *profile.Profile) *job.Match {
	title := strings.ToLower(p.Title)
	score := 0
	var reasons []string

	if containsAny(title, qaTitleKeywords) {
		score += 50
		reasons = append(reasons, "Job title matches QA/Testing domain")
	}

	hasSenior := containsAny(title, seniorMarkers)
	hasJunior := containsAny(title, juniorMarkers)
	switch {
	case prof.ExperienceYears >= seniorExperienceYears && hasSenior:
		score += 20
		reasons = append(reasons, "Seniority level matches your experience")
	case prof.ExperienceYears < seniorExperienceYears && hasJunior:
		score += 20
		reasons = append(reasons, "Junior level matches your experience")
	case !hasSenior && !hasJunior:
		score += 20
		reasons = append(reasons, "Mid-level position matches your profile")
	}

	// First matching skill only, not cumulative.
	for _, skill := range prof.AllSkills() {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s != "" && strings.Contains(title, s) {
			score += 10
			reasons = append(reasons, skill+" mentioned in job title")
			break
		}
	}

	if score > fallbackScoreCap {
		score = fallbackScoreCap
	}

	recommendation := job.RecommendationMaybe
	if score >= fallbackApplyThreshold {
		recommendation = job.RecommendationApply
	}

	if len(reasons) == 0 {
		reasons = []string{"QA role matching your profile"}
	}

	return &job.Match{
		Score:                score,
		Reasons:              reasons,
		MissingSkills:        missingTrendingSkills(prof),
		NiceToHavePresent:    []string{},
		Recommendation:       recommendation,
		RecommendationReason: "Title-based match (AI scoring unavailable)",
		SeniorityMatch:       true,
		RemoteType:           job.RemoteTypeUnspecified,
		ScoredBy:             job.ScoredByTitleFallback,
	}
}

func missingTrendingSkills(prof *profile.Profile) []string {
	have := make(map[string]bool)
	for _, skill := range prof.AllSkills() {
		have[strings.ToLower(strings.TrimSpace(skill))] = true
	}

	missing := make([]string, 0, len(trendingSkills))
	for _, trending := range trendingSkills {
		if !have[trending.key] {
			missing = append(missing, trending.label)
		}
	}
	if len(missing) > 3 {
		missing = missing[:3]
	}
	return missing
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
