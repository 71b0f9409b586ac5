package match

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	_ "embed"

	"github.com/sdet-tools/jobhunt/internal/ai"
	"github.com/sdet-tools/jobhunt/internal/job"
	"go.uber.org/zap"
)

//go:embed skillgap_prompt.md
var skillGapPromptTemplate string

const (
	// Postings below this score are too far off to inform the gap analysis.
	gapRelevanceThreshold = 30
	gapMaxPostings        = 20
	gapMaxSkills          = 15
)

// SkillCount is one missing skill with the number of relevant postings that
// required it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type CriticalSkill struct {
	Skill        string   `json:"skill"`
	Reason       string   `json:"reason"`
	LearningTime string   `json:"learning_time"`
	Resources    []string `json:"resources"`
}

type CertRecommendation struct {
	Cert   string `json:"cert"`
	Reason string `json:"reason"`
	URL    string `json:"url"`
}

// SkillGapPlan is the structured learning plan synthesized from the missing
// skills across scored postings. Always usable: the static fallback stands
// in when the AI path fails.
type SkillGapPlan struct {
	CriticalSkillsToLearn     []CriticalSkill      `json:"critical_skills_to_learn"`
	TrendingInQA              []string             `json:"trending_in_qa"`
	CertificationsRecommended []CertRecommendation `json:"certifications_recommended"`
	QuickWins                 []string             `json:"quick_wins"`
	CareerAdvice              string               `json:"career_advice"`
}

// SkillGap aggregates missing skills across sufficiently relevant postings
// and asks the advisor for a learning plan. It never fails: any AI or parse
// error yields the static plan.
func (e *Engine) SkillGap(ctx context.Context, scored []*job.Posting) *SkillGapPlan {
	counts := topMissingSkills(scored)

	if e.advisor == nil {
		return staticSkillGapPlan()
	}

	raw, err := e.advisor.GenerateContent(ctx, e.buildSkillGapPrompt(counts))
	if err != nil {
		e.logger.Warn("skill gap analysis failed, using static plan", zap.Error(err))
		return staticSkillGapPlan()
	}

	plan, err := parseSkillGapResponse(raw)
	if err != nil {
		e.logger.Warn("skill gap response unparsable, using static plan", zap.Error(err))
		return staticSkillGapPlan()
	}

	return plan
}

func (e *Engine) buildSkillGapPrompt(counts []SkillCount) string {
	countsJSON, _ := json.MarshalIndent(counts, "", "  ")

	replacer := strings.NewReplacer(
		"{{EXPERIENCE_YEARS}}", strconv.Itoa(e.profile.ExperienceYears),
		"{{CURRENT_SKILLS}}", strings.Join(e.profile.AllSkills(), ", "),
		"{{MISSING_SKILLS_JSON}}", string(countsJSON),
	)
	return replacer.Replace(skillGapPromptTemplate)
}

// topMissingSkills counts missing_skills across the first gapMaxPostings
// postings scored at or above the relevance threshold, most frequent first,
// ties in first-seen order.
func topMissingSkills(scored []*job.Posting) []SkillCount {
	counts := make(map[string]int)
	var order []string

	near := 0
	for _, p := range scored {
		if p.Match == nil || p.Match.Score < gapRelevanceThreshold {
			continue
		}
		near++
		if near > gapMaxPostings {
			break
		}
		for _, skill := range p.Match.MissingSkills {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			if _, seen := counts[skill]; !seen {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	if len(order) == 0 {
		return []SkillCount{
			{Skill: "Cypress", Count: 5},
			{Skill: "Playwright", Count: 4},
			{Skill: "K6", Count: 3},
			{Skill: "Docker", Count: 3},
			{Skill: "AWS", Count: 2},
			{Skill: "GitHub Actions", Count: 2},
		}
	}

	result := make([]SkillCount, 0, len(order))
	for _, skill := range order {
		result = append(result, SkillCount{Skill: skill, Count: counts[skill]})
	}
	// Stable: ties keep first-seen order.
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].Count > result[j-1].Count; j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}

	if len(result) > gapMaxSkills {
		result = result[:gapMaxSkills]
	}
	return result
}

func parseSkillGapResponse(raw string) (*SkillGapPlan, error) {
	cleaned := ai.ExtractJSON(raw)

	var plan SkillGapPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err == nil {
		return &plan, nil
	}

	candidate, ok := ai.FirstJSONObject(cleaned)
	if !ok {
		return nil, errNoPlan
	}
	if err := json.Unmarshal([]byte(candidate), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

var errNoPlan = errors.New("no JSON object in skill gap response")

func staticSkillGapPlan() *SkillGapPlan {
	return &SkillGapPlan{
		CriticalSkillsToLearn: []CriticalSkill{
			{Skill: "Cypress", Reason: "Modern JS testing framework, high demand", LearningTime: "2-4 weeks", Resources: []string{"cypress.io/docs"}},
			{Skill: "Playwright", Reason: "Microsoft's modern automation tool", LearningTime: "2-3 weeks", Resources: []string{"playwright.dev"}},
			{Skill: "K6", Reason: "Performance testing, often required", LearningTime: "1 week", Resources: []string{"k6.io/docs"}},
		},
		TrendingInQA: []string{"AI-powered testing", "Shift-left testing", "API contract testing with Pact"},
		CertificationsRecommended: []CertRecommendation{
			{Cert: "ISTQB Advanced", Reason: "Valued for senior roles", URL: "istqb.org"},
		},
		QuickWins:    []string{"Add Docker basics to your profile", "Learn GitHub Actions for CI/CD"},
		CareerAdvice: "Focus on modern frameworks like Playwright or Cypress to expand your opportunities globally.",
	}
}
