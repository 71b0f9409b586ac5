package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/sdet-tools/jobhunt/internal/ai"
	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/logger"
	"github.com/sdet-tools/jobhunt/internal/profile"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed score_prompt.md
var scorePromptTemplate string

const (
	defaultMaxLogLength = 200
	// descriptionBudget bounds how much posting text is embedded in a prompt.
	descriptionBudget = 2000
)

// Scorer evaluates postings against a candidate profile via Gemini.
type Scorer struct {
	generator contentGenerator
	maxLogLen int
	logger    *zap.Logger
}

func NewScorer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		maxLogLen: maxLogLength,
		logger:    logger.WithAI(log, "gemini", generator.Model()),
	}
}

// Score implements ai.Scorer. Any error it returns means the AI path failed
// for this posting; the match engine falls back to heuristic scoring.
func (s *Scorer) Score(ctx context.Context, posting *job.Posting, prof *profile.Profile) (*job.Match, error) {
	if posting == nil {
		return nil, fmt.Errorf("posting is required")
	}
	if prof == nil {
		return nil, fmt.Errorf("profile is required")
	}

	profileJSON, err := json.MarshalIndent(prof.Summary(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile summary: %w", err)
	}

	prompt := buildScorePrompt(string(profileJSON), posting)

	s.logger.Debug("gemini score request",
		zap.String("posting_id", posting.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini score response",
		zap.String("posting_id", posting.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	return parseMatchResponse(raw)
}

func buildScorePrompt(profileJSON string, posting *job.Posting) string {
	description := strings.TrimSpace(posting.Description)
	if len(description) > descriptionBudget {
		description = description[:descriptionBudget]
	}

	replacer := strings.NewReplacer(
		"{{PROFILE_JSON}}", profileJSON,
		"{{TITLE}}", orNA(posting.Title),
		"{{COMPANY}}", orNA(posting.Company),
		"{{LOCATION}}", orNA(posting.Location),
		"{{DESCRIPTION}}", description,
	)
	return replacer.Replace(scorePromptTemplate)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func parseMatchResponse(raw string) (*job.Match, error) {
	data, err := ai.ParseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	match := &job.Match{
		Score:                job.ClampScore(ai.CoerceInt(data["match_score"])),
		Reasons:              ai.CoerceStringSlice(data["match_reasons"]),
		MissingSkills:        ai.CoerceStringSlice(data["missing_skills"]),
		NiceToHavePresent:    ai.CoerceStringSlice(data["nice_to_have_present"]),
		RecommendationReason: ai.CoerceString(data["recommendation_reason"]),
		SeniorityMatch:       ai.CoerceBool(data["seniority_match"]),
		RemoteType:           ai.CoerceString(data["remote_type"]),
		ScoredBy:             job.ScoredByAI,
	}

	switch job.Recommendation(strings.ToUpper(ai.CoerceString(data["recommendation"]))) {
	case job.RecommendationApply:
		match.Recommendation = job.RecommendationApply
	case job.RecommendationSkip:
		match.Recommendation = job.RecommendationSkip
	default:
		match.Recommendation = job.RecommendationMaybe
	}

	if match.RemoteType == "" {
		match.RemoteType = job.RemoteTypeUnspecified
	}

	return match, nil
}
