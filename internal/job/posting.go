package job

import (
	"fmt"
	"strings"
	"time"
)

// Category is the fixed geographic/work-arrangement bucket a posting is
// classified into. Adapters that cannot classify a posting must not emit it.
type Category string

const (
	CategorySponsorshipAbroad Category = "sponsorship_abroad"
	CategoryHomeCountryRemote Category = "home_country_remote"
	CategoryWorldwideRemote   Category = "worldwide_remote"
)

// Categories returns all valid categories in their reporting order.
func Categories() []Category {
	return []Category{
		CategorySponsorshipAbroad,
		CategoryHomeCountryRemote,
		CategoryWorldwideRemote,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategorySponsorshipAbroad, CategoryHomeCountryRemote, CategoryWorldwideRemote:
		return true
	}
	return false
}

// TypeLabel returns the human label shown in reports for this category.
func (c Category) TypeLabel() string {
	switch c {
	case CategorySponsorshipAbroad:
		return "Abroad (Sponsorship)"
	case CategoryHomeCountryRemote:
		return "Home Country Remote"
	case CategoryWorldwideRemote:
		return "Remote Worldwide"
	}
	return string(c)
}

// Recommendation is the tier derived from the match score.
type Recommendation string

const (
	RecommendationApply Recommendation = "APPLY"
	RecommendationMaybe Recommendation = "MAYBE"
	RecommendationSkip  Recommendation = "SKIP"
)

// ScoredBy records which scoring path produced a match.
type ScoredBy string

const (
	ScoredByAI            ScoredBy = "ai"
	ScoredByTitleFallback ScoredBy = "title_fallback"
)

// RemoteTypeUnspecified is used when the scorer could not determine the work
// arrangement from the posting text.
const RemoteTypeUnspecified = "not_specified"

// Match holds the scoring annotations added by the match engine. A posting
// carries no Match until it has been scored; after scoring the score is
// always present and within [0, 100].
type Match struct {
	Score                int            `json:"match_score"`
	Reasons              []string       `json:"match_reasons"`
	MissingSkills        []string       `json:"missing_skills"`
	NiceToHavePresent    []string       `json:"nice_to_have_present"`
	Recommendation       Recommendation `json:"recommendation"`
	RecommendationReason string         `json:"recommendation_reason"`
	SeniorityMatch       bool           `json:"seniority_match"`
	RemoteType           string         `json:"remote_type"`
	ScoredBy             ScoredBy       `json:"scored_by"`
}

// Posting is the canonical unit flowing through the pipeline.
type Posting struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Category    Category  `json:"category"`
	Type        string    `json:"type"`
	DatePosted  string    `json:"date_posted"`
	ScrapedAt   time.Time `json:"scraped_at"`

	Salary      string   `json:"salary,omitempty"`
	Sponsorship bool     `json:"sponsorship,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Match       *Match `json:"match,omitempty"`
	AutoApplied bool   `json:"auto_applied,omitempty"`
}

// Identity returns the stable identifier used for deduplication: the
// source-qualified id, falling back to the url. Empty when the posting has
// neither and therefore cannot be deduplicated.
func (p *Posting) Identity() string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return strings.TrimSpace(p.URL)
}

// Validate reports whether the posting is well-formed enough to enter the
// pipeline. Enforced once at the aggregator boundary so downstream
// components never branch on field presence.
func (p *Posting) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("posting has no title")
	}
	if p.Identity() == "" {
		return fmt.Errorf("posting %q has neither id nor url", p.Title)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("posting %q has unknown category %q", p.Title, p.Category)
	}
	if strings.TrimSpace(p.Source) == "" {
		return fmt.Errorf("posting %q has no source", p.Title)
	}
	return nil
}

// Score returns the match score, or 0 when the posting has not been scored.
func (p *Posting) Score() int {
	if p.Match == nil {
		return 0
	}
	return p.Match.Score
}

// ClampScore forces a score into the [0, 100] range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
