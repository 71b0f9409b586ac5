package source

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const (
	// Descriptions at least this long are left alone; anything shorter is
	// also too short for AI scoring.
	enrichMinDescription = 100

	defaultEnrichBudget = 10
	enrichScrolls       = 0
)

// Board-specific description containers first, generic content blocks last.
var descriptionSelectors = []string{
	".description__text",
	".show-more-less-html__markup",
	".job-description",
	"[class*='job-details']",
	"[class*='description']",
	"article",
	"main",
}

// Enricher fills in missing descriptions by rendering the posting page.
// Strictly best effort: any failure leaves the posting untouched, and the
// per-run budget keeps a batch of sparse boards from turning into a crawl.
type Enricher struct {
	renderer Renderer
	budget   int
	logger   *zap.Logger
}

func NewEnricher(renderer Renderer, budget int, log *zap.Logger) *Enricher {
	if budget <= 0 {
		budget = defaultEnrichBudget
	}
	return &Enricher{
		renderer: renderer,
		budget:   budget,
		logger:   log,
	}
}

// Enrich visits postings with short descriptions, up to the budget, and
// returns how many descriptions it filled in.
func (e *Enricher) Enrich(ctx context.Context, postings []*job.Posting) int {
	visited := 0
	enriched := 0

	for _, p := range postings {
		if len(strings.TrimSpace(p.Description)) >= enrichMinDescription || p.URL == "" {
			continue
		}
		if visited >= e.budget {
			break
		}
		visited++

		html, err := e.renderer.Render(ctx, p.URL, enrichScrolls)
		if err != nil {
			e.logger.Debug("enrichment fetch failed",
				zap.String("url", p.URL),
				zap.Error(err),
			)
			continue
		}

		description := extractDescription(html)
		if len(description) < enrichMinDescription {
			continue
		}

		p.Description = truncate(description, descriptionLimit)
		enriched++
	}

	if visited > 0 {
		e.logger.Info("description enrichment done",
			zap.Int("visited", visited),
			zap.Int("enriched", enriched),
			zap.Int("budget", e.budget),
		)
	}
	return enriched
}

// extractDescription pulls the main content block out of a rendered posting
// page, trying specific selectors before generic containers.
func extractDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, selector := range descriptionSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) >= enrichMinDescription {
			return normalizeWhitespace(text)
		}
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
