package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

func enrichPage(body string) string {
	return `<html><body><div class="description__text">` + body + `</div></body></html>`
}

func longBody() string {
	return strings.Repeat("You will own the test automation strategy. ", 5)
}

func TestEnrichFillsShortDescriptions(t *testing.T) {
	renderer := &stubRenderer{html: enrichPage(longBody())}
	enricher := NewEnricher(renderer, 10, zap.NewNop())

	postings := []*job.Posting{
		{URL: "https://example.com/jobs/1", Description: ""},
		{URL: "https://example.com/jobs/2", Description: longBody()}, // already long
	}

	enriched := enricher.Enrich(context.Background(), postings)

	if enriched != 1 {
		t.Fatalf("expected 1 enriched, got %d", enriched)
	}
	if !strings.Contains(postings[0].Description, "test automation strategy") {
		t.Fatalf("description not filled: %q", postings[0].Description)
	}
	if len(renderer.urls) != 1 {
		t.Fatalf("expected 1 page visit, got %d", len(renderer.urls))
	}
}

func TestEnrichRespectsBudget(t *testing.T) {
	renderer := &stubRenderer{html: enrichPage(longBody())}
	enricher := NewEnricher(renderer, 2, zap.NewNop())

	postings := make([]*job.Posting, 5)
	for i := range postings {
		postings[i] = &job.Posting{URL: "https://example.com/jobs/x", Description: ""}
	}

	enricher.Enrich(context.Background(), postings)

	if len(renderer.urls) != 2 {
		t.Fatalf("expected 2 visits under budget, got %d", len(renderer.urls))
	}
}

func TestEnrichLeavesPostingOnFailure(t *testing.T) {
	enricher := NewEnricher(&stubRenderer{err: errors.New("timeout")}, 10, zap.NewNop())

	p := &job.Posting{URL: "https://example.com/jobs/1", Description: "short"}
	enriched := enricher.Enrich(context.Background(), []*job.Posting{p})

	if enriched != 0 {
		t.Fatalf("expected no enrichment, got %d", enriched)
	}
	if p.Description != "short" {
		t.Fatalf("description mutated on failure: %q", p.Description)
	}
}

func TestEnrichSkipsUselessContent(t *testing.T) {
	renderer := &stubRenderer{html: enrichPage("Apply now")}
	enricher := NewEnricher(renderer, 10, zap.NewNop())

	p := &job.Posting{URL: "https://example.com/jobs/1", Description: ""}
	if enriched := enricher.Enrich(context.Background(), []*job.Posting{p}); enriched != 0 {
		t.Fatalf("expected no enrichment from a thin page, got %d", enriched)
	}
	if p.Description != "" {
		t.Fatalf("description set from thin page: %q", p.Description)
	}
}

func TestExtractDescriptionPrefersSpecificSelectors(t *testing.T) {
	html := `<html><body>
		<main>` + strings.Repeat("generic page chrome and navigation text here. ", 5) + `</main>
		<div class="job-description">` + longBody() + `</div>
	</body></html>`

	got := extractDescription(html)
	if !strings.Contains(got, "test automation strategy") {
		t.Fatalf("expected job-description block, got %q", got)
	}
}
