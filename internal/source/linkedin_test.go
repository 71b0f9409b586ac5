package source

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const linkedInFixture = `<html><body>
<ul class="jobs-search__results-list">
	<li>
		<div class="base-card job-search-card">
			<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/sdet-at-acme-4021337042?refId=abc&trackingId=xyz"></a>
			<h3 class="base-search-card__title">SDET</h3>
			<h4 class="base-search-card__subtitle">Acme</h4>
			<span class="job-search-card__location">Berlin, Germany</span>
			<time datetime="2026-08-28"></time>
		</div>
	</li>
	<li>
		<div class="base-card job-search-card">
			<a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/chef-de-partie-4021337099"></a>
			<h3 class="base-search-card__title">Chef de Partie</h3>
			<h4 class="base-search-card__subtitle">Bistro</h4>
		</div>
	</li>
</ul>
</body></html>`

type stubRenderer struct {
	html string
	err  error
	urls []string
}

func (s *stubRenderer) Render(_ context.Context, url string, _ int) (string, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return "", s.err
	}
	return s.html, nil
}

func newTestLinkedIn(r Renderer, homeCountry string) *LinkedIn {
	a := NewLinkedIn(r, homeCountry, 0, zap.NewNop())
	a.wait = func(context.Context, time.Duration, time.Duration) error { return nil }
	return a
}

func TestLinkedInExtractJobCards(t *testing.T) {
	adapter := newTestLinkedIn(&stubRenderer{}, "India")

	postings, err := adapter.extractJobCards(linkedInFixture, job.CategorySponsorshipAbroad)
	if err != nil {
		t.Fatalf("extractJobCards: %v", err)
	}

	// Only the SDET card; the kitchen role fails the QA gate.
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}

	p := postings[0]
	if p.URL != "https://www.linkedin.com/jobs/view/sdet-at-acme-4021337042" {
		t.Fatalf("tracking params not stripped: %q", p.URL)
	}
	if p.ID != "sdet-at-acme-4021337042" {
		t.Fatalf("unexpected id %q", p.ID)
	}
	if p.Company != "Acme" || p.Location != "Berlin, Germany" {
		t.Fatalf("unexpected card fields: %q / %q", p.Company, p.Location)
	}
	if p.DatePosted != "2026-08-28" {
		t.Fatalf("unexpected date %q", p.DatePosted)
	}
	if p.Source != LinkedInName || p.Category != job.CategorySponsorshipAbroad {
		t.Fatalf("unexpected source/category: %s/%s", p.Source, p.Category)
	}
}

func TestLinkedInFetchCoversAllCategories(t *testing.T) {
	renderer := &stubRenderer{html: linkedInFixture}
	adapter := newTestLinkedIn(renderer, "India")

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// One SDET per search, capped searches per category, three categories.
	want := 3 * linkedInSearchesPerCategory
	if len(postings) != want {
		t.Fatalf("expected %d postings, got %d", want, len(postings))
	}

	categories := make(map[job.Category]int)
	for _, p := range postings {
		categories[p.Category]++
	}
	for _, c := range job.Categories() {
		if categories[c] == 0 {
			t.Fatalf("category %s missing from results", c)
		}
	}
}

func TestLinkedInSkipsHomeCountryWithoutCountry(t *testing.T) {
	renderer := &stubRenderer{html: linkedInFixture}
	adapter := newTestLinkedIn(renderer, "")

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	for _, p := range postings {
		if p.Category == job.CategoryHomeCountryRemote {
			t.Fatal("home-country search ran without a home country")
		}
	}
}

func TestLinkedInRendererErrorsAbsorbed(t *testing.T) {
	adapter := newTestLinkedIn(&stubRenderer{err: errors.New("browser crashed")}, "India")

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("renderer failure must not surface: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected no postings, got %d", len(postings))
	}
}

func TestBuildLinkedInSearchURL(t *testing.T) {
	got := buildLinkedInSearchURL(linkedInSearch{
		keywords: "QA Engineer remote",
		location: "Bangalore, Karnataka, India",
		remote:   true,
	})

	for _, want := range []string{
		"keywords=QA+Engineer+remote",
		"location=Bangalore%2C+Karnataka%2C+India",
		"f_WT=2",
		"f_TPR=r86400",
		"sortBy=DD",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("url missing %q: %s", want, got)
		}
	}

	noRemote := buildLinkedInSearchURL(linkedInSearch{keywords: "QA Engineer"})
	if strings.Contains(noRemote, "f_WT") {
		t.Fatalf("unexpected remote filter: %s", noRemote)
	}
}
