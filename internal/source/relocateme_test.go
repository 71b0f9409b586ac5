package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const relocateMeFixture = `<html><body>
<div class="job-card">
	<h3>QA Automation Engineer</h3>
	<div class="company-name">Globex GmbH</div>
	<div class="location">Berlin, Germany</div>
	<a href="/jobs/qa-automation-engineer-berlin-4711">View</a>
</div>
<div class="job-card">
	<h3>Frontend Engineer</h3>
	<div class="company-name">Globex GmbH</div>
	<a href="/jobs/frontend-engineer-4712">View</a>
</div>
</body></html>`

func TestRelocateMeFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(relocateMeFixture))
	}))

	adapter := NewRelocateMe(newTestClient(), 0, zap.NewNop())
	adapter.baseURL = serverURL(t, server)

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(postings) != len(relocateMeSearches) {
		t.Fatalf("expected %d postings, got %d", len(relocateMeSearches), len(postings))
	}

	p := postings[0]
	if p.ID != "relocate_qa-automation-engineer-berlin-4711" {
		t.Fatalf("unexpected id %q", p.ID)
	}
	if p.URL != adapter.baseURL+"/jobs/qa-automation-engineer-berlin-4711" {
		t.Fatalf("unexpected url %q", p.URL)
	}
	if p.Category != job.CategorySponsorshipAbroad {
		t.Fatalf("unexpected category %s", p.Category)
	}
	if !p.Sponsorship {
		t.Fatal("expected sponsorship flag set")
	}
	if p.Type != "Abroad (Sponsorship)" {
		t.Fatalf("unexpected type label %q", p.Type)
	}
}

func TestRelocateMeAbsoluteLinksKeptAsIs(t *testing.T) {
	fixture := `<html><body><div class="job-card">
		<h3>SDET</h3>
		<a href="https://relocate.me/jobs/sdet-42">View</a>
	</div></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(fixture))
	}))

	adapter := NewRelocateMe(newTestClient(), 1, zap.NewNop())
	adapter.baseURL = serverURL(t, server)

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	if postings[0].URL != "https://relocate.me/jobs/sdet-42" {
		t.Fatalf("unexpected url %q", postings[0].URL)
	}
}
