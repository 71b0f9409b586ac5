package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const remotiveFixture = `{
	"jobs": [
		{
			"id": 12345,
			"title": "Senior QA Automation Engineer",
			"company_name": "Acme",
			"candidate_required_location": "Worldwide",
			"url": "https://remotive.com/remote-jobs/qa/senior-qa-12345",
			"description": "Automate all the things with Selenium and Playwright.",
			"publication_date": "2026-08-20",
			"salary": "$90k",
			"tags": ["selenium", "playwright"]
		},
		{
			"id": 12346,
			"title": "Marketing Manager",
			"company_name": "Acme",
			"url": "https://remotive.com/remote-jobs/marketing/manager-12346"
		}
	]
}`

func TestRemotiveFetch(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Query().Get("category") != "qa" {
			t.Errorf("missing category filter in %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remotiveFixture))
	}))

	adapter := NewRemotive(newTestClient(), 0, zap.NewNop())
	adapter.baseURL = serverURL(t, server)

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// One query per search term; the marketing role is filtered out.
	if got := atomic.LoadInt32(&requests); got != int32(len(remotiveQueries)) {
		t.Fatalf("expected %d requests, got %d", len(remotiveQueries), got)
	}
	if len(postings) != len(remotiveQueries) {
		t.Fatalf("expected %d postings, got %d", len(remotiveQueries), len(postings))
	}

	p := postings[0]
	if p.ID != "remotive_12345" {
		t.Fatalf("unexpected id %q", p.ID)
	}
	if p.Source != RemotiveName || p.Category != job.CategoryWorldwideRemote {
		t.Fatalf("unexpected source/category: %s/%s", p.Source, p.Category)
	}
	if p.Type != "Remote Worldwide" {
		t.Fatalf("unexpected type label %q", p.Type)
	}
	if !strings.Contains(p.Description, "Selenium") {
		t.Fatalf("description not carried over: %q", p.Description)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("emitted posting invalid: %v", err)
	}
}

func TestRemotiveFetchServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	adapter := NewRemotive(newTestClient(), 0, zap.NewNop())
	adapter.baseURL = serverURL(t, server)

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("board failure must not surface: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("expected no postings, got %d", len(postings))
	}
}

func TestRemotiveFetchRespectsMaxJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(remotiveFixture))
	}))

	adapter := NewRemotive(newTestClient(), 2, zap.NewNop())
	adapter.baseURL = serverURL(t, server)

	postings, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(postings))
	}
}
