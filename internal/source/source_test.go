package source

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

// newTestClient returns a Client with pacing disabled, pointed at nothing in
// particular; adapters override their base URLs with the test server's.
func newTestClient() *Client {
	c := NewClient(zap.NewNop())
	c.wait = func(context.Context, time.Duration, time.Duration) error { return nil }
	return c
}

func serverURL(t *testing.T, s *httptest.Server) string {
	t.Helper()
	t.Cleanup(s.Close)
	return s.URL
}

func TestQARole(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Senior QA Automation Engineer", true},
		{"SDET II", true},
		{"Software Tester", true},
		{"Quality Engineer", true},
		{"Test Automation Lead", true},
		{"Backend Developer", false},
		{"Account Manager", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := QARole(tc.title); got != tc.want {
			t.Errorf("QARole(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestCapPostings(t *testing.T) {
	postings := []*job.Posting{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	if got := capPostings(postings, 2); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := capPostings(postings, 0); len(got) != 3 {
		t.Fatalf("expected unbounded with 0, got %d", len(got))
	}
	if got := capPostings(postings, 10); len(got) != 3 {
		t.Fatalf("expected 3 with large cap, got %d", len(got))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
