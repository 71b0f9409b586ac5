package job

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestIdentityPrefersID(t *testing.T) {
	p := &Posting{ID: "remotive_1", URL: "https://example.com/1"}
	if got := p.Identity(); got != "remotive_1" {
		t.Fatalf("expected id, got %q", got)
	}

	p = &Posting{URL: "https://example.com/1"}
	if got := p.Identity(); got != "https://example.com/1" {
		t.Fatalf("expected url fallback, got %q", got)
	}

	p = &Posting{ID: "   "}
	if got := p.Identity(); got != "" {
		t.Fatalf("expected empty identity, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := &Posting{
		ID:       "wwr_123",
		Title:    "QA Engineer",
		Source:   "weworkremotely",
		Category: CategoryWorldwideRemote,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name    string
		posting *Posting
	}{
		{"missing title", &Posting{ID: "1", Source: "s", Category: CategoryWorldwideRemote}},
		{"missing identity", &Posting{Title: "QA", Source: "s", Category: CategoryWorldwideRemote}},
		{"bad category", &Posting{ID: "1", Title: "QA", Source: "s", Category: "moon_remote"}},
		{"missing source", &Posting{ID: "1", Title: "QA", Category: CategoryWorldwideRemote}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.posting.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	if got := ClampScore(-5); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := ClampScore(120); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := ClampScore(85); got != 85 {
		t.Fatalf("expected 85, got %d", got)
	}
}

func TestCategoryTypeLabel(t *testing.T) {
	if got := CategorySponsorshipAbroad.TypeLabel(); got != "Abroad (Sponsorship)" {
		t.Fatalf("unexpected label: %q", got)
	}
	if Category("moon_remote").Valid() {
		t.Fatal("expected unknown category to be invalid")
	}
}

func TestBucketsFlattenAndTotal(t *testing.T) {
	b := NewBuckets()
	b[CategoryWorldwideRemote] = []*Posting{{ID: "a"}, {ID: "b"}}
	b[CategorySponsorshipAbroad] = []*Posting{{ID: "c"}}

	if b.Total() != 3 {
		t.Fatalf("expected total 3, got %d", b.Total())
	}

	flat := b.Flatten()
	if len(flat) != 3 {
		t.Fatalf("expected 3 postings, got %d", len(flat))
	}
	// Sponsorship category is reported first.
	if flat[0].ID != "c" {
		t.Fatalf("expected sponsorship posting first, got %q", flat[0].ID)
	}
}

func TestBucketsDumpToFile(t *testing.T) {
	b := NewBuckets()
	b[CategoryWorldwideRemote] = []*Posting{{ID: "a", Title: "QA Engineer"}}

	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := b.DumpToFile(path); err != nil {
		t.Fatalf("dump: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded map[string][]*Posting
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if len(decoded[string(CategoryWorldwideRemote)]) != 1 {
		t.Fatalf("expected 1 posting in dump, got %+v", decoded)
	}
}
