// Package source fetches QA/testing postings from external job boards. Each
// adapter runs one bounded fetch per call; transient failures are logged and
// contribute zero results instead of failing the run.
package source

import (
	"context"
	"strings"

	"github.com/sdet-tools/jobhunt/internal/job"
)

// Adapter source names as they appear in Posting.Source.
const (
	RemotiveName       = "remotive"
	HimalayasName      = "himalayas"
	WeWorkRemotelyName = "weworkremotely"
	RelocateMeName     = "relocate.me"
	NaukriName         = "naukri"
	LinkedInName       = "linkedin"
)

// Adapter is one job board. Fetch performs a single finite pass and never
// returns a partial-failure error: a board being down yields an empty slice.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]*job.Posting, error)
}

// roleKeywords mark a title as part of the QA/testing role family. Broader
// than the scoring keywords on purpose: this gate only keeps postings worth
// scoring at all.
var roleKeywords = []string{"qa", "test", "quality", "sdet", "automation"}

// QARole reports whether the title belongs to the QA/testing role family.
func QARole(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range roleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// descriptionLimit bounds stored descriptions; the scoring prompt never uses
// more than this anyway.
const descriptionLimit = 2000

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// capPostings bounds a result list to max entries. max <= 0 means unbounded.
func capPostings(postings []*job.Posting, max int) []*job.Posting {
	if max > 0 && len(postings) > max {
		return postings[:max]
	}
	return postings
}
