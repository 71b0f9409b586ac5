package source

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const relocateMeSiteURL = "https://relocate.me"

var relocateMeSearches = []string{"qa-automation-engineer", "software-tester", "sdet"}

const relocateMeMaxPerSearch = 20

// RelocateMe scrapes relocate.me search pages for visa-sponsored roles.
// Every posting it emits is sponsorship_abroad with sponsorship set.
type RelocateMe struct {
	client  *Client
	logger  *zap.Logger
	maxJobs int

	baseURL string
	now     func() time.Time
}

func NewRelocateMe(client *Client, maxJobs int, log *zap.Logger) *RelocateMe {
	return &RelocateMe{
		client:  client,
		logger:  log,
		maxJobs: maxJobs,
		baseURL: relocateMeSiteURL,
		now:     time.Now,
	}
}

func (r *RelocateMe) Name() string { return RelocateMeName }

func (r *RelocateMe) Fetch(ctx context.Context) ([]*job.Posting, error) {
	var postings []*job.Posting

	for i, search := range relocateMeSearches {
		doc, err := r.client.GetDocument(ctx, r.baseURL+"/search?q="+search)
		if err != nil {
			r.logger.Warn("relocate.me search failed",
				zap.String("search", search),
				zap.Error(err),
			)
			continue
		}

		postings = append(postings, r.extract(doc)...)

		if i+1 < len(relocateMeSearches) {
			r.client.Pause(ctx, 2*time.Second, 3*time.Second)
		}
	}

	return capPostings(postings, r.maxJobs), nil
}

func (r *RelocateMe) extract(doc *goquery.Document) []*job.Posting {
	var postings []*job.Posting

	doc.Find(".job-card, [data-testid='job-card'], article.job").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= relocateMeMaxPerSearch {
			return false
		}

		title := strings.TrimSpace(card.Find("h2, h3, .job-title, [class*='title']").First().Text())
		company := strings.TrimSpace(card.Find(".company-name, [class*='company']").First().Text())
		location := strings.TrimSpace(card.Find(".location, [class*='location']").First().Text())
		href, _ := card.Find("a[href]").First().Attr("href")

		if title == "" || href == "" || !QARole(title) {
			return true
		}

		jobURL := href
		if !strings.HasPrefix(href, "http") {
			jobURL = r.baseURL + href
		}
		segments := strings.Split(strings.TrimRight(href, "/"), "/")
		slug := segments[len(segments)-1]

		postings = append(postings, &job.Posting{
			ID:          "relocate_" + slug,
			URL:         jobURL,
			Title:       title,
			Company:     company,
			Location:    location,
			Source:      RelocateMeName,
			Category:    job.CategorySponsorshipAbroad,
			Type:        job.CategorySponsorshipAbroad.TypeLabel(),
			Sponsorship: true,
			DatePosted:  r.now().UTC().Format("2006-01-02"),
			ScrapedAt:   r.now().UTC(),
		})
		return true
	})

	return postings
}
