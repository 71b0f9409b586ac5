package source

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const wwrSiteURL = "https://weworkremotely.com"

var wwrCategoryPaths = []string{
	"/categories/remote-programming-jobs",
	"/categories/remote-qa-jobs",
}

const wwrMaxPerPage = 30

// WeWorkRemotely scrapes the We Work Remotely category listing pages.
// Listings carry no description; enrichment fills it in later if needed.
type WeWorkRemotely struct {
	client  *Client
	logger  *zap.Logger
	maxJobs int

	baseURL string
	now     func() time.Time
}

func NewWeWorkRemotely(client *Client, maxJobs int, log *zap.Logger) *WeWorkRemotely {
	return &WeWorkRemotely{
		client:  client,
		logger:  log,
		maxJobs: maxJobs,
		baseURL: wwrSiteURL,
		now:     time.Now,
	}
}

func (w *WeWorkRemotely) Name() string { return WeWorkRemotelyName }

func (w *WeWorkRemotely) Fetch(ctx context.Context) ([]*job.Posting, error) {
	var postings []*job.Posting

	for i, path := range wwrCategoryPaths {
		doc, err := w.client.GetDocument(ctx, w.baseURL+path)
		if err != nil {
			w.logger.Warn("weworkremotely page failed",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}

		postings = append(postings, w.extract(doc)...)

		if i+1 < len(wwrCategoryPaths) {
			w.client.Pause(ctx, 2*time.Second, 4*time.Second)
		}
	}

	return capPostings(postings, w.maxJobs), nil
}

func (w *WeWorkRemotely) extract(doc *goquery.Document) []*job.Posting {
	var postings []*job.Posting

	doc.Find("section.jobs article").EachWithBreak(func(i int, article *goquery.Selection) bool {
		if i >= wwrMaxPerPage {
			return false
		}

		title := strings.TrimSpace(article.Find("span.title").First().Text())
		company := strings.TrimSpace(article.Find("span.company").First().Text())
		location := strings.TrimSpace(article.Find("span.region").First().Text())
		href, _ := article.Find("a[href*='/remote-jobs/']").First().Attr("href")

		if title == "" || href == "" || !QARole(title) {
			return true
		}
		if location == "" {
			location = "Worldwide"
		}

		jobURL := w.baseURL + href
		segments := strings.Split(strings.TrimRight(href, "/"), "/")
		slug := segments[len(segments)-1]

		postings = append(postings, &job.Posting{
			ID:         "wwr_" + slug,
			URL:        jobURL,
			Title:      title,
			Company:    company,
			Location:   location,
			Source:     WeWorkRemotelyName,
			Category:   job.CategoryWorldwideRemote,
			Type:       job.CategoryWorldwideRemote.TypeLabel(),
			DatePosted: w.now().UTC().Format("2006-01-02"),
			ScrapedAt:  w.now().UTC(),
		})
		return true
	})

	return postings
}
