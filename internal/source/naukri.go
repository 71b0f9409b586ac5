package source

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const naukriSiteURL = "https://www.naukri.com"

var naukriSearches = []string{
	"QA automation engineer remote",
	"test automation engineer work from home",
	"SDET remote",
	"software tester remote",
}

const (
	naukriMaxPerSearch = 20
	naukriIDLimit      = 30
)

// Naukri scrapes naukri.com for home-country remote roles. Only meaningful
// for candidates based in India; the caller gates on the profile's home
// country before wiring it in.
type Naukri struct {
	client  *Client
	logger  *zap.Logger
	maxJobs int

	baseURL string
	now     func() time.Time
}

func NewNaukri(client *Client, maxJobs int, log *zap.Logger) *Naukri {
	return &Naukri{
		client:  client,
		logger:  log,
		maxJobs: maxJobs,
		baseURL: naukriSiteURL,
		now:     time.Now,
	}
}

func (n *Naukri) Name() string { return NaukriName }

func (n *Naukri) Fetch(ctx context.Context) ([]*job.Posting, error) {
	var postings []*job.Posting

	for i, search := range naukriSearches {
		slug := strings.ReplaceAll(search, " ", "-")
		endpoint := n.baseURL + "/" + slug + "-jobs?jobType=work+from+home&wfhType=wfh"

		doc, err := n.client.GetDocument(ctx, endpoint)
		if err != nil {
			n.logger.Warn("naukri search failed",
				zap.String("search", search),
				zap.Error(err),
			)
			continue
		}

		postings = append(postings, n.extract(doc)...)

		if i+1 < len(naukriSearches) {
			n.client.Pause(ctx, 3*time.Second, 5*time.Second)
		}
	}

	return capPostings(postings, n.maxJobs), nil
}

func (n *Naukri) extract(doc *goquery.Document) []*job.Posting {
	var postings []*job.Posting

	doc.Find("article.jobTuple, [class*='jobTupleHeader'], .job-container").EachWithBreak(func(i int, article *goquery.Selection) bool {
		if i >= naukriMaxPerSearch {
			return false
		}

		titleEl := article.Find("a.title, [class*='jobTitle'] a, .designation a").First()
		title := strings.TrimSpace(titleEl.Text())
		href, _ := titleEl.Attr("href")
		company := strings.TrimSpace(article.Find(".companyInfo a, [class*='companyName']").First().Text())
		location := strings.TrimSpace(article.Find(".location, [class*='location']").First().Text())

		if title == "" || href == "" || !QARole(title) {
			return true
		}
		if location == "" {
			location = "Remote"
		}

		segments := strings.Split(strings.TrimRight(href, "/"), "/")
		slug := segments[len(segments)-1]
		if len(slug) > naukriIDLimit {
			slug = slug[:naukriIDLimit]
		}

		postings = append(postings, &job.Posting{
			ID:         "naukri_" + slug,
			URL:        href,
			Title:      title,
			Company:    company,
			Location:   "India - Remote (" + location + ")",
			Source:     NaukriName,
			Category:   job.CategoryHomeCountryRemote,
			Type:       job.CategoryHomeCountryRemote.TypeLabel(),
			DatePosted: n.now().UTC().Format("2006-01-02"),
			ScrapedAt:  n.now().UTC(),
		})
		return true
	})

	return postings
}
