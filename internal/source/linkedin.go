package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/utils"
)

const (
	linkedInSearchURL = "https://www.linkedin.com/jobs/search/"

	// Public search works without login but gets shallower results, so the
	// number of searches per category is kept small either way.
	linkedInSearchesPerCategory = 3
	linkedInMaxPerSearch        = 20
	linkedInScrolls             = 3
)

type linkedInSearch struct {
	keywords string
	location string
	remote   bool
}

var linkedInSponsorshipSearches = []linkedInSearch{
	{keywords: "QA Automation Engineer visa sponsorship", location: "United States"},
	{keywords: "SDET visa sponsorship relocation", location: "United Kingdom"},
	{keywords: "Test Automation Engineer sponsorship", location: "Germany"},
	{keywords: "QA Engineer sponsorship", location: "Canada"},
	{keywords: "QA Automation Engineer relocation", location: "Australia"},
	{keywords: "Software Test Engineer visa", location: "Netherlands"},
	{keywords: "QA Engineer sponsorship", location: "Singapore"},
	{keywords: "Test Automation Engineer visa sponsorship", location: "Dubai"},
}

var linkedInWorldwideSearches = []linkedInSearch{
	{keywords: "QA Automation Engineer", remote: true},
	{keywords: "SDET remote worldwide", remote: true},
	{keywords: "Test Automation Engineer remote", remote: true},
	{keywords: "Software Test Engineer remote", remote: true},
	{keywords: "QA Lead remote", remote: true},
}

func linkedInHomeCountrySearches(country string) []linkedInSearch {
	return []linkedInSearch{
		{keywords: "QA Automation Engineer remote", location: country, remote: true},
		{keywords: "SDET remote work from home", location: country, remote: true},
		{keywords: "Test Automation Engineer remote " + country, location: country, remote: true},
		{keywords: "QA Engineer remote", location: country, remote: true},
	}
}

// LinkedIn drives a browser session over the public jobs search for all
// three categories. The session is shared so an optional login carries over.
type LinkedIn struct {
	renderer    Renderer
	homeCountry string
	logger      *zap.Logger
	maxJobs     int

	now  func() time.Time
	wait func(ctx context.Context, minD, maxD time.Duration) error
}

func NewLinkedIn(renderer Renderer, homeCountry string, maxJobs int, log *zap.Logger) *LinkedIn {
	return &LinkedIn{
		renderer:    renderer,
		homeCountry: homeCountry,
		logger:      log,
		maxJobs:     maxJobs,
		now:         time.Now,
		wait:        utils.WaitBetween,
	}
}

func (l *LinkedIn) Name() string { return LinkedInName }

func (l *LinkedIn) Fetch(ctx context.Context) ([]*job.Posting, error) {
	var postings []*job.Posting
	for _, category := range job.Categories() {
		postings = append(postings, l.fetchCategory(ctx, category)...)
	}
	return postings, nil
}

func (l *LinkedIn) fetchCategory(ctx context.Context, category job.Category) []*job.Posting {
	searches := l.searchesFor(category)
	if len(searches) > linkedInSearchesPerCategory {
		searches = searches[:linkedInSearchesPerCategory]
	}

	var postings []*job.Posting
	for i, search := range searches {
		if l.maxJobs > 0 && len(postings) >= l.maxJobs {
			break
		}

		html, err := l.renderer.Render(ctx, buildLinkedInSearchURL(search), linkedInScrolls)
		if err != nil {
			l.logger.Warn("linkedin search failed",
				zap.String("keywords", search.keywords),
				zap.String("category", string(category)),
				zap.Error(err),
			)
			continue
		}

		cards, err := l.extractJobCards(html, category)
		if err != nil {
			l.logger.Warn("linkedin result page unparsable",
				zap.String("keywords", search.keywords),
				zap.Error(err),
			)
			continue
		}
		postings = append(postings, cards...)

		l.logger.Debug("linkedin search done",
			zap.String("keywords", search.keywords),
			zap.Int("found", len(cards)),
		)

		if i+1 < len(searches) {
			if err := l.wait(ctx, 3*time.Second, 7*time.Second); err != nil {
				break
			}
		}
	}

	return capPostings(postings, l.maxJobs)
}

func (l *LinkedIn) searchesFor(category job.Category) []linkedInSearch {
	switch category {
	case job.CategorySponsorshipAbroad:
		return linkedInSponsorshipSearches
	case job.CategoryHomeCountryRemote:
		if l.homeCountry == "" {
			return nil
		}
		return linkedInHomeCountrySearches(l.homeCountry)
	case job.CategoryWorldwideRemote:
		return linkedInWorldwideSearches
	}
	return nil
}

// buildLinkedInSearchURL assembles a public jobs search URL: last 24 hours,
// newest first, remote filter when requested.
func buildLinkedInSearchURL(search linkedInSearch) string {
	q := url.Values{}
	q.Set("keywords", search.keywords)
	if search.location != "" {
		q.Set("location", search.location)
	}
	if search.remote {
		q.Set("f_WT", "2")
	}
	q.Set("f_TPR", "r86400")
	q.Set("sortBy", "DD")
	return linkedInSearchURL + "?" + q.Encode()
}

func (l *LinkedIn) extractJobCards(html string, category job.Category) ([]*job.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var postings []*job.Posting
	doc.Find(".job-search-card, .jobs-search__results-list li, .base-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= linkedInMaxPerSearch {
			return false
		}

		title := strings.TrimSpace(card.Find(".base-search-card__title, h3.job-search-card__title").First().Text())
		company := strings.TrimSpace(card.Find(".base-search-card__subtitle, h4.base-search-card__subtitle").First().Text())
		location := strings.TrimSpace(card.Find(".job-search-card__location, .base-search-card__metadata span").First().Text())
		href, _ := card.Find("a.base-card__full-link, a[href*='/jobs/view/']").First().Attr("href")
		datePosted, _ := card.Find("time").First().Attr("datetime")

		if title == "" || href == "" || !QARole(title) {
			return true
		}
		if datePosted == "" {
			datePosted = l.now().UTC().Format("2006-01-02")
		}

		jobURL := stripTrackingParams(href)
		segments := strings.Split(strings.TrimRight(jobURL, "/"), "/")

		postings = append(postings, &job.Posting{
			ID:         segments[len(segments)-1],
			URL:        jobURL,
			Title:      title,
			Company:    company,
			Location:   location,
			Source:     LinkedInName,
			Category:   category,
			Type:       category.TypeLabel(),
			DatePosted: datePosted,
			ScrapedAt:  l.now().UTC(),
		})
		return true
	})

	return postings, nil
}

// stripTrackingParams drops the query string LinkedIn appends to card links,
// leaving a stable canonical job URL.
func stripTrackingParams(rawURL string) string {
	if i := strings.Index(rawURL, "?"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
