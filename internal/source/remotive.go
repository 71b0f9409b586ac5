package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

var remotiveQueries = []string{"qa", "test", "sdet", "quality assurance"}

// Remotive fetches worldwide remote QA postings from the Remotive API.
type Remotive struct {
	client  *Client
	logger  *zap.Logger
	maxJobs int

	baseURL string
	now     func() time.Time
}

func NewRemotive(client *Client, maxJobs int, log *zap.Logger) *Remotive {
	return &Remotive{
		client:  client,
		logger:  log,
		maxJobs: maxJobs,
		baseURL: remotiveAPIURL,
		now:     time.Now,
	}
}

func (r *Remotive) Name() string { return RemotiveName }

type remotiveJob struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	Location        string   `json:"candidate_required_location"`
	URL             string   `json:"url"`
	Description     string   `json:"description"`
	PublicationDate string   `json:"publication_date"`
	Salary          string   `json:"salary"`
	Tags            []string `json:"tags"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

func (r *Remotive) Fetch(ctx context.Context) ([]*job.Posting, error) {
	var postings []*job.Posting

	for i, query := range remotiveQueries {
		endpoint := fmt.Sprintf("%s?category=qa&search=%s&limit=20", r.baseURL, url.QueryEscape(query))

		var resp remotiveResponse
		if err := r.client.GetJSON(ctx, endpoint, &resp); err != nil {
			r.logger.Warn("remotive query failed",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		for _, j := range resp.Jobs {
			if !QARole(j.Title) {
				continue
			}
			location := j.Location
			if location == "" {
				location = "Worldwide"
			}
			postings = append(postings, &job.Posting{
				ID:          fmt.Sprintf("remotive_%d", j.ID),
				URL:         j.URL,
				Title:       j.Title,
				Company:     j.CompanyName,
				Location:    location,
				Description: truncate(j.Description, descriptionLimit),
				Source:      RemotiveName,
				Category:    job.CategoryWorldwideRemote,
				Type:        job.CategoryWorldwideRemote.TypeLabel(),
				DatePosted:  j.PublicationDate,
				ScrapedAt:   r.now().UTC(),
				Salary:      j.Salary,
				Tags:        j.Tags,
			})
		}

		if i+1 < len(remotiveQueries) {
			r.client.Pause(ctx, time.Second, 2*time.Second)
		}
	}

	return capPostings(postings, r.maxJobs), nil
}
