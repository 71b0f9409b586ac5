package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
)

const (
	himalayasAPIURL  = "https://himalayas.app/api/jobs"
	himalayasJobsURL = "https://himalayas.app/jobs"
)

var himalayasQueries = []string{
	"QA automation engineer",
	"SDET",
	"test automation engineer",
	"software test engineer",
}

// Himalayas fetches worldwide remote QA postings from the Himalayas API.
type Himalayas struct {
	client  *Client
	logger  *zap.Logger
	maxJobs int

	baseURL string
	jobsURL string
	now     func() time.Time
}

func NewHimalayas(client *Client, maxJobs int, log *zap.Logger) *Himalayas {
	return &Himalayas{
		client:  client,
		logger:  log,
		maxJobs: maxJobs,
		baseURL: himalayasAPIURL,
		jobsURL: himalayasJobsURL,
		now:     time.Now,
	}
}

func (h *Himalayas) Name() string { return HimalayasName }

type himalayasJob struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	LocationRestrictions []string `json:"locationRestrictions"`
	Description          string   `json:"description"`
	PublishedAt          string   `json:"publishedAt"`
	SalaryRange          string   `json:"salaryRange"`
}

type himalayasResponse struct {
	Jobs []himalayasJob `json:"jobs"`
}

func (h *Himalayas) Fetch(ctx context.Context) ([]*job.Posting, error) {
	var postings []*job.Posting

	for i, query := range himalayasQueries {
		endpoint := fmt.Sprintf("%s?q=%s&remote=true&limit=20", h.baseURL, url.QueryEscape(query))

		var resp himalayasResponse
		if err := h.client.GetJSON(ctx, endpoint, &resp); err != nil {
			h.logger.Warn("himalayas query failed",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		for _, j := range resp.Jobs {
			if j.Slug == "" || !QARole(j.Title) {
				continue
			}
			location := "Worldwide"
			if len(j.LocationRestrictions) > 0 {
				location = j.LocationRestrictions[0]
			}
			postings = append(postings, &job.Posting{
				ID:          "himalayas_" + j.Slug,
				URL:         h.jobsURL + "/" + j.Slug,
				Title:       j.Title,
				Company:     j.Company.Name,
				Location:    location,
				Description: truncate(j.Description, descriptionLimit),
				Source:      HimalayasName,
				Category:    job.CategoryWorldwideRemote,
				Type:        job.CategoryWorldwideRemote.TypeLabel(),
				DatePosted:  j.PublishedAt,
				ScrapedAt:   h.now().UTC(),
				Salary:      j.SalaryRange,
			})
		}

		if i+1 < len(himalayasQueries) {
			h.client.Pause(ctx, time.Second, 2*time.Second)
		}
	}

	return capPostings(postings, h.maxJobs), nil
}
