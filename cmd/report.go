package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sdet-tools/jobhunt/internal/apply"
	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/match"
)

// report is the JSON document the external HTML reporter and dashboard
// consume. The core pipeline only produces it.
type report struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	TotalScraped int                 `json:"total_scraped"`
	TotalMatched int                 `json:"total_matched"`
	Jobs         []*job.Posting      `json:"jobs"`
	SkillGap     *match.SkillGapPlan `json:"skill_gap"`
	Applications apply.Summary       `json:"applications"`
	Stats        reportStats         `json:"stats"`
}

type reportStats struct {
	Excellent         int `json:"excellent"`
	Good              int `json:"good"`
	SponsorshipAbroad int `json:"sponsorship_abroad"`
	HomeCountryRemote int `json:"home_country_remote"`
	WorldwideRemote   int `json:"worldwide_remote"`
}

func writeReport(path string, matched job.Buckets, plan *match.SkillGapPlan, totalScraped int, applications apply.Summary) error {
	jobs := matched.Flatten()
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Score() > jobs[j].Score()
	})

	stats := reportStats{
		SponsorshipAbroad: len(matched[job.CategorySponsorshipAbroad]),
		HomeCountryRemote: len(matched[job.CategoryHomeCountryRemote]),
		WorldwideRemote:   len(matched[job.CategoryWorldwideRemote]),
	}
	for _, p := range jobs {
		switch score := p.Score(); {
		case score >= 80:
			stats.Excellent++
		case score >= 60:
			stats.Good++
		}
	}

	doc := report{
		GeneratedAt:  time.Now().UTC(),
		TotalScraped: totalScraped,
		TotalMatched: len(jobs),
		Jobs:         jobs,
		SkillGap:     plan,
		Applications: applications,
		Stats:        stats,
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}
