// Package aggregate merges adapter results into category buckets. This is
// the single validation and in-run dedup boundary: everything downstream can
// assume well-formed, unique postings.
package aggregate

import (
	"context"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/source"
)

// Aggregator runs adapters sequentially in the given order. Order matters:
// within one run the first occurrence of a url/id wins, so earlier adapters
// take priority over later ones for the same posting.
type Aggregator struct {
	adapters []source.Adapter
	logger   *zap.Logger
}

func New(adapters []source.Adapter, log *zap.Logger) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		logger:   log,
	}
}

// Run fetches from every adapter and returns validated, deduplicated
// postings bucketed by category. Adapter errors are absorbed here; a board
// being down never fails the run.
func (a *Aggregator) Run(ctx context.Context) job.Buckets {
	buckets := job.NewBuckets()
	seen := make(map[string]bool)

	for _, adapter := range a.adapters {
		postings, err := adapter.Fetch(ctx)
		if err != nil {
			a.logger.Warn("adapter failed",
				zap.String("adapter", adapter.Name()),
				zap.Error(err),
			)
			continue
		}

		fetched := len(postings)
		invalid := 0
		duplicates := 0
		kept := 0

		for _, p := range postings {
			if err := p.Validate(); err != nil {
				invalid++
				a.logger.Debug("dropping invalid posting",
					zap.String("adapter", adapter.Name()),
					zap.Error(err),
				)
				continue
			}

			key := dedupKey(p)
			if seen[key] {
				duplicates++
				continue
			}
			seen[key] = true

			buckets[p.Category] = append(buckets[p.Category], p)
			kept++
		}

		a.logger.Info("adapter done",
			zap.String("adapter", adapter.Name()),
			zap.Int("fetched", fetched),
			zap.Int("invalid", invalid),
			zap.Int("duplicates", duplicates),
			zap.Int("kept", kept),
		)
	}

	for _, category := range job.Categories() {
		a.logger.Info("category collected",
			zap.String("category", string(category)),
			zap.Int("postings", len(buckets[category])),
		)
	}

	return buckets
}

// dedupKey prefers the url: the same posting often reaches two boards with
// different source-qualified ids but the same canonical link.
func dedupKey(p *job.Posting) string {
	if p.URL != "" {
		return p.URL
	}
	return p.ID
}
