package match

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sdet-tools/jobhunt/internal/ai"
	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/logger"
	"github.com/sdet-tools/jobhunt/internal/profile"
	"github.com/sdet-tools/jobhunt/internal/utils"
	"go.uber.org/zap"
)

const (
	// MinDescriptionLength is the description size below which the AI path
	// is skipped in favor of title-based scoring.
	MinDescriptionLength = 100

	// The external AI service is paced unconditionally: a pause after every
	// chunk of postings, not a measured backoff.
	batchChunkSize = 10
	batchPause     = 3 * time.Second
)

// Engine annotates postings with match assessments. The AI scorer is the
// primary path; its failures are recoverable conditions routed to the
// deterministic title fallback, never pipeline errors.
type Engine struct {
	scorer  ai.Scorer
	advisor ai.Generator
	profile *profile.Profile
	logger  *zap.Logger

	wait func(ctx context.Context, d time.Duration) error
}

func NewEngine(scorer ai.Scorer, advisor ai.Generator, prof *profile.Profile, log *zap.Logger) *Engine {
	return &Engine{
		scorer:  scorer,
		advisor: advisor,
		profile: prof,
		logger:  log,
		wait:    utils.WaitFor,
	}
}

// Score annotates the posting in place and returns it. A posting is never
// removed here; thresholding is the caller's concern.
func (e *Engine) Score(ctx context.Context, p *job.Posting) *job.Posting {
	description := strings.TrimSpace(p.Description)

	if len(description) < MinDescriptionLength {
		e.logger.Debug("short description, using title-based scoring",
			zap.String("posting_id", p.ID),
			zap.Int("description_length", len(description)),
		)
		p.Match = TitleFallback(p, e.profile)
		return p
	}

	if e.scorer == nil {
		p.Match = TitleFallback(p, e.profile)
		return p
	}

	match, err := e.scorer.Score(ctx, p, e.profile)
	if err != nil {
		e.logger.Warn("AI scoring failed, using title fallback",
			zap.String("posting_id", p.ID),
			zap.String("title", p.Title),
			zap.Error(err),
		)
		p.Match = TitleFallback(p, e.profile)
		return p
	}

	match.Score = job.ClampScore(match.Score)
	p.Match = match
	return p
}

// BatchScore scores every posting, keeps those at or above minScore and
// returns them ranked by score descending. The sort is stable: ties keep
// input order.
func (e *Engine) BatchScore(ctx context.Context, postings []*job.Posting, minScore int) []*job.Posting {
	fallbacks := 0
	for i, p := range postings {
		e.Score(ctx, p)
		if p.Match != nil && p.Match.ScoredBy == job.ScoredByTitleFallback {
			fallbacks++
		}

		e.logger.Debug("scored posting",
			zap.Int("index", i+1),
			zap.Int("total", len(postings)),
			zap.String("title", logger.TruncateForLog(p.Title, 40)),
			zap.Int("score", p.Score()),
		)

		if (i+1)%batchChunkSize == 0 && i+1 < len(postings) {
			if err := e.wait(ctx, batchPause); err != nil {
				e.logger.Debug("batch pacing interrupted", zap.Error(err))
			}
		}
	}

	kept := make([]*job.Posting, 0, len(postings))
	for _, p := range postings {
		if p.Score() >= minScore {
			kept = append(kept, p)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score() > kept[j].Score()
	})

	e.logger.Info("batch scoring done",
		zap.Int("scored", len(postings)),
		zap.Int("matched", len(kept)),
		zap.Int("min_score", minScore),
		zap.Int("fallback_scored", fallbacks),
	)

	return kept
}
