package ai

import (
	"context"

	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/profile"
)

// Scorer produces a match assessment for one posting against the candidate
// profile. A returned error means the AI path is unavailable for this
// posting; callers are expected to fall back, never to abort.
type Scorer interface {
	Score(ctx context.Context, posting *job.Posting, prof *profile.Profile) (*job.Match, error)
}

// Generator is the minimal text-completion capability used for secondary
// prompts such as the skill-gap plan.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
