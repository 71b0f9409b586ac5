// Package apply drives LinkedIn Easy Apply for eligible postings. Each
// attempt is a bounded state machine over a form abstraction; every terminal
// outcome is recorded in the application ledger.
package apply

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/ledger"
	"github.com/sdet-tools/jobhunt/internal/profile"
	"github.com/sdet-tools/jobhunt/internal/source"
	"github.com/sdet-tools/jobhunt/internal/utils"
)

const (
	// maxFormSteps bounds the Easy Apply modal walk. Forms longer than this
	// ask questions no default answer should touch.
	maxFormSteps = 8

	applyScoreThreshold    = 75
	DefaultMaxApplications = 10

	betweenApplications = 5 * time.Second
	settleDelay         = 2 * time.Second

	failureDetailLimit = 50
)

// Terminal statuses recorded in the application ledger.
const (
	StatusApplied      = "applied"
	StatusManualNeeded = "manual_needed"
	StatusTooManySteps = "too_many_steps"
	StatusTimedOut     = "timed_out"
	StatusNoApplyEntry = "no_apply_entry"
)

// ErrNoApplyEntry is returned by Session.Open when the posting page has no
// Easy Apply entry point.
var ErrNoApplyEntry = errors.New("no easy apply entry point")

// Form is one open Easy Apply modal. The driver only sees these primitives;
// the chromedp wiring lives behind them.
type Form interface {
	// SuccessText returns the visible confirmation text, or "" when the
	// modal shows no completion indicator yet.
	SuccessText(ctx context.Context) (string, error)

	// FillDefaults fills empty recognized fields: phone, city, resume
	// upload, yes radios, first non-empty select options, numeric
	// experience inputs.
	FillDefaults(ctx context.Context, answers Answers) error

	// PrimaryAction returns the label of the next/review/submit control,
	// or ok=false when the current step exposes none.
	PrimaryAction(ctx context.Context) (label string, ok bool, err error)

	ClickPrimary(ctx context.Context) error
}

// Session is one logged-in browser for a whole apply batch.
type Session interface {
	Login(ctx context.Context, email, password string) error
	Open(ctx context.Context, url string) (Form, error)
}

// Answers are the default values pushed into empty form fields.
type Answers struct {
	Phone           string
	City            string
	ResumePath      string
	ExperienceYears int
}

// Summary is the outcome of one apply batch.
type Summary struct {
	Attempted int `json:"attempted"`
	Applied   int `json:"applied"`
}

type Driver struct {
	session         Session
	store           *ledger.ApplicationStore
	profile         *profile.Profile
	resumePath      string
	maxApplications int
	logger          *zap.Logger

	wait func(ctx context.Context, d time.Duration) error
}

func NewDriver(session Session, store *ledger.ApplicationStore, prof *profile.Profile, resumePath string, maxApplications int, log *zap.Logger) *Driver {
	if maxApplications <= 0 {
		maxApplications = DefaultMaxApplications
	}
	return &Driver{
		session:         session,
		store:           store,
		profile:         prof,
		resumePath:      resumePath,
		maxApplications: maxApplications,
		logger:          log,
		wait:            utils.WaitFor,
	}
}

// Eligible filters to postings worth attempting: LinkedIn only, APPLY
// recommendation, score at or above the threshold, never attempted before.
func (d *Driver) Eligible(postings []*job.Posting) []*job.Posting {
	eligible := make([]*job.Posting, 0, len(postings))
	for _, p := range postings {
		if p.Source != source.LinkedInName {
			continue
		}
		if p.Match == nil || p.Match.Recommendation != job.RecommendationApply {
			continue
		}
		if p.Match.Score < applyScoreThreshold {
			continue
		}
		if d.store.Contains(p.Identity()) {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// Run applies to eligible postings sequentially, up to the per-run cap.
// Every attempt's terminal status lands in the ledger; a successful one also
// marks the posting AutoApplied.
func (d *Driver) Run(ctx context.Context, postings []*job.Posting) Summary {
	eligible := d.Eligible(postings)
	if len(eligible) == 0 {
		d.logger.Info("no postings eligible for auto-apply")
		return Summary{}
	}
	if len(eligible) > d.maxApplications {
		eligible = eligible[:d.maxApplications]
	}

	d.logger.Info("starting auto-apply batch",
		zap.Int("eligible", len(eligible)),
		zap.Int("max_applications", d.maxApplications),
	)

	var summary Summary
	for i, p := range eligible {
		status := d.applyOne(ctx, p)
		d.store.Record(p, status)
		summary.Attempted++

		if status == StatusApplied {
			p.AutoApplied = true
			summary.Applied++
			d.logger.Info("applied",
				zap.String("title", p.Title),
				zap.String("company", p.Company),
			)
		} else {
			d.logger.Warn("application not submitted",
				zap.String("title", p.Title),
				zap.String("company", p.Company),
				zap.String("status", status),
			)
		}

		if i+1 < len(eligible) {
			if err := d.wait(ctx, betweenApplications); err != nil {
				break
			}
		}
	}

	d.logger.Info("auto-apply batch done",
		zap.Int("attempted", summary.Attempted),
		zap.Int("applied", summary.Applied),
	)
	return summary
}

// applyOne walks the Easy Apply modal for a single posting and returns the
// terminal status.
func (d *Driver) applyOne(ctx context.Context, p *job.Posting) string {
	form, err := d.session.Open(ctx, p.URL)
	if err != nil {
		return classify(err)
	}

	answers := Answers{
		Phone:           d.profile.Personal.Phone,
		City:            d.profile.City(),
		ResumePath:      d.resumePath,
		ExperienceYears: d.profile.ExperienceYears,
	}

	for step := 0; step < maxFormSteps; step++ {
		text, err := form.SuccessText(ctx)
		if err != nil {
			return classify(err)
		}
		if submitted(text) {
			return StatusApplied
		}

		// Defaults include answering eligibility radios "yes" and picking
		// the first non-empty dropdown option. Risky on real legal
		// questions; the form never distinguishes them.
		if err := form.FillDefaults(ctx, answers); err != nil {
			return classify(err)
		}

		label, ok, err := form.PrimaryAction(ctx)
		if err != nil {
			return classify(err)
		}
		if !ok {
			return StatusManualNeeded
		}

		if err := form.ClickPrimary(ctx); err != nil {
			return classify(err)
		}
		if err := d.wait(ctx, settleDelay); err != nil {
			return classify(err)
		}

		if strings.Contains(strings.ToLower(label), "submit") {
			return StatusApplied
		}
	}

	return StatusTooManySteps
}

func submitted(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "submitted") || strings.Contains(lower, "sent")
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrNoApplyEntry):
		return StatusNoApplyEntry
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimedOut
	default:
		detail := err.Error()
		if len(detail) > failureDetailLimit {
			detail = detail[:failureDetailLimit]
		}
		return fmt.Sprintf("failed: %s", detail)
	}
}
