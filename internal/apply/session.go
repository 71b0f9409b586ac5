package apply

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	navigateTimeout = 20 * time.Second
	actionTimeout   = 10 * time.Second
	openSettle      = 2 * time.Second
	loginSettle     = 3 * time.Second

	easyApplySelector = "button[aria-label*='Easy Apply'], .jobs-apply-button--top-card"
	successSelector   = "[aria-label*='submitted'], .jobs-easy-apply-modal__content h3"
	primarySelector   = "button[aria-label='Continue to next step']," +
		"button[aria-label='Review your application']," +
		"button[aria-label='Submit application']"
	resumeSelector = "input[type='file']"
)

// ChromeSession drives LinkedIn through one chromedp browser. Headful by
// default so a human can clear captchas mid-batch.
type ChromeSession struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	logger     *zap.Logger
}

func NewChromeSession(ctx context.Context, headless bool, log *zap.Logger) (*ChromeSession, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &ChromeSession{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		logger:     log,
	}, nil
}

func (s *ChromeSession) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *ChromeSession) run(timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (s *ChromeSession) Login(ctx context.Context, email, password string) error {
	err := s.run(navigateTimeout,
		chromedp.Navigate("https://www.linkedin.com/login"),
		chromedp.WaitVisible("#username"),
		chromedp.SendKeys("#username", email),
		chromedp.SendKeys("#password", password),
		chromedp.Click(`[type="submit"]`),
		chromedp.Sleep(loginSettle),
	)
	if err != nil {
		return fmt.Errorf("linkedin login: %w", err)
	}
	return nil
}

// Open navigates to the posting and clicks the Easy Apply entry point.
func (s *ChromeSession) Open(ctx context.Context, url string) (Form, error) {
	err := s.run(navigateTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(openSettle),
	)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", url, err)
	}

	var present bool
	if err := s.run(actionTimeout, chromedp.Evaluate(elementExistsJS(easyApplySelector), &present)); err != nil {
		return nil, err
	}
	if !present {
		return nil, ErrNoApplyEntry
	}

	err = s.run(actionTimeout,
		chromedp.Click(easyApplySelector),
		chromedp.Sleep(openSettle),
	)
	if err != nil {
		return nil, fmt.Errorf("opening easy apply modal: %w", err)
	}

	return &chromeForm{session: s}, nil
}

// chromeForm manipulates the open Easy Apply modal. Field filling runs as
// injected JavaScript: the modal's markup varies too much for stable
// selector-by-selector actions.
type chromeForm struct {
	session *ChromeSession
}

func (f *chromeForm) SuccessText(context.Context) (string, error) {
	var text string
	err := f.session.run(actionTimeout, chromedp.Evaluate(elementTextJS(successSelector), &text))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (f *chromeForm) FillDefaults(_ context.Context, answers Answers) error {
	var result struct {
		Filled   int `json:"filled"`
		Answered int `json:"answered"`
	}
	err := f.session.run(actionTimeout, chromedp.Evaluate(
		fillDefaultsJS(answers.Phone, answers.City, answers.ExperienceYears), &result,
	))
	if err != nil {
		return err
	}
	if result.Filled > 0 {
		f.session.logger.Debug("filled form fields with defaults", zap.Int("fields", result.Filled))
	}
	// Default answers on eligibility radios and dropdowns can be wrong on
	// real legal questions. Keep that visible in run output.
	if result.Answered > 0 {
		f.session.logger.Warn("auto-answered eligibility questions with defaults",
			zap.Int("questions", result.Answered),
		)
	}

	if answers.ResumePath == "" {
		return nil
	}
	if _, err := os.Stat(answers.ResumePath); err != nil {
		return nil
	}

	var hasUpload bool
	if err := f.session.run(actionTimeout, chromedp.Evaluate(elementExistsJS(resumeSelector), &hasUpload)); err != nil {
		return err
	}
	if hasUpload {
		if err := f.session.run(actionTimeout, chromedp.SetUploadFiles(resumeSelector, []string{answers.ResumePath})); err != nil {
			return fmt.Errorf("uploading resume: %w", err)
		}
	}
	return nil
}

func (f *chromeForm) PrimaryAction(context.Context) (string, bool, error) {
	var label string
	err := f.session.run(actionTimeout, chromedp.Evaluate(primaryActionLabelJS(), &label))
	if err != nil {
		return "", false, err
	}
	return label, label != "", nil
}

func (f *chromeForm) ClickPrimary(context.Context) error {
	var clicked bool
	err := f.session.run(actionTimeout, chromedp.Evaluate(clickPrimaryJS(), &clicked))
	if err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("primary control disappeared before click")
	}
	return nil
}
