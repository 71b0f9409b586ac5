package source

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
)

// Renderer loads a page in a real browser and returns the rendered HTML.
// scrolls presses End that many times to trigger lazy-loaded content.
type Renderer interface {
	Render(ctx context.Context, url string, scrolls int) (string, error)
}

const (
	renderTimeout  = 30 * time.Second
	renderSettle   = 2 * time.Second
	scrollSettle   = 1500 * time.Millisecond
	loginSettle    = 3 * time.Second
	loginTimeout   = 45 * time.Second
	viewportWidth  = 1280
	viewportHeight = 800
)

// Browser is one headless Chrome session reused across page loads, so login
// cookies survive between searches.
type Browser struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	logger     *zap.Logger
}

func NewBrowser(ctx context.Context, headless bool, log *zap.Logger) (*Browser, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
			chromedp.WindowSize(viewportWidth, viewportHeight),
		)...,
	)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Starting the browser eagerly surfaces a missing Chrome install as a
	// constructor error instead of a failure on the first page load.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Browser{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		logger:     log,
	}, nil
}

func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

func (b *Browser) Render(ctx context.Context, url string, scrolls int) (string, error) {
	runCtx, cancel := context.WithTimeout(b.browserCtx, renderTimeout)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettle),
	}
	for i := 0; i < scrolls; i++ {
		actions = append(actions,
			chromedp.KeyEvent(kb.End),
			chromedp.Sleep(scrollSettle),
		)
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}

// Login signs the session into LinkedIn. A failure is reported but callers
// treat it as non-fatal: public search works without login, just shallower.
func (b *Browser) Login(ctx context.Context, email, password string) error {
	runCtx, cancel := context.WithTimeout(b.browserCtx, loginTimeout)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	err := chromedp.Run(runCtx,
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

	b.logger.Info("linkedin login successful")
	return nil
}
