package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sdet-tools/jobhunt/internal/utils"
)

const (
	requestTimeout = 15 * time.Second

	// A browser user agent: most boards serve bot UAs a captcha page.
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.5"
)

// Client is the shared HTTP layer for board adapters.
type Client struct {
	HTTPClient *http.Client
	logger     *zap.Logger

	wait func(ctx context.Context, minD, maxD time.Duration) error
}

func NewClient(log *zap.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: log,
		wait:   utils.WaitBetween,
	}
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp, nil
}

// GetJSON fetches rawURL and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}

// GetDocument fetches rawURL and parses the response body as HTML.
func (c *Client) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing response from %s: %w", rawURL, err)
	}
	return doc, nil
}

// Pause waits a random polite delay between successive board requests.
func (c *Client) Pause(ctx context.Context, minD, maxD time.Duration) {
	if err := c.wait(ctx, minD, maxD); err != nil {
		c.logger.Debug("pause interrupted", zap.Error(err))
	}
}
