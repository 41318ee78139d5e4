package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/c1nderscript/Cinder-s-Webscraper/internal/config"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/security"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// Options configures an Engine.
type Options struct {
	UserAgent string
	// Delay is the minimum gap between requests. Zero disables pacing.
	Delay     time.Duration
	Timeout   time.Duration
	Retries   int
	OutputDir string
	Backoff   RetryConfig
	Client    *http.Client
	Logger    *slog.Logger
}

// Engine downloads pages with pacing and retries.
type Engine struct {
	client    *http.Client
	limiter   *rate.Limiter
	retry     RetryConfig
	userAgent string
	output    *Output
	logger    *slog.Logger
}

// New builds an engine from opts, filling unset fields with defaults.
func New(opts Options) *Engine {
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	if opts.Backoff == (RetryConfig{}) {
		opts.Backoff = DefaultRetryConfig()
	}
	opts.Backoff.MaxAttempts = max(security.ClampRetries(opts.Retries), 1)
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Engine{
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		retry:     opts.Backoff,
		userAgent: opts.UserAgent,
		output:    NewOutput(opts.OutputDir),
		logger:    opts.Logger,
	}
}

// FromConfig builds an engine from the scraper section of the config file.
func FromConfig(cfg config.ScraperConfig, logger *slog.Logger) (*Engine, error) {
	delay, err := cfg.DelayDuration()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return New(Options{
		UserAgent: cfg.UserAgent,
		Delay:     delay,
		Timeout:   timeout,
		Retries:   cfg.Retries,
		OutputDir: cfg.OutputDir,
		Logger:    logger,
	}), nil
}

// Output returns the engine's output writer.
func (e *Engine) Output() *Output {
	return e.output
}

// Fetch downloads url and returns the body. Requests are paced by the
// engine's limiter and retried with backoff; 4xx responses other than 429
// fail immediately.
func (e *Engine) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := retryWithBackoff(ctx, e.retry, func(attempt int) error {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		e.logger.Debug("fetching", "url", url, "attempt", attempt)

		b, err := e.get(ctx, url)
		if err != nil {
			e.logger.Warn("request failed", "url", url, "attempt", attempt, "error", err)
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

func (e *Engine) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", url, err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", &StatusError{URL: url, Code: resp.StatusCode}
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return "", fmt.Errorf("scrape %s: read body: %w", url, err)
	}
	return sb.String(), nil
}

// Scrape fetches site, extracts its page and saves it to the site's output
// file (default "<name>.json"). It returns the page and the written path.
func (e *Engine) Scrape(ctx context.Context, site config.Website) (*Page, string, error) {
	doc, err := e.Fetch(ctx, site.URL)
	if err != nil {
		return nil, "", err
	}
	page, err := Extract(doc)
	if err != nil {
		return nil, "", err
	}
	page.URL = site.URL
	page.FetchedAt = time.Now().UTC()

	name := site.Output
	if strings.TrimSpace(name) == "" {
		name = site.Name + ".json"
	}
	path, err := e.output.Save(name, page)
	if err != nil {
		return nil, "", err
	}
	e.logger.Info("scraped website", "site", site.Name, "url", site.URL, "links", len(page.Links), "path", path)
	return page, path, nil
}
