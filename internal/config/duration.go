package config

import (
	"fmt"
	"strings"
	"time"
)

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}

// PollEvery returns the parsed poll interval.
func (c *Config) PollEvery() (time.Duration, error) {
	return ParseDurationOrDefault("poll_interval", c.PollInterval, DefaultPollInterval)
}

// DelayDuration returns the pause between scrape requests. Zero disables pacing.
func (s ScraperConfig) DelayDuration() (time.Duration, error) {
	return ParseDurationField("scraper.delay", s.Delay)
}

// TimeoutDuration returns the per-request timeout.
func (s ScraperConfig) TimeoutDuration() (time.Duration, error) {
	return ParseDurationOrDefault("scraper.timeout", s.Timeout, DefaultTimeout)
}
