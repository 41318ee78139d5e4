package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
)

// Load reads the config at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cinder: read config: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data over the defaults. The format is chosen by the
// extension of path.
func Parse(path string, data []byte) (*Config, error) {
	jb, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, fmt.Errorf("cinder: parse config %s: %w", path, err)
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("cinder: parse config %s: %w", path, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("cinder: parse config %s: trailing data", path)
		}
		return nil, fmt.Errorf("cinder: parse config %s: %w", path, err)
	}

	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = DefaultDatabase
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cinder: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks durations, retry bounds and website entries.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.PollEvery(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Scraper.DelayDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Scraper.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if c.Scraper.Retries < 0 {
		errs = append(errs, errors.New("scraper.retries: must be >= 0"))
	}

	seen := make(map[string]bool, len(c.Websites))
	for i, w := range c.Websites {
		field := fmt.Sprintf("websites[%d]", i)
		if strings.TrimSpace(w.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name: required", field))
		} else if seen[w.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate %q", field, w.Name))
		}
		seen[w.Name] = true

		u, err := url.Parse(w.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s.url: %q is not an http(s) URL", field, w.URL))
		}
	}
	return errors.Join(errs...)
}
