package config

import (
	"time"

	"github.com/c1nderscript/Cinder-s-Webscraper/internal/logx"
)

const (
	DefaultDatabase     = "data/schedules.db"
	DefaultPollInterval = time.Second
	DefaultUserAgent    = "Cinder Web Scraper 1.0"
	DefaultDelay        = time.Second
	DefaultTimeout      = 30 * time.Second
	DefaultRetries      = 3
	DefaultOutputDir    = "output"
)

type Config struct {
	// Database is an SQLite path or a postgres:// URL.
	Database     string        `json:"database"`
	PollInterval string        `json:"poll_interval"`
	Log          logx.Config   `json:"log"`
	Scraper      ScraperConfig `json:"scraper"`
	Websites     []Website     `json:"websites"`
}

type ScraperConfig struct {
	UserAgent string `json:"user_agent"`
	Delay     string `json:"delay"`
	Timeout   string `json:"timeout"`
	Retries   int    `json:"retries"`
	OutputDir string `json:"output_dir"`
}

// Website is one scrape target. Output is relative to the scraper's output_dir.
type Website struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Output string `json:"output"`
}

// Default returns the config used when no file exists.
func Default() *Config {
	return &Config{
		Database:     DefaultDatabase,
		PollInterval: DefaultPollInterval.String(),
		Log:          logx.Config{Level: "info", Console: true},
		Scraper: ScraperConfig{
			UserAgent: DefaultUserAgent,
			Delay:     DefaultDelay.String(),
			Timeout:   DefaultTimeout.String(),
			Retries:   DefaultRetries,
			OutputDir: DefaultOutputDir,
		},
	}
}
