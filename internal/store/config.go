package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Calendar pages live at <base_url>/<YYYYMMDD>.
	BaseURL string `yaml:"base_url"`
	Fetcher string `yaml:"fetcher"` // STATIC or DYNAMIC

	OutputDir string `yaml:"output_dir"`
	DebugDir  string `yaml:"debug_dir"`

	Browser struct {
		// Visible disables headless mode; the zero value keeps the
		// browser hidden, which is what a scheduled run wants.
		Visible         bool   `yaml:"visible"`
		ExecPath        string `yaml:"exec_path"` // empty: let chromedp find Chrome
		UserAgent       string `yaml:"user_agent"`
		WindowWidth     int    `yaml:"window_width"`
		WindowHeight    int    `yaml:"window_height"`
		// WaitSeconds bounds the calendar-populated wait, PollMillis
		// is the DOM re-check interval, NavigateSeconds bounds the
		// whole page visit.
		WaitSeconds     int `yaml:"wait_seconds"`
		PollMillis      int `yaml:"poll_millis"`
		NavigateSeconds int `yaml:"navigate_seconds"`
	} `yaml:"browser"`

	HTTP struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"http"`

	Filter struct {
		Enabled          bool   `yaml:"enabled"`
		TrackingListPath string `yaml:"tracking_list_path"`
	} `yaml:"filter"`

	Schedule struct {
		Label        string   `yaml:"label"`
		Times        []string `yaml:"times"` // HH:MM, fired Mon-Fri
		StdoutLog    string   `yaml:"stdout_log"`
		StderrLog    string   `yaml:"stderr_log"`
		ScrapeBinary string   `yaml:"scrape_binary"`
	} `yaml:"schedule"`
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if c.Fetcher != "STATIC" && c.Fetcher != "DYNAMIC" {
		return fmt.Errorf("invalid fetcher '%s': must be 'STATIC' or 'DYNAMIC'", c.Fetcher)
	}
	if c.Browser.WaitSeconds <= 0 {
		return fmt.Errorf("browser.wait_seconds must be positive, got %d", c.Browser.WaitSeconds)
	}
	if c.Browser.PollMillis <= 0 {
		return fmt.Errorf("browser.poll_millis must be positive, got %d", c.Browser.PollMillis)
	}
	if len(c.Schedule.Times) == 0 {
		return fmt.Errorf("schedule.times cannot be empty")
	}
	for _, t := range c.Schedule.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid schedule time '%s': must be HH:MM", t)
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns a config usable without a config.yaml on disk.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.earningswhispers.com/calendar"
	}
	if c.Fetcher == "" {
		c.Fetcher = "DYNAMIC"
	}
	if c.OutputDir == "" {
		c.OutputDir = "reports"
	}
	if c.DebugDir == "" {
		c.DebugDir = "debug"
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = defaultUserAgent
	}
	if c.Browser.WindowWidth == 0 {
		c.Browser.WindowWidth = 1920
	}
	if c.Browser.WindowHeight == 0 {
		c.Browser.WindowHeight = 1080
	}
	if c.Browser.WaitSeconds == 0 {
		c.Browser.WaitSeconds = 30
	}
	if c.Browser.PollMillis == 0 {
		c.Browser.PollMillis = 500
	}
	if c.Browser.NavigateSeconds == 0 {
		c.Browser.NavigateSeconds = 90
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 30
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
	if c.Filter.TrackingListPath == "" {
		c.Filter.TrackingListPath = "tracking_list.txt"
	}
	if c.Schedule.Label == "" {
		c.Schedule.Label = "com.earnings-scraper.scrape"
	}
	if len(c.Schedule.Times) == 0 {
		c.Schedule.Times = []string{"06:00", "16:30"}
	}
	if c.Schedule.StdoutLog == "" {
		c.Schedule.StdoutLog = "logs/scrape.out.log"
	}
	if c.Schedule.StderrLog == "" {
		c.Schedule.StderrLog = "logs/scrape.err.log"
	}
	if c.Schedule.ScrapeBinary == "" {
		c.Schedule.ScrapeBinary = "scrape"
	}
}

// Headless reports whether the browser should run without a window.
func (c *Config) Headless() bool {
	return !c.Browser.Visible
}

// WaitTimeout returns the bounded calendar-populated wait.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Browser.WaitSeconds) * time.Second
}

// PollInterval returns the DOM poll interval for the dynamic fetcher.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Browser.PollMillis) * time.Millisecond
}

// NavigateTimeout bounds one full dynamic page visit.
func (c *Config) NavigateTimeout() time.Duration {
	return time.Duration(c.Browser.NavigateSeconds) * time.Second
}

// HTTPTimeout bounds one static fetch.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
