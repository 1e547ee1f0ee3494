package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"jobfinder-engine/internal/classify"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/search"
)

//go:embed default.yml
var defaultYAML []byte

type Company struct {
	Slug string `yaml:"slug" json:"slug"`
	Name string `yaml:"name" json:"name"`
}

// WorkdaySite is a public career site URL; the site path is case sensitive.
type WorkdaySite struct {
	URL  string `yaml:"url" json:"url"`
	Name string `yaml:"name" json:"name"`
}

// SavedSearch is a search stored in the config for unattended runs.
type SavedSearch struct {
	Keyword      string   `yaml:"keyword" json:"keyword"`
	Location     string   `yaml:"location" json:"location"`
	JobTypes     []string `yaml:"job_types" json:"jobTypes"`
	LocationMode string   `yaml:"location_mode" json:"locationMode"`
	SortBy       string   `yaml:"sort_by,omitempty" json:"sortBy,omitempty"`
	MaxResults   int      `yaml:"max_results" json:"maxResults"`
	DatePosted   string   `yaml:"date_posted,omitempty" json:"datePosted,omitempty"`
}

type Config struct {
	App struct {
		Port     int    `yaml:"port" json:"port"`
		DataDir  string `yaml:"data_dir" json:"dataDir"`
		LogLevel string `yaml:"log_level" json:"logLevel"`
	} `yaml:"app" json:"app"`

	Search struct {
		ProviderTimeoutSeconds int             `yaml:"provider_timeout_seconds" json:"providerTimeoutSeconds"`
		RateLimitPerSecond     float64         `yaml:"rate_limit_per_second" json:"rateLimitPerSecond"`
		RateBurst              int             `yaml:"rate_burst" json:"rateBurst"`
		LocationMode           string          `yaml:"location_mode" json:"locationMode"`
		SortBy                 string          `yaml:"sort_by" json:"sortBy"`
		MaxResults             int             `yaml:"max_results" json:"maxResults"`
		DatePosted             string          `yaml:"date_posted" json:"datePosted"`
		Buckets                []search.Bucket `yaml:"buckets" json:"buckets"`
	} `yaml:"search" json:"search"`

	Sources struct {
		JSearch struct {
			Enabled bool   `yaml:"enabled" json:"enabled"`
			BaseURL string `yaml:"base_url" json:"baseUrl"`
			Host    string `yaml:"host" json:"host"`
		} `yaml:"jsearch" json:"jsearch"`
		Lever struct {
			Enabled   bool      `yaml:"enabled" json:"enabled"`
			Companies []Company `yaml:"companies" json:"companies"`
		} `yaml:"lever" json:"lever"`
		Greenhouse struct {
			Enabled   bool      `yaml:"enabled" json:"enabled"`
			MaxJobs   int       `yaml:"max_jobs" json:"maxJobs"`
			Companies []Company `yaml:"companies" json:"companies"`
		} `yaml:"greenhouse" json:"greenhouse"`
		SmartRecruiters struct {
			Enabled   bool      `yaml:"enabled" json:"enabled"`
			Companies []Company `yaml:"companies" json:"companies"`
		} `yaml:"smartrecruiters" json:"smartrecruiters"`
		Workday struct {
			Enabled bool          `yaml:"enabled" json:"enabled"`
			Sites   []WorkdaySite `yaml:"sites" json:"sites"`
		} `yaml:"workday" json:"workday"`
	} `yaml:"sources" json:"sources"`

	Categories []classify.Category `yaml:"categories" json:"categories"`

	Digest struct {
		Enabled   bool        `yaml:"enabled" json:"enabled"`
		To        string      `yaml:"to" json:"to"`
		Frequency string      `yaml:"frequency" json:"frequency"`
		At        string      `yaml:"at" json:"at"`
		Spec      string      `yaml:"spec" json:"spec"`
		SMTPAddr  string      `yaml:"smtp_addr" json:"smtpAddr"`
		Search    SavedSearch `yaml:"search" json:"search"`
		Archive   struct {
			Enabled  bool   `yaml:"enabled" json:"enabled"`
			IMAPAddr string `yaml:"imap_addr" json:"imapAddr"`
			Mailbox  string `yaml:"mailbox" json:"mailbox"`
		} `yaml:"archive" json:"archive"`
	} `yaml:"digest" json:"digest"`

	Sheet struct {
		Sink   string `yaml:"sink" json:"sink"` // airtable, sqlite
		Key    string `yaml:"key" json:"key"`
		Since  string `yaml:"since" json:"since"`
		Limit  int    `yaml:"limit" json:"limit"`
		Source string `yaml:"source" json:"source"`
		// Spec is a cron spec for unattended syncs; empty means manual only.
		Spec   string      `yaml:"spec" json:"spec"`
		Search SavedSearch `yaml:"search" json:"search"`
	} `yaml:"sheet" json:"sheet"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded default is invalid: " + err.Error())
	}
	return cfg
}

// Load reads path over the built-in defaults, so keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Table builds the category table, falling back to the built-in themes.
func (c Config) Table() (classify.Table, error) {
	if len(c.Categories) == 0 {
		return classify.DefaultTable(), nil
	}
	return classify.NewTable(c.Categories)
}

// Request turns a saved search into a search request.
func (s SavedSearch) Request() search.Request {
	return search.Request{
		Keyword:      s.Keyword,
		Location:     s.Location,
		Buckets:      append([]string(nil), s.JobTypes...),
		LocationMode: filter.LocationMode(s.LocationMode),
		SortBy:       filter.SortOrder(s.SortBy),
		MaxResults:   s.MaxResults,
		DatePosted:   s.DatePosted,
	}
}

// WithDefaults fills the fields a caller left empty from the search section.
func (c Config) WithDefaults(req search.Request) search.Request {
	if req.LocationMode == "" {
		req.LocationMode = filter.LocationMode(c.Search.LocationMode)
	}
	if req.SortBy == "" {
		req.SortBy = filter.SortOrder(c.Search.SortBy)
	}
	if req.MaxResults == 0 {
		req.MaxResults = c.Search.MaxResults
	}
	if req.DatePosted == "" {
		req.DatePosted = c.Search.DatePosted
	}
	return req
}
