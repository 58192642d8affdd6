// Package config holds the application configuration and its loader.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/llm/provider"
	"github.com/JasonHongGG/TravelPlannerDashboard-sub000/genai/transduce"
)

// Default selects which configured model serves which service when a
// request does not name one.
type Default struct {
	Model string `yaml:"model" json:"model"`
}

// Planner configures the itinerary update stream.
type Planner struct {
	Delimiter string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
}

// Recommend configures batch assembly and background prefetch.
type Recommend struct {
	BatchSize    int `yaml:"batchSize,omitempty" json:"batchSize,omitempty"`
	QueueSize    int `yaml:"queueSize,omitempty" json:"queueSize,omitempty"`
	DefaultQuota int `yaml:"defaultQuota,omitempty" json:"defaultQuota,omitempty"`
}

// Session configures the recommendation session store.
type Session struct {
	TTL           time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty"`
	SweepInterval time.Duration `yaml:"sweepInterval,omitempty" json:"sweepInterval,omitempty"`
}

// Points configures the billing ledger and the price table.
type Points struct {
	LedgerURL string         `yaml:"ledgerUrl,omitempty" json:"ledgerUrl,omitempty"`
	Prices    map[string]int `yaml:"prices,omitempty" json:"prices,omitempty"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

// Config is the application configuration, usually loaded from a YAML
// document.
type Config struct {
	Models    provider.Configs `yaml:"models" json:"models"`
	Default   Default          `yaml:"default" json:"default"`
	Planner   Planner          `yaml:"planner" json:"planner"`
	Recommend Recommend        `yaml:"recommend" json:"recommend"`
	Session   Session          `yaml:"session" json:"session"`
	Points    Points           `yaml:"points" json:"points"`
	HTTP      HTTP             `yaml:"http" json:"http"`
}

// Load reads and decodes the configuration document at URL.
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v, %w", URL, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v, %w", URL, err)
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Init fills unset fields with defaults.
func (c *Config) Init() {
	if c.Planner.Delimiter == "" {
		c.Planner.Delimiter = transduce.DefaultDelimiter
	}
	if c.Recommend.BatchSize == 0 {
		c.Recommend.BatchSize = 5
	}
	if c.Recommend.QueueSize == 0 {
		c.Recommend.QueueSize = 2
	}
	if c.Recommend.DefaultQuota == 0 {
		c.Recommend.DefaultQuota = 5
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Points.LedgerURL == "" {
		c.Points.LedgerURL = "file:///var/lib/travelplanner/points"
	}
	if c.Default.Model == "" && len(c.Models) == 1 {
		c.Default.Model = c.Models[0].ID
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("config had no models")
	}
	if c.Default.Model == "" {
		return fmt.Errorf("config default model was empty")
	}
	if c.Models.Find(c.Default.Model) == nil {
		return fmt.Errorf("default model not configured: %v", c.Default.Model)
	}
	return nil
}
