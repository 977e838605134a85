package config

import "time"

// CurrentVersion is the config file format version
const CurrentVersion = 1

// DefaultAPIURL is the installer API used when nothing else is configured
const DefaultAPIURL = "http://localhost:3000/api"

// Config represents the whole user configuration file.
type Config struct {
	Version     int                     `yaml:"version" validate:"eq=1"`
	API         *APIConfig              `yaml:"api" validate:"required"`
	Log         *LogConfig              `yaml:"log,omitempty"`
	Preferences *Preferences            `yaml:"preferences,omitempty"`
	Servers     map[string]*ServerEntry `yaml:"servers,omitempty" validate:"dive"` // Keyed by mDNS instance name
}

// APIConfig describes how to reach the installer service.
type APIConfig struct {
	URL      string        `yaml:"url" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
	Retries  int           `yaml:"retries" validate:"gte=0,lte=10"`
	Username string        `yaml:"username,omitempty"`
	// Password is never stored; it is read from AGAMA_API_PASSWORD
	RateLimit float64 `yaml:"rate_limit,omitempty" validate:"gte=0"` // Requests per second, 0 disables
}

// LogConfig holds the logging preferences
type LogConfig struct {
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool          `yaml:"auto_discover"`    // Browse mDNS when no URL was given on the command line
	DiscoverTimeout time.Duration `yaml:"discover_timeout"` // mDNS browse time
	Format          string        `yaml:"format,omitempty" validate:"omitempty,oneof=text json yaml"`
}

// ServerEntry remembers a service seen on the network
type ServerEntry struct {
	URL      string    `yaml:"url" validate:"required,url"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: CurrentVersion,
		API: &APIConfig{
			URL:     DefaultAPIURL,
			Timeout: 10 * time.Second,
			Retries: 3,
		},
		Log: &LogConfig{},
		Preferences: &Preferences{
			AutoDiscover:    false,
			DiscoverTimeout: 3 * time.Second,
			Format:          "text",
		},
		Servers: make(map[string]*ServerEntry),
	}
}

// RememberServer records a discovered service.
func (c *Config) RememberServer(instance, url string) {
	if c.Servers == nil {
		c.Servers = make(map[string]*ServerEntry)
	}
	c.Servers[instance] = &ServerEntry{URL: url, LastSeen: time.Now().UTC()}
}

// fillDefaults completes sections missing from a loaded file
func (c *Config) fillDefaults() {
	def := New()
	if c.API == nil {
		c.API = def.API
	}
	if c.Log == nil {
		c.Log = def.Log
	}
	if c.Preferences == nil {
		c.Preferences = def.Preferences
	}
	if c.Servers == nil {
		c.Servers = def.Servers
	}
}
