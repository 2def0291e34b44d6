package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"studycal/internal/atomicfile"
)

// NOTE: The YAML file is the source of truth. A handful of STUDYCAL_* environment
// variables override it after load (see applyEnv) and are never written back.

const (
	defaultListen        = "127.0.0.1:8080"
	defaultTimezone      = "UTC"
	defaultWeekStart     = "sunday"
	defaultStorePath     = "/var/lib/studycal/events.yaml"
	defaultAutosave      = "*/5 * * * *"
	defaultRefresh       = "0 * * * *"
	defaultColor         = "#FF5733"
	defaultGridCacheSize = 128
	defaultRatePerMin    = 600
)

// ICSConfig describes a single ICS subscription source, e.g. a published
// course timetable.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging. Imported
	// event IDs are prefixed with it.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Course, if set, is attached to every imported event.
	Course string `yaml:"course,omitempty" json:"course,omitempty"`
	// Color, if set, overrides the feed's own COLOR property.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// LogConfig selects the log level and encoding (console|json).
type LogConfig struct {
	Level    string `yaml:"level" json:"level"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API and calendar page.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone that defines "today".
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls which weekday is treated as the first column of the
	// week and month grids. Supported values:
	//   - "sunday" (default)
	//   - "monday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// StorePath is where the event snapshot is kept.
	StorePath string `yaml:"store_path" json:"store_path"`

	// AutosaveCron is a cron schedule for snapshotting the event store.
	AutosaveCron string `yaml:"autosave" json:"autosave"`

	// RefreshCron is a cron schedule for re-importing ICS subscriptions.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// DefaultColor pre-fills the color of new events.
	DefaultColor string `yaml:"default_color" json:"default_color"`

	// GridCacheSize bounds the number of memoised grids.
	GridCacheSize int `yaml:"grid_cache_size" json:"grid_cache_size"`

	// RateLimitPerMin caps /api/* requests per minute for each client IP.
	RateLimitPerMin int `yaml:"rate_limit_per_min" json:"rate_limit_per_min"`

	Log LogConfig `yaml:"log" json:"log"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		Timezone:        defaultTimezone,
		WeekStart:       defaultWeekStart,
		StorePath:       defaultStorePath,
		AutosaveCron:    defaultAutosave,
		RefreshCron:     defaultRefresh,
		DefaultColor:    defaultColor,
		GridCacheSize:   defaultGridCacheSize,
		RateLimitPerMin: defaultRatePerMin,
		Log:             LogConfig{Level: "info", Encoding: "console"},
		ICS:             []ICSConfig{},
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	switch c.WeekStart {
	case "monday", "sunday":
		// ok
	default:
		// Unknown value; fall back to sunday to avoid surprising layouts.
		c.WeekStart = defaultWeekStart
	}
	if c.StorePath == "" {
		c.StorePath = defaultStorePath
	}
	if c.AutosaveCron == "" {
		c.AutosaveCron = defaultAutosave
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefresh
	}
	if c.DefaultColor == "" {
		c.DefaultColor = defaultColor
	}
	if c.GridCacheSize <= 0 {
		c.GridCacheSize = defaultGridCacheSize
	}
	if c.RateLimitPerMin <= 0 {
		c.RateLimitPerMin = defaultRatePerMin
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "console"
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
//   - Environment overrides are applied last in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				applyEnv(cfg)
				return cfg, err
			}
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	applyEnv(&cfg)

	return &cfg, nil
}

// applyEnv overrides selected keys from STUDYCAL_* environment variables.
func applyEnv(c *Config) {
	v := viper.New()
	v.SetEnvPrefix("studycal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("listen"); s != "" {
		c.Listen = s
	}
	if s := v.GetString("timezone"); s != "" {
		c.Timezone = s
	}
	if s := v.GetString("week_start"); s != "" {
		c.WeekStart = s
	}
	if s := v.GetString("store_path"); s != "" {
		c.StorePath = s
	}
	if s := v.GetString("log.level"); s != "" {
		c.Log.Level = s
	}
	c.Normalize()
}

// Save writes the given configuration to the specified path atomically with
// 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return atomicfile.WriteFile(path, data, 0o600)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
