package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Source struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	URL     string  `yaml:"url"`
	Weight  float64 `yaml:"weight,omitempty"`
	Enabled bool    `yaml:"enabled"`
}

type CatalogConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type ScreenConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type SearchConfig struct {
	AppID   string `yaml:"app_id"`
	APIKey  string `yaml:"api_key"`
	Index   string `yaml:"index,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type FirestoreConfig struct {
	ProjectID   string `yaml:"project_id"`
	Credentials string `yaml:"credentials,omitempty"`
}

type ServerConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

type Config struct {
	HomeTTL        string           `yaml:"home_ttl,omitempty"`
	IngestInterval string           `yaml:"ingest_interval,omitempty"`
	Retention      string           `yaml:"retention,omitempty"`
	FeaturedSize   int              `yaml:"featured_size,omitempty"`
	TrendingSize   int              `yaml:"trending_size,omitempty"`
	Sources        []Source         `yaml:"sources"`
	Catalog        *CatalogConfig   `yaml:"catalog,omitempty"`
	Screen         *ScreenConfig    `yaml:"screen,omitempty"`
	Search         *SearchConfig    `yaml:"search,omitempty"`
	Firestore      *FirestoreConfig `yaml:"firestore,omitempty"`
	Server         *ServerConfig    `yaml:"server,omitempty"`
}

// HomeTTLDuration returns how long a home snapshot stays fresh.
func (c *Config) HomeTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.HomeTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// IngestIntervalDuration returns how often feeds are re-ingested,
// defaulting to 30 minutes.
func (c *Config) IngestIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.IngestInterval)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 30 * 24 * time.Hour
	}
	// Support "Nd" day syntax
	if len(c.Retention) > 1 && c.Retention[len(c.Retention)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(c.Retention, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

// SourceWeights maps enabled source names to their trending weight.
// Sources without an explicit weight are left out and pick up the
// scorer's default.
func (c *Config) SourceWeights() map[string]float64 {
	weights := map[string]float64{}
	for _, s := range c.EnabledSources() {
		if s.Weight > 0 {
			weights[s.Name] = s.Weight
		}
	}
	return weights
}

// GetFeaturedSize returns how many figures the home surface features,
// defaulting to 4.
func (c *Config) GetFeaturedSize() int {
	if c.FeaturedSize <= 0 {
		return 4
	}
	return c.FeaturedSize
}

// GetTrendingSize returns how many updates the home surface shows,
// defaulting to 8.
func (c *Config) GetTrendingSize() int {
	if c.TrendingSize <= 0 {
		return 8
	}
	return c.TrendingSize
}

// CatalogKey returns the music catalog API key (config or env var).
func (c *Config) CatalogKey() string {
	if c.Catalog != nil && c.Catalog.APIKey != "" {
		return c.Catalog.APIKey
	}
	return os.Getenv("EHCO_CATALOG_KEY")
}

// ScreenKey returns the screen credits API key (config or env var).
func (c *Config) ScreenKey() string {
	if c.Screen != nil && c.Screen.APIKey != "" {
		return c.Screen.APIKey
	}
	return os.Getenv("EHCO_SCREEN_KEY")
}

// SearchCredentials returns the search index app ID and admin key
// (config or env vars).
func (c *Config) SearchCredentials() (appID, key string) {
	if c.Search != nil {
		appID, key = c.Search.AppID, c.Search.APIKey
	}
	if appID == "" {
		appID = os.Getenv("EHCO_SEARCH_APP_ID")
	}
	if key == "" {
		key = os.Getenv("EHCO_SEARCH_KEY")
	}
	return appID, key
}

// SearchIndexName returns the search index to write to, defaulting to
// "figures".
func (c *Config) SearchIndexName() string {
	if c.Search != nil && c.Search.Index != "" {
		return c.Search.Index
	}
	return "figures"
}

// FirestoreProject returns the Firestore project ID (config or env var).
func (c *Config) FirestoreProject() string {
	if c.Firestore != nil && c.Firestore.ProjectID != "" {
		return c.Firestore.ProjectID
	}
	return os.Getenv("EHCO_FIRESTORE_PROJECT")
}

// FirestoreCredentials returns the service account file path, or ""
// to fall back to application default credentials.
func (c *Config) FirestoreCredentials() string {
	if c.Firestore != nil && c.Firestore.Credentials != "" {
		return c.Firestore.Credentials
	}
	return os.Getenv("EHCO_FIRESTORE_CREDENTIALS")
}

// ListenAddr returns the HTTP listen address, defaulting to :8787.
func (c *Config) ListenAddr() string {
	if c.Server != nil && c.Server.Listen != "" {
		return c.Server.Listen
	}
	return ":8787"
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ehco", "config.yaml")
}

// ArchivePath is where the update archive database lives.
func ArchivePath() string {
	return filepath.Join(xdg.CacheHome, "ehco", "ehco.db")
}

// HomeCachePath is where the home snapshot slot lives.
func HomeCachePath() string {
	return filepath.Join(xdg.CacheHome, "ehco", "home.json")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeDefaultSources(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultSources folds the embedded default sources into a loaded
// config: sources the user already has keep their position but pick up
// the default's type and URL, and defaults the user lacks are appended.
// Enabled stays under the user's control.
func mergeDefaultSources(cfg, defaults *Config) {
	byName := map[string]int{}
	for i, s := range cfg.Sources {
		byName[s.Name] = i
	}
	for _, d := range defaults.Sources {
		if i, ok := byName[d.Name]; ok {
			cfg.Sources[i].Type = d.Type
			cfg.Sources[i].URL = d.URL
			continue
		}
		cfg.Sources = append(cfg.Sources, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
	}
	return nil
}
