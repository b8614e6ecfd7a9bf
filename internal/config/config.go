package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// EnvPrefix is the prefix for environment overrides (ETHAUM_SERVER_PORT -> server.port).
const EnvPrefix = "ETHAUM_"

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://localhost:8000"

type Config struct {
	API      API      `yaml:"api" koanf:"api"`
	Server   Server   `yaml:"server" koanf:"server"`
	Identity Identity `yaml:"identity" koanf:"identity"`
	Enrich   Enrich   `yaml:"enrich" koanf:"enrich"`
	Output   Output   `yaml:"output" koanf:"output"`
	Logging  Logging  `yaml:"logging" koanf:"logging"`
}

type API struct {
	BaseURL    string        `yaml:"base_url" koanf:"base_url"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
	UserHeader string        `yaml:"user_header" koanf:"user_header"`
}

type Server struct {
	Host         string   `yaml:"host" koanf:"host"`
	Port         int      `yaml:"port" koanf:"port"`
	PublicURL    string   `yaml:"public_url" koanf:"public_url"`
	EmbedOrigins []string `yaml:"embed_origins" koanf:"embed_origins"`
}

// Identity names the headers the auth proxy in front of the server sets
// after the identity provider has authenticated the browser.
type Identity struct {
	UserHeader  string `yaml:"user_header" koanf:"user_header"`
	EmailHeader string `yaml:"email_header" koanf:"email_header"`
	NameHeader  string `yaml:"name_header" koanf:"name_header"`
	// SyncTTL is how long a synced profile (role, company) is reused before
	// the identity is synced again.
	SyncTTL time.Duration `yaml:"sync_ttl" koanf:"sync_ttl"`
}

type Enrich struct {
	Enabled bool          `yaml:"enabled" koanf:"enabled"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

type Output struct {
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level" koanf:"level"`
	Env   string `yaml:"env" koanf:"env"`
}

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		API: API{
			BaseURL:    DefaultBaseURL,
			Timeout:    15 * time.Second,
			UserHeader: "X-Clerk-User-Id",
		},
		Server: Server{
			Host:         "127.0.0.1",
			Port:         3000,
			EmbedOrigins: []string{"*"},
		},
		Identity: Identity{
			UserHeader:  "X-Clerk-User-Id",
			EmailHeader: "X-Clerk-User-Email",
			NameHeader:  "X-Clerk-User-Name",
			SyncTTL:     10 * time.Minute,
		},
		Enrich: Enrich{
			Enabled: true,
			Timeout: 5 * time.Second,
		},
		Logging: Logging{Level: "info", Env: "dev"},
	}
}

// ConfigDir returns the XDG config directory for ethaum.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "ethaum")
}

// DataDir returns the XDG data directory for ethaum.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "ethaum")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/ethaum/config.yaml > ./config.yaml.
// An empty path with no error means "run on defaults and environment".
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads the YAML file at path (if any) over the defaults, then
// overlays ETHAUM_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// envKey maps ETHAUM_SECTION_SOME_KEY to section.some_key. ETHAUM_API_URL is
// the conventional single backend selector and maps to api.base_url.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "api_url" {
		return "api.base_url"
	}
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Identity.SyncTTL < 0 {
		return fmt.Errorf("identity.sync_ttl must be non-negative")
	}
	if c.Identity.UserHeader == "" {
		return fmt.Errorf("identity.user_header is required")
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// PublicURL is the externally visible address of this front-end, used in
// badge embed snippets.
func (c *Config) PublicURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
