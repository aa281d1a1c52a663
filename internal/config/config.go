package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root service configuration. Sources, in order of
// precedence: explicit --config path, CONFIG_PATH, ./config.yaml if it
// exists, then environment variables on top.
type Config struct {
	Env     string        `yaml:"env" env:"APP_ENV" env-default:"dev"`
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Google  GoogleConfig  `yaml:"google"`
	Apple   AppleConfig   `yaml:"apple"`
	Places  PlacesConfig  `yaml:"places"`
	Redis   RedisConfig   `yaml:"redis"`
	Routes  RoutesConfig  `yaml:"routes"`
}

type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr returns the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// BackendConfig points at the external identity/account backend that
// owns all user, session, and token state. BaseURL is deliberately not
// env-required: actions report a configuration failure as a value
// instead of preventing startup.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"GOOGLE_REDIRECT_URL"`
}

// CodeFlowConfigured reports whether the server-side OAuth code flow
// can be offered in addition to the SDK token relay.
func (g GoogleConfig) CodeFlowConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type AppleConfig struct {
	ClientID string `yaml:"client_id" env:"APPLE_CLIENT_ID"`
}

type PlacesConfig struct {
	APIKey   string        `yaml:"api_key" env:"GOOGLE_MAPS_API_KEY"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"PLACES_CACHE_TTL" env-default:"5m"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
}

// RoutesConfig drives the session bootstrap middleware: which path
// prefixes require a registered (non-guest) user, and where to send
// visitors who fail that check.
type RoutesConfig struct {
	Protected []string `yaml:"protected" env:"PROTECTED_ROUTES" env-default:"/account"`
	LoginPath string   `yaml:"login_path" env:"LOGIN_PATH" env-default:"/login"`
}

// Production reports whether cookies must carry the Secure attribute.
func (c Config) Production() bool {
	return c.Env == "prod"
}

// MustLoad wraps Load and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration by precedence: explicit path, CONFIG_PATH,
// ./config.yaml, then environment variables alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// env vars win over file values
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}
