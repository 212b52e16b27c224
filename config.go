package vitrine

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Credential backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// SiteConfig holds all configuration for a vitrine site. Fields are read from
// the environment, or from the file named by CONFIG_PATH.
type SiteConfig struct {
	Name string `yaml:"name" env:"SITE_NAME" env-default:"Vitrine"`
	URL  string `yaml:"url" env:"SITE_URL" env-default:"http://localhost:3000"`
	Addr string `yaml:"addr" env:"ADDR" env-default:":3000"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"local"` // local, dev or prod

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"` // json or console; console when empty in local

	// AuthToken enables POST /api/config. Empty disables the endpoint.
	AuthToken string `yaml:"auth_token" env:"AUTH_TOKEN"`

	CredentialsBackend string        `yaml:"credentials_backend" env:"CREDENTIALS_BACKEND" env-default:"file"`
	CredentialsPath    string        `yaml:"credentials_path" env:"CREDENTIALS_PATH" env-default:"config/api-keys.json"`
	DatabasePath       string        `yaml:"database_path" env:"DATABASE_PATH" env-default:"data/site.db"`
	CredentialsTTL     time.Duration `yaml:"credentials_ttl" env:"CREDENTIALS_TTL" env-default:"1m"`

	Places PlacesConfig `yaml:"places"`

	StaticDir string `yaml:"static_dir" env:"STATIC_DIR" env-default:"public"`
	// SchemaPatchDisabled serves index.html as it is on disk. Patching costs
	// one upstream call per page view.
	SchemaPatchDisabled bool `yaml:"schema_patch_disabled" env:"SCHEMA_PATCH_DISABLED"`
}

// PlacesConfig configures the upstream review provider. APIKey and PlaceID
// are the fallback when no credentials have been stored.
type PlacesConfig struct {
	APIKey   string        `yaml:"api_key" env:"GOOGLE_API_KEY"`
	PlaceID  string        `yaml:"place_id" env:"GOOGLE_PLACE_ID"`
	API      string        `yaml:"api" env:"GOOGLE_PLACES_API" env-default:"new"`
	BaseURL  string        `yaml:"base_url" env:"GOOGLE_PLACES_BASE_URL"`
	Language string        `yaml:"language" env:"GOOGLE_PLACES_LANGUAGE" env-default:"pt-BR"`
	Timeout  time.Duration `yaml:"timeout" env:"GOOGLE_PLACES_TIMEOUT" env-default:"10s"`
}

// LoadConfig reads path when it is non-empty, otherwise the environment.
// Environment variables override file values.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return SiteConfig{}, fmt.Errorf("vitrine: read config: %w", err)
	}
	cfg.setDefaults()
	return cfg, cfg.validate()
}

// LoadConfigFromEnv is LoadConfig(os.Getenv("CONFIG_PATH")).
func LoadConfigFromEnv() (SiteConfig, error) {
	return LoadConfig(os.Getenv("CONFIG_PATH"))
}

// setDefaults fills zero values for configs built in code rather than loaded.
func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Vitrine"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Env == "" {
		c.Env = "local"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" && c.Env == "local" {
		c.LogFormat = "console"
	}
	if c.CredentialsBackend == "" {
		c.CredentialsBackend = BackendFile
	}
	if c.CredentialsPath == "" {
		c.CredentialsPath = "config/api-keys.json"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.CredentialsTTL == 0 {
		c.CredentialsTTL = time.Minute
	}
	if c.Places.API == "" {
		c.Places.API = "new"
	}
	if c.Places.Language == "" {
		c.Places.Language = "pt-BR"
	}
	if c.Places.Timeout == 0 {
		c.Places.Timeout = 10 * time.Second
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
}

func (c SiteConfig) validate() error {
	switch c.CredentialsBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("vitrine: unknown credentials backend %q", c.CredentialsBackend)
	}
	switch strings.ToLower(c.Places.API) {
	case "new", "legacy":
	default:
		return fmt.Errorf("vitrine: unknown places api %q", c.Places.API)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the static asset directory.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithHTTPClient sets the client used for upstream Places calls.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithCredentialStore replaces the configured credential backend.
func WithCredentialStore(s CredentialStore) Option {
	return func(a *App) {
		a.Credentials = s
	}
}

// WithViews replaces the default components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
