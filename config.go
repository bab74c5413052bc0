package ezoterika

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eringen/ezoterika/content"
)

// SiteConfig holds all configuration for an ezoterika site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Ezoterika")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/ezoterika.db")
	MediaDir     string `yaml:"media_dir"`     // Local media root (default "data/media")

	AdminPassword string `yaml:"admin_password"` // Required: admin login password
	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL time.Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 5min)
	PostsPerPage int           `yaml:"posts_per_page"` // Feed page size (default 10)

	MaxContentSize   int   `yaml:"max_content_size"`   // Draft ceiling in bytes of JSON (default 500000)
	MaxImageUpload   int64 `yaml:"max_image_upload"`   // default 2MB
	MaxAudioUpload   int64 `yaml:"max_audio_upload"`   // default 10MB
	InlineImageLimit int   `yaml:"inline_image_limit"` // Processed images up to this size are stored as data URIs (default 200KB)

	MinIO MinIOConfig `yaml:"minio"`
}

// MinIOConfig points media storage at an S3-compatible bucket. Media stays
// on local disk when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether object storage is configured.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != ""
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Ezoterika"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/ezoterika.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 10
	}
	if c.MaxContentSize <= 0 {
		c.MaxContentSize = content.DefaultMaxSize
	}
	if c.MaxImageUpload <= 0 {
		c.MaxImageUpload = 2 << 20
	}
	if c.MaxAudioUpload <= 0 {
		c.MaxAudioUpload = 10 << 20
	}
	if c.InlineImageLimit <= 0 {
		c.InlineImageLimit = 200 << 10
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "media"
	}
	if c.MinIO.Region == "" {
		c.MinIO.Region = "us-east-1"
	}
}

// LoadConfig reads the site configuration. Values from a .env file in the
// working directory are loaded into the environment first, then the YAML
// file at path is read (path may be empty), and finally environment
// variables override the file.
func LoadConfig(path string) (SiteConfig, error) {
	_ = godotenv.Load()

	var cfg SiteConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("ezoterika: read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("ezoterika: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	for key, dst := range map[string]*string{
		"SITE_NAME":            &c.Name,
		"SITE_URL":             &c.URL,
		"SITE_DESCRIPTION":     &c.Description,
		"SITE_AUTHOR":          &c.Author,
		"ADDR":                 &c.Addr,
		"DATABASE_PATH":        &c.DatabasePath,
		"MEDIA_DIR":            &c.MediaDir,
		"ADMIN_PASSWORD":       &c.AdminPassword,
		"ADMIN_SESSION_SECRET": &c.SessionSecret,
		"MINIO_ENDPOINT":       &c.MinIO.Endpoint,
		"MINIO_ACCESS_KEY":     &c.MinIO.AccessKey,
		"MINIO_SECRET_KEY":     &c.MinIO.SecretKey,
		"MINIO_BUCKET":         &c.MinIO.Bucket,
		"MINIO_REGION":         &c.MinIO.Region,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	for key, dst := range map[string]*bool{
		"COOKIE_SECURE": &c.CookieSecure,
		"MINIO_USE_SSL": &c.MinIO.UseSSL,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ezoterika: %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the Echo instance before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMediaStore replaces the media store chosen from the configuration.
func WithMediaStore(m MediaStore) Option {
	return func(a *App) {
		a.Media = m
	}
}
