package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "careerhub-client/internal/shared/errors"

	"github.com/caarlos0/env/v6"
)

// Session store backends
const (
	BackendMemory  = "memory"
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
	BackendMongoDB = "mongodb"
)

// Config holds all configuration for the client.
type Config struct {
	// API
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`

	Session SessionConfig
	Log     LogConfig
	Display DisplayConfig

	// Resume upload limit, in bytes
	ResumeMaxBytes int64 `env:"RESUME_MAX_BYTES" envDefault:"5242880"`
}

// SessionConfig selects where the session token is persisted.
type SessionConfig struct {
	Backend    string `env:"SESSION_BACKEND" envDefault:"file"`
	FilePath   string `env:"SESSION_FILE" envDefault:".careerhub/session.json"`
	SQLitePath string `env:"SESSION_SQLITE_PATH" envDefault:".careerhub/session.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string `env:"SESSION_REDIS_KEY" envDefault:"careerhub:session"`

	MongoURI        string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string `env:"MONGODB_DATABASE" envDefault:"careerhub_client"`
	MongoCollection string `env:"MONGODB_COLLECTION" envDefault:"sessions"`
}

// LogConfig configures the shared logger.
type LogConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"text"`
	Backend string `env:"LOG_BACKEND" envDefault:"logrus"`
}

// DisplayConfig holds the paging and truncation policy shared by every view.
type DisplayConfig struct {
	SkillChipLimit      int `env:"SKILL_CHIP_LIMIT" envDefault:"5"`
	DashboardRecent     int `env:"DASHBOARD_RECENT_LIMIT" envDefault:"3"`
	ResourceCatalog     int `env:"RESOURCE_CATALOG_LIMIT" envDefault:"6"`
	ResourceRecommended int `env:"RESOURCE_RECOMMENDED_LIMIT" envDefault:"4"`
	DescriptionRunes    int `env:"DESCRIPTION_TRUNCATE" envDefault:"150"`
	UrgentWithinDays    int `env:"DEADLINE_URGENT_DAYS" envDefault:"3"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, apperrors.NewConfigurationError("failed to load configuration from environment").WithCause(err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations that struct tags cannot express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfigurationError(fmt.Sprintf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL))
	}
	if c.HTTPTimeout <= 0 {
		return apperrors.NewConfigurationError("HTTP_TIMEOUT must be positive")
	}
	switch c.Session.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongoDB:
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("SESSION_BACKEND %q is not one of memory, file, sqlite, redis, mongodb", c.Session.Backend)).
			WithCause(apperrors.ErrUnknownBackend)
	}
	if c.ResumeMaxBytes <= 0 {
		return apperrors.NewConfigurationError("RESUME_MAX_BYTES must be positive")
	}
	d := c.Display
	if d.SkillChipLimit < 1 || d.DashboardRecent < 1 || d.ResourceCatalog < 1 || d.ResourceRecommended < 1 || d.DescriptionRunes < 1 {
		return apperrors.NewConfigurationError("display limits must be at least 1")
	}
	if d.UrgentWithinDays < 0 {
		return apperrors.NewConfigurationError("DEADLINE_URGENT_DAYS must not be negative")
	}
	return nil
}
