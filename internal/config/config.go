// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SMTPServer struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type Config struct {
	Database struct {
		Host         string `yaml:"host"`
		Port         string `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		SSLMode      string `yaml:"sslmode"`
		SearchPath   string `yaml:"schema"`
		MaxOpenConns int    `yaml:"max_open_conns"`
	} `yaml:"database"`
	JWT struct {
		Secret       string        `yaml:"secret"`
		ExpiryPeriod time.Duration `yaml:"expiry_period"`
	} `yaml:"jwt"`
	Server struct {
		Port           string        `yaml:"port"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	Sendgrid struct {
		APIKey string `yaml:"api_key"`
		From   string `yaml:"from"`
	} `yaml:"sendgrid"`
	SMTP   map[string]SMTPServer `yaml:"smtp"`
	Review struct {
		Enabled   bool   `yaml:"enabled"`
		Provider  string `yaml:"provider"`
		Recipient string `yaml:"recipient"`
	} `yaml:"review"`
	Cache struct {
		RankingTTL  time.Duration `yaml:"ranking_ttl"`
		CleanupFreq time.Duration `yaml:"cleanup_freq"`
	} `yaml:"cache"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Reconcile struct {
		Enabled   bool          `yaml:"enabled"`
		Interval  time.Duration `yaml:"interval"`
		BatchSize int           `yaml:"batch_size"`
	} `yaml:"reconcile"`
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration from, in increasing precedence: built-in
// defaults, the YAML file named by GREENHUG_CONFIG, a .env file in the working
// directory and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := defaults()

	if path := os.Getenv("GREENHUG_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}

	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Name = "greenhug"
	cfg.Database.SSLMode = "disable"
	cfg.Database.SearchPath = "public"
	cfg.Database.MaxOpenConns = 25

	cfg.JWT.ExpiryPeriod = 24 * time.Hour

	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.AllowedOrigins = []string{"https://*", "http://*"}

	cfg.Review.Provider = "sendgrid"

	cfg.Cache.RankingTTL = time.Minute
	cfg.Cache.CleanupFreq = 5 * time.Minute

	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	cfg.Reconcile.Interval = 6 * time.Hour
	cfg.Reconcile.BatchSize = 100

	cfg.LogLevel = "info"

	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// Database configuration
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.SearchPath = getEnv("DB_SCHEMA", c.Database.SearchPath)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)

	// JWT configuration
	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.JWT.ExpiryPeriod = getEnvDuration("JWT_EXPIRY", c.JWT.ExpiryPeriod)

	// Server configuration
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	// Sendgrid configuration
	c.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", c.Sendgrid.APIKey)
	c.Sendgrid.From = getEnv("SENDGRID_FROM", c.Sendgrid.From)

	// Unclassified metric review notices
	c.Review.Enabled = getEnvBool("REVIEW_ENABLED", c.Review.Enabled)
	c.Review.Provider = getEnv("REVIEW_PROVIDER", c.Review.Provider)
	c.Review.Recipient = getEnv("REVIEW_RECIPIENT", c.Review.Recipient)

	c.Cache.RankingTTL = getEnvDuration("RANKING_CACHE_TTL", c.Cache.RankingTTL)

	c.Metrics.Enabled = getEnvBool("METRICS_ENABLED", c.Metrics.Enabled)

	c.Reconcile.Enabled = getEnvBool("RECONCILE_ENABLED", c.Reconcile.Enabled)
	c.Reconcile.Interval = getEnvDuration("RECONCILE_INTERVAL", c.Reconcile.Interval)
	c.Reconcile.BatchSize = getEnvInt("RECONCILE_BATCH_SIZE", c.Reconcile.BatchSize)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// DSN returns the Postgres connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.SearchPath,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
