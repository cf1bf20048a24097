package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Security  SecurityConfig
	Detection DetectionConfig
	Events    EventsConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
	MaxUploadBytes   int64
}

type DatabaseConfig struct {
	Driver          string
	SQLitePath      string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	Seed            bool
}

type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
}

// DetectionConfig tunes the recurring-transaction engine.
type DetectionConfig struct {
	AmountTolerance    float64
	UpcomingWindowDays int
	DefaultCurrency    string
	SweepInterval      time.Duration
	CategoryRules      []CategoryRule
}

type EventsConfig struct {
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// CategoryRule maps a lowercase merchant keyword to a category name and color.
// Rules are evaluated in order; the first keyword contained in the merchant wins.
type CategoryRule struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	FallbackCategoryName  = "Other"
	FallbackCategoryColor = "#64748b"
)

// DefaultCategoryRules returns the built-in keyword table.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Keyword: "netflix", Name: "Streaming", Color: "#ec4899"},
		{Keyword: "spotify", Name: "Streaming", Color: "#ec4899"},
		{Keyword: "disney", Name: "Streaming", Color: "#ec4899"},
		{Keyword: "youtube", Name: "Streaming", Color: "#ec4899"},
		{Keyword: "amazon", Name: "Shopping", Color: "#f59e0b"},
		{Keyword: "adobe", Name: "Software", Color: "#6366f1"},
		{Keyword: "microsoft", Name: "Software", Color: "#6366f1"},
		{Keyword: "github", Name: "Software", Color: "#6366f1"},
		{Keyword: "dropbox", Name: "Cloud Storage", Color: "#8b5cf6"},
		{Keyword: "chatgpt", Name: "AI Tools", Color: "#10b981"},
		{Keyword: "openai", Name: "AI Tools", Color: "#10b981"},
	}
}

func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8000"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			Environment:    getEnv("APP_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", 10<<20)),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverSQLite),
			SQLitePath:      getEnv("SQLITE_PATH", "./data/subscriptions.db"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "subscriptions"),
			Password:        getEnv("DB_PASSWORD", "subscriptions"),
			Name:            getEnv("DB_NAME", "subscriptions"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", false),
			Seed:            getBoolEnv("SEED_DATABASE", false),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 40),
		},
		Detection: DetectionConfig{
			AmountTolerance:    getFloatEnv("DETECTION_AMOUNT_TOLERANCE", 0.10),
			UpcomingWindowDays: getIntEnv("UPCOMING_WINDOW_DAYS", 7),
			DefaultCurrency:    getEnv("DEFAULT_CURRENCY", "GBP"),
			SweepInterval:      getDurationEnv("SWEEP_INTERVAL", 0),
		},
		Events: EventsConfig{
			AMQPURL:        getEnv("AMQP_URL", ""),
			AMQPExchange:   getEnv("AMQP_EXCHANGE", "subscriptions"),
			AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "subscription.detected"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()
	config.Detection.CategoryRules = loadCategoryRules(os.Getenv("CATEGORY_RULES_FILE"))

	return config
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH cannot be empty when DB_DRIVER is sqlite")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required when DB_DRIVER is postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be sqlite or postgres", c.Database.Driver))
	}

	if c.Detection.AmountTolerance <= 0 || c.Detection.AmountTolerance >= 1 {
		problems = append(problems, fmt.Sprintf("invalid amount tolerance %v: must be between 0 and 1", c.Detection.AmountTolerance))
	}
	if c.Detection.UpcomingWindowDays < 0 {
		problems = append(problems, fmt.Sprintf("invalid upcoming window %d: must not be negative", c.Detection.UpcomingWindowDays))
	}
	if len(c.Detection.DefaultCurrency) != 3 {
		problems = append(problems, fmt.Sprintf("invalid default currency '%s': must be a 3-letter code", c.Detection.DefaultCurrency))
	}
	if c.Detection.SweepInterval < 0 {
		problems = append(problems, "SWEEP_INTERVAL must not be negative")
	}

	if c.Events.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.Events.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.Events.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Server.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_BYTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL returns the postgres connection string in URL form, as used by lib/pq.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadCORSAllowOrigins retrieves CORS allowed origins from environment or returns default
func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			log.Println("WARNING: CORS_ALLOW_ORIGINS not set in production environment, defaulting to '*' (all origins)")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	return origins
}

// loadCategoryRules reads a JSON array of rules from path, falling back to the
// built-in table when the path is empty or unreadable.
func loadCategoryRules(path string) []CategoryRule {
	if path == "" {
		return DefaultCategoryRules()
	}

	rules, err := ReadCategoryRules(path)
	if err != nil {
		log.Printf("WARNING: %v, using built-in category rules", err)
		return DefaultCategoryRules()
	}
	return rules
}

// ReadCategoryRules parses a JSON rules file. Keywords are lowercased.
func ReadCategoryRules(path string) ([]CategoryRule, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category rules file %s: %w", path, err)
	}

	var rules []CategoryRule
	if err := json.Unmarshal(content, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse category rules file %s: %w", path, err)
	}

	for i, rule := range rules {
		if rule.Keyword == "" || rule.Name == "" {
			return nil, fmt.Errorf("category rule %d: keyword and name are required", i)
		}
		rules[i].Keyword = strings.ToLower(rule.Keyword)
	}
	return rules, nil
}
