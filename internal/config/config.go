// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/gurkanbulca/taskdeck/internal/database"
	"github.com/gurkanbulca/taskdeck/internal/service"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverMemory   = "memory"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Tasks      TasksConfig      `yaml:"tasks"`
	Validation ValidationConfig `yaml:"validation"`
}

type ServerConfig struct {
	GRPCPort            string        `yaml:"grpc_port"`
	HTTPPort            string        `yaml:"http_port"`
	Environment         string        `yaml:"environment"`
	BasePath            string        `yaml:"base_path"`
	AllowedOrigins      []string      `yaml:"allowed_origins"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	AutoMigrate         bool          `yaml:"auto_migrate"`
	EnableReflection    bool          `yaml:"enable_reflection"`
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TasksConfig holds settings of the task semantics.
type TasksConfig struct {
	// TimeZone is the IANA zone whose calendar day counts as "today" when
	// deriving effective status and urgency.
	TimeZone string `yaml:"timezone"`
}

// ValidationConfig holds input limits for task fields
type ValidationConfig struct {
	MaxTitleLength       int `yaml:"max_title_length"`
	MaxDescriptionLength int `yaml:"max_description_length"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCPort:            "50051",
			HTTPPort:            "8080",
			Environment:         "development",
			BasePath:            "/api/tasks",
			AllowedOrigins:      []string{"*"},
			RequestTimeout:      10 * time.Second,
			AutoMigrate:         true,
			EnableReflection:    false,
			HealthCheckInterval: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			DBName:          "taskdeck",
			SSLMode:         "disable",
			DSN:             "file:taskdeck.db?_fk=1",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
		Tasks: TasksConfig{
			TimeZone: "UTC",
		},
		Validation: ValidationConfig{
			MaxTitleLength:       200,
			MaxDescriptionLength: 5000,
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// at path, then environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.GRPCPort = getEnv("GRPC_PORT", c.Server.GRPCPort)
	c.Server.HTTPPort = getEnv("HTTP_PORT", c.Server.HTTPPort)
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Server.BasePath = getEnv("API_BASE_PATH", c.Server.BasePath)
	c.Server.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)
	c.Server.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.AutoMigrate = getEnvAsBool("AUTO_MIGRATE", c.Server.AutoMigrate)
	c.Server.EnableReflection = getEnvAsBool("ENABLE_REFLECTION", c.Server.EnableReflection)
	c.Server.HealthCheckInterval = getEnvAsDuration("HEALTH_CHECK_INTERVAL", c.Server.HealthCheckInterval)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	c.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Tasks.TimeZone = getEnv("TASKS_TIMEZONE", c.Tasks.TimeZone)

	c.Validation.MaxTitleLength = getEnvAsInt("MAX_TITLE_LENGTH", c.Validation.MaxTitleLength)
	c.Validation.MaxDescriptionLength = getEnvAsInt("MAX_DESCRIPTION_LENGTH", c.Validation.MaxDescriptionLength)
}

// ValidateConfig checks that the configuration is usable
func (c *Config) ValidateConfig() error {
	var errs []error

	if err := validatePort("HTTP_PORT", c.Server.HTTPPort); err != nil {
		errs = append(errs, err)
	}
	if err := validatePort("GRPC_PORT", c.Server.GRPCPort); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("API_BASE_PATH must start with '/', got %q", c.Server.BasePath))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.Server.HealthCheckInterval <= 0 {
		errs = append(errs, errors.New("HEALTH_CHECK_INTERVAL must be positive"))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case DriverSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for sqlite3"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}

	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}

	if _, err := time.LoadLocation(c.Tasks.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TASKS_TIMEZONE: %w", err))
	}

	if c.Validation.MaxTitleLength != 0 && c.Validation.MaxTitleLength < 4 {
		errs = append(errs, errors.New("MAX_TITLE_LENGTH must be at least 4"))
	}
	if c.Validation.MaxDescriptionLength < 0 {
		errs = append(errs, errors.New("MAX_DESCRIPTION_LENGTH must not be negative"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Location returns the time zone used to decide the current day.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Tasks.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ToDatabaseConfig converts the database section for database.NewClient
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		DBName:          c.Database.DBName,
		SSLMode:         c.Database.SSLMode,
		DSN:             c.Database.DSN,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// ToValidationConfig converts the validation section for the task service
func (c *Config) ToValidationConfig() service.ValidationConfig {
	return service.ValidationConfig{
		MaxTitleLength:       c.Validation.MaxTitleLength,
		MaxDescriptionLength: c.Validation.MaxDescriptionLength,
	}
}

func validatePort(name, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be a port number, got %q", name, value)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
