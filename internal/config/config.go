package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SessionBackendFile     = "file"
	SessionBackendPostgres = "postgres"
	SessionBackendMemory   = "memory"

	apiPrefix = "/api"
)

type Config struct {
	API      *APIconfig      `yaml:"api"`
	Session  *Sessionconfig  `yaml:"session"`
	DB       *DBconfig       `yaml:"db"`
	RabbitMq *RabbitMqconfig `yaml:"rabbitmq"`
	Log      *Loggerconfig   `yaml:"log"`
}

type APIconfig struct {
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Sessionconfig struct {
	Backend    string `yaml:"backend"`
	Profile    string `yaml:"profile"`
	File       string `yaml:"file"`
	Passphrase string `yaml:"passphrase"`
}

type DBconfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	MaxRetries int    `yaml:"max_retries"`
}

// RabbitMqconfig is optional; an empty Host disables the activity relay.
type RabbitMqconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

// Enabled reports whether the activity relay should connect at all.
func (c *RabbitMqconfig) Enabled() bool {
	return c.Host != ""
}

// BaseURL is the root every API path is appended to.
func (c *APIconfig) BaseURL() string {
	return strings.TrimRight(c.BackendURL, "/") + apiPrefix
}

// New loads .env (if present), then the YAML file named by AFRIKAR_CONFIG
// (if set), then applies environment overrides on top.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cnf := defaults()
	if path := os.Getenv("AFRIKAR_CONFIG"); path != "" {
		fromFile, err := NewFromYAML(path)
		if err != nil {
			return nil, err
		}
		cnf = fromFile
	}

	applyEnv(cnf)

	if err := cnf.Validate(); err != nil {
		return nil, err
	}
	return cnf, nil
}

// NewFromYAML reads a config file; fields it leaves out keep their defaults.
func NewFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cnf := defaults()
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cnf, nil
}

func (c *Config) Validate() error {
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendPostgres, SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.API.BackendURL == "" {
		return errors.New("backend url is empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid http timeout %s", c.API.Timeout)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		API: &APIconfig{
			BackendURL: "http://localhost:8001",
			Timeout:    10 * time.Second,
		},
		Session: &Sessionconfig{
			Backend: SessionBackendFile,
			Profile: "default",
			File:    defaultSessionFile(),
		},
		DB: &DBconfig{
			Host:       "localhost",
			Port:       5432,
			User:       "afrikar_user",
			Password:   "afrikar_pass",
			Database:   "afrikar_db",
			MaxRetries: 3,
		},
		RabbitMq: &RabbitMqconfig{
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
		Log: &Loggerconfig{
			Level: "WARN",
		},
	}
}

func applyEnv(cnf *Config) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			return def
		}
		return val
	}

	getEnvDuration := func(key string, def time.Duration) time.Duration {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := time.ParseDuration(valStr)
		if err != nil {
			return def
		}
		return val
	}

	cnf.API.BackendURL = getEnv("AFRIKAR_BACKEND_URL", cnf.API.BackendURL)
	cnf.API.Timeout = getEnvDuration("AFRIKAR_HTTP_TIMEOUT", cnf.API.Timeout)

	cnf.Session.Backend = strings.ToLower(getEnv("AFRIKAR_SESSION_BACKEND", cnf.Session.Backend))
	cnf.Session.Profile = getEnv("AFRIKAR_PROFILE", cnf.Session.Profile)
	cnf.Session.File = getEnv("AFRIKAR_SESSION_FILE", cnf.Session.File)
	cnf.Session.Passphrase = getEnv("AFRIKAR_SESSION_PASSPHRASE", cnf.Session.Passphrase)

	cnf.DB.Host = getEnv("DB_HOST", cnf.DB.Host)
	cnf.DB.Port = getEnvInt("DB_PORT", cnf.DB.Port)
	cnf.DB.User = getEnv("DB_USER", cnf.DB.User)
	cnf.DB.Password = getEnv("DB_PASSWORD", cnf.DB.Password)
	cnf.DB.Database = getEnv("DB_NAME", cnf.DB.Database)
	cnf.DB.MaxRetries = getEnvInt("DB_MAX_RETRIES", cnf.DB.MaxRetries)

	cnf.RabbitMq.Host = getEnv("RABBITMQ_HOST", cnf.RabbitMq.Host)
	cnf.RabbitMq.Port = getEnvInt("RABBITMQ_PORT", cnf.RabbitMq.Port)
	cnf.RabbitMq.User = getEnv("RABBITMQ_USER", cnf.RabbitMq.User)
	cnf.RabbitMq.Password = getEnv("RABBITMQ_PASSWORD", cnf.RabbitMq.Password)
	cnf.RabbitMq.VHost = getEnv("RABBITMQ_VHOST", cnf.RabbitMq.VHost)

	cnf.Log.Level = getEnv("LOG_LEVEL", cnf.Log.Level)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".afrikar", "session.json")
	}
	return filepath.Join(home, ".afrikar", "session.json")
}
