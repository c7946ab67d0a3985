package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		Limit      int           `yaml:"limit"`
		Timeout    time.Duration `yaml:"timeout"`
		Retries    int           `yaml:"retries"`
		RatePerSec float64       `yaml:"rate_per_sec"`
	} `yaml:"data_source"`
	Cache struct {
		RedisAddr string        `yaml:"redis_addr"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	LLM struct {
		APIKey      string  `yaml:"api_key"`
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	Database struct {
		URL        string `yaml:"url"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Schedule struct {
		RefreshCron  string `yaml:"refresh_cron"`
		SnapshotCron string `yaml:"snapshot_cron"`
		RunOnStart   bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	DemoUserID string `yaml:"demo_user_id"`
	Proxy      string `yaml:"proxy"`
}

// Load reads .env (if present), then the YAML file, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "ADVISOR_ADDR")
	if v := os.Getenv("PORT"); v != "" && os.Getenv("ADVISOR_ADDR") == "" {
		c.Server.Addr = ":" + v
	}
	setString(&c.DataSource.BaseURL, "COINGECKO_BASE_URL")
	setString(&c.DataSource.APIKey, "COINGECKO_API_KEY")
	setString(&c.LLM.APIKey, "EXPO_PUBLIC_OPENAI_API_KEY")
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.Model, "OPENAI_MODEL")
	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.SQLitePath, "SQLITE_PATH")
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Proxy, "HTTPS_PROXY")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Pretty = b
		}
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Schedule.RunOnStart = b
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3001"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 45 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.DataSource.Limit == 0 {
		c.DataSource.Limit = 100
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 15 * time.Second
	}
	if c.DataSource.Retries == 0 {
		c.DataSource.Retries = 2
	}
	if c.DataSource.RatePerSec == 0 {
		c.DataSource.RatePerSec = 0.5
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/crypto_advisor.db"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "crypto.rankings"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.Schedule.SnapshotCron == "" {
		c.Schedule.SnapshotCron = "0 0 * * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.DemoUserID == "" {
		c.DemoUserID = "mock-user-1"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}
	if c.DataSource.BaseURL == "" {
		errs = append(errs, fmt.Errorf("data_source.base_url is required"))
	}
	if c.DataSource.Limit <= 0 || c.DataSource.Limit > 250 {
		errs = append(errs, fmt.Errorf("data_source.limit must be in 1..250"))
	}
	if c.DataSource.RatePerSec <= 0 {
		errs = append(errs, fmt.Errorf("data_source.rate_per_sec must be positive"))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must be positive"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be in [0,2]"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
