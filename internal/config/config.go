package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/2beens/chizen/pkg"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8000"
	DefaultAttemptTimeout = 10 * time.Second
	DefaultMaxAttempts    = 3
	DefaultBackoffBase    = time.Second
)

// env vars overriding the API base URL, first one set wins
var apiURLEnvVars = []string{"CHIZEN_API_URL", "NEXT_PUBLIC_API_URL"}

type Config struct {
	Environment string `toml:"-"`

	// api client
	APIBaseURL     string        `toml:"api_base_url"`
	AttemptTimeout time.Duration `toml:"attempt_timeout"`
	MaxAttempts    int           `toml:"max_attempts"`
	BackoffBase    time.Duration `toml:"backoff_base"`
	SessionID      string        `toml:"session_id"`

	// mock server
	Host                        string   `toml:"host"`
	Port                        int      `toml:"port"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_per_min"`
	AllowedOrigins              []string `toml:"allowed_origins"`
	RequireAdminAuth            bool     `toml:"require_admin_auth"`
	FakeDataSeed                int64    `toml:"fake_data_seed"`

	// redis (optional: session store and rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the config for the given env from the TOML file at configPath.
// A missing file is not an error: defaults are used, and env vars (incl. a local .env file) still apply.
func Load(env, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	exists, err := pkg.PathExists(configPath, false)
	if err != nil {
		return nil, fmt.Errorf("check config path: %w", err)
	}

	if exists {
		var t Toml
		if _, err := toml.DecodeFile(configPath, &t); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
		envCfg, err := t.Get(env)
		if err != nil {
			return nil, err
		}
		if envCfg == nil {
			return nil, fmt.Errorf("config for env [%s] missing in %s", env, configPath)
		}
		cfg = envCfg
	} else {
		log.Debugf("config file [%s] not found, using defaults", configPath)
		if _, err := (&Toml{}).Get(env); err != nil {
			return nil, err
		}
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = DefaultAttemptTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) applyEnv() {
	for _, envVar := range apiURLEnvVars {
		if apiURL := strings.TrimSpace(os.Getenv(envVar)); apiURL != "" {
			c.APIBaseURL = apiURL
			break
		}
	}
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" && c.RedisPort != ""
}
