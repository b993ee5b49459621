package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for kycflow.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Claude       ClaudeConfig       `mapstructure:"claude"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Risk         RiskConfig         `mapstructure:"risk"`
	Verification VerificationConfig `mapstructure:"verification"`
	Circuit      CircuitConfig      `mapstructure:"circuit"`
	Policy       PolicyConfig       `mapstructure:"policy"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClaudeConfig holds Anthropic settings. An empty APIKey selects the local
// collaborators.
type ClaudeConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

// Enabled reports whether the remote collaborators should be used.
func (c ClaudeConfig) Enabled() bool { return c.APIKey != "" }

// String masks the API key so the config can be logged.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s, MaxTokens:%d}", maskAPIKey(c.APIKey), c.Model, c.MaxTokens)
}

func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// RedisConfig configures the optional risk cache backend. An empty URL keeps
// the cache in memory.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RiskConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// VerificationConfig sizes the document forensics worker pool.
type VerificationConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

type CircuitConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

// PolicyConfig points at a policy document. Empty uses the embedded default.
type PolicyConfig struct {
	File string `mapstructure:"file"`
}

// Load reads defaults, an optional kycflow.yaml and KYCFLOW_* environment
// variables, in increasing precedence.
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("kycflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/kycflow")
	}

	v.SetEnvPrefix("KYCFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("claude.api_key", "KYCFLOW_CLAUDE_API_KEY", "ANTHROPIC_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")
	v.SetDefault("claude.max_tokens", 2048)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("risk.cache_ttl", 10*time.Minute)

	v.SetDefault("verification.workers", 4)
	v.SetDefault("verification.queue_size", 64)

	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.success_threshold", 2)
	v.SetDefault("circuit.cooldown", 30*time.Second)

	v.SetDefault("policy.file", "")
}

// Validate checks that required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	if c.Claude.Enabled() && c.Claude.Model == "" {
		return fmt.Errorf("claude.model must not be empty when an API key is set")
	}
	if c.Verification.Workers <= 0 {
		return fmt.Errorf("verification.workers must be greater than 0")
	}
	if c.Verification.QueueSize <= 0 {
		return fmt.Errorf("verification.queue_size must be greater than 0")
	}
	if c.Circuit.FailureThreshold <= 0 || c.Circuit.SuccessThreshold <= 0 {
		return fmt.Errorf("circuit thresholds must be greater than 0")
	}
	if c.Risk.CacheTTL < 0 {
		return fmt.Errorf("risk.cache_ttl must be >= 0")
	}
	if c.Redis.URL != "" && c.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis.pool_size must be greater than 0")
	}
	return nil
}
