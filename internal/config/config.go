package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Scheduler  SchedulerConfig
	Difficulty DifficultyConfig
	Store      StoreConfig
	Redis      RedisConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type LLMConfig struct {
	Provider          string
	ServerURL         string
	Model             string
	APIKey            string
	Temperature       float64
	AttemptTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
}

type GenerationConfig struct {
	MaxAttempts       int
	Backoff           time.Duration
	BackoffMultiplier float64
	ReviewRatio       float64
	CandidatePoolSize int
	WithGloss         bool
}

type SchedulerConfig struct {
	PrefetchWait time.Duration
}

type DifficultyConfig struct {
	InitialVariance float64
	StepUp          float64
	StepDown        float64
}

type StoreConfig struct {
	Backend        string
	VocabFile      string
	DifficultyFile string
	SQL            SQLConfig
}

type SQLConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// envReplacer maps llm.api_key to QUIZ_LLM_API_KEY.
var envReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "20s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.model", "qwen3:0.6b")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.attempt_timeout", "30s")
	v.SetDefault("llm.requests_per_second", 1.0)
	v.SetDefault("llm.burst", 2)

	v.SetDefault("generation.max_attempts", 10)
	v.SetDefault("generation.backoff", "5s")
	v.SetDefault("generation.backoff_multiplier", 1.0)
	v.SetDefault("generation.review_ratio", 0.5)
	v.SetDefault("generation.candidate_pool_size", 50)
	v.SetDefault("generation.with_gloss", false)

	v.SetDefault("scheduler.prefetch_wait", "2m")

	v.SetDefault("difficulty.initial_variance", 1000.0)
	v.SetDefault("difficulty.step_up", 100.0)
	v.SetDefault("difficulty.step_down", 1000.0)

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.vocab_file", "vocab.txt")
	v.SetDefault("store.difficulty_file", "difficulty.txt")
	v.SetDefault("store.sql.driver", "sqlite")
	v.SetDefault("store.sql.dsn", "file:vocab.db?_pragma=busy_timeout(5000)")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
}

// LoadConfig reads config.yaml from the working directory (or ./config) and
// overlays QUIZ_* environment variables. A missing file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("quiz")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:          v.GetString("llm.provider"),
			ServerURL:         v.GetString("llm.server_url"),
			Model:             v.GetString("llm.model"),
			APIKey:            v.GetString("llm.api_key"),
			Temperature:       v.GetFloat64("llm.temperature"),
			AttemptTimeout:    v.GetDuration("llm.attempt_timeout"),
			RequestsPerSecond: v.GetFloat64("llm.requests_per_second"),
			Burst:             v.GetInt("llm.burst"),
		},
		Generation: GenerationConfig{
			MaxAttempts:       v.GetInt("generation.max_attempts"),
			Backoff:           v.GetDuration("generation.backoff"),
			BackoffMultiplier: v.GetFloat64("generation.backoff_multiplier"),
			ReviewRatio:       v.GetFloat64("generation.review_ratio"),
			CandidatePoolSize: v.GetInt("generation.candidate_pool_size"),
			WithGloss:         v.GetBool("generation.with_gloss"),
		},
		Scheduler: SchedulerConfig{
			PrefetchWait: v.GetDuration("scheduler.prefetch_wait"),
		},
		Difficulty: DifficultyConfig{
			InitialVariance: v.GetFloat64("difficulty.initial_variance"),
			StepUp:          v.GetFloat64("difficulty.step_up"),
			StepDown:        v.GetFloat64("difficulty.step_down"),
		},
		Store: StoreConfig{
			Backend:        v.GetString("store.backend"),
			VocabFile:      v.GetString("store.vocab_file"),
			DifficultyFile: v.GetString("store.difficulty_file"),
			SQL: SQLConfig{
				Driver: v.GetString("store.sql.driver"),
				DSN:    v.GetString("store.sql.dsn"),
			},
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}
}

// Validate rejects tunables the scheduler cannot run with.
func (c *Config) Validate() error {
	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("generation.max_attempts must be at least 1, got %d", c.Generation.MaxAttempts)
	}
	if c.Generation.Backoff < 0 {
		return fmt.Errorf("generation.backoff must not be negative")
	}
	if c.Generation.ReviewRatio < 0 || c.Generation.ReviewRatio > 1 {
		return fmt.Errorf("generation.review_ratio must be within [0, 1], got %v", c.Generation.ReviewRatio)
	}
	if c.Difficulty.InitialVariance <= 0 {
		return fmt.Errorf("difficulty.initial_variance must be positive")
	}
	if c.Difficulty.StepUp <= 0 || c.Difficulty.StepDown <= c.Difficulty.StepUp {
		return fmt.Errorf("difficulty steps must satisfy step_down > step_up > 0, got up=%v down=%v",
			c.Difficulty.StepUp, c.Difficulty.StepDown)
	}
	switch c.Store.Backend {
	case "file", "sql", "redis":
	default:
		return fmt.Errorf("unsupported store.backend: %q", c.Store.Backend)
	}
	return nil
}

// Watch re-reads the config file whenever it changes and hands the new
// values to onChange. Values that fail validation are reported through
// onError and never delivered.
func Watch(onChange func(*Config), onError func(error)) {
	v := viper.GetViper()
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg := fromViper(v)
		if err := cfg.Validate(); err != nil {
			onError(fmt.Errorf("ignoring config change in %s: %w", e.Name, err))
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
