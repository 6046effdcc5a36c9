package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	xutil "BaseballMVP/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"250ms"`
		RateLimit       struct {
			Enabled  bool    `yaml:"enabled" default:"true"`
			Capacity float64 `yaml:"capacity" default:"20"`
			Refill   float64 `yaml:"refill_per_sec" default:"10"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level     string `yaml:"level" default:"info"`
		Format    string `yaml:"format" default:"console"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled        bool          `yaml:"enabled"`
			Topic          string        `yaml:"topic" default:"baseball.logs"`
			TimeInterval   time.Duration `yaml:"time_interval" default:"30s"`
			CountThreshold int           `yaml:"count_threshold" default:"100"`
		} `yaml:"collector"`
	} `yaml:"logging"`
	Reference struct {
		Source string `yaml:"source" default:"file"`
		Path   string `yaml:"path" default:"data/aggregates.json"`
	} `yaml:"reference"`
	Model struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"models/matchup_gbt.json"`
	} `yaml:"model"`
	Smoothing Smoothing `yaml:"smoothing"`
	Cache     struct {
		TTL   time.Duration `yaml:"ttl" default:"60s"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"baseball.predictions"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"5s"`
			Async        bool          `yaml:"async" default:"true"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"baseball"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
}

// Smoothing holds the empirical-Bayes priors, one block per rate type.
type Smoothing struct {
	DerivePriorFromData bool      `yaml:"derive_prior_from_data" default:"true"`
	Hit                 RatePrior `yaml:"hit"`
	Strikeout           RatePrior `yaml:"strikeout"`
	Walk                RatePrior `yaml:"walk"`
}

// RatePrior is a league-wide prior rate and its pseudo-count per rolling window.
type RatePrior struct {
	Rate           float64 `yaml:"rate"`
	Strength7d     float64 `yaml:"strength_7d"`
	Strength30d    float64 `yaml:"strength_30d"`
	StrengthSeason float64 `yaml:"strength_season"`
}

// SetDefaults fills rate-specific priors; creasty/defaults calls it after tag defaults.
func (s *Smoothing) SetDefaults() {
	fill := func(p *RatePrior, rate, s7, s30, season float64) {
		if p.Rate == 0 {
			p.Rate = rate
		}
		if p.Strength7d == 0 {
			p.Strength7d = s7
		}
		if p.Strength30d == 0 {
			p.Strength30d = s30
		}
		if p.StrengthSeason == 0 {
			p.StrengthSeason = season
		}
	}
	fill(&s.Hit, 0.225, 10, 40, 200)
	fill(&s.Strikeout, 0.222, 8, 30, 120)
	fill(&s.Walk, 0.084, 12, 50, 250)
}

// Default returns a config populated only from struct defaults.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// defaults first so explicit false/zero values in the file survive
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("REFERENCE_PATH"); v != "" {
		c.Reference.Path = v
	}
	if v := os.Getenv("REFERENCE_SOURCE"); v != "" {
		c.Reference.Source = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	c.Server.Port = xutil.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Reference.Source {
	case "file":
		if c.Reference.Path == "" {
			return fmt.Errorf("reference.path is required for file source")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for clickhouse source")
		}
	default:
		return fmt.Errorf("reference.source must be 'file' or 'clickhouse', got '%s'", c.Reference.Source)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	for name, p := range map[string]RatePrior{"hit": c.Smoothing.Hit, "strikeout": c.Smoothing.Strikeout, "walk": c.Smoothing.Walk} {
		if p.Rate < 0 || p.Rate > 1 {
			return fmt.Errorf("smoothing.%s.rate must be in [0,1], got %v", name, p.Rate)
		}
		if p.Strength7d < 0 || p.Strength30d < 0 || p.StrengthSeason < 0 {
			return fmt.Errorf("smoothing.%s strengths must be non-negative", name)
		}
	}
	return nil
}
