package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"MacroPull/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Fred struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		Series  struct {
			Productivity string `yaml:"productivity"`
			GDP          string `yaml:"gdp"`
			Profits      string `yaml:"profits"`
			Compensation string `yaml:"compensation"`
		} `yaml:"series"`
	} `yaml:"fred"`
	Cache struct {
		Dir   string        `yaml:"dir"`
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Analysis struct {
		HACLags     int    `yaml:"hac_lags"`
		Bins        int    `yaml:"bins"`
		SampleStart string `yaml:"sample_start"`
		ADFMaxLags  int    `yaml:"adf_max_lags"`
	} `yaml:"analysis"`
	Output struct {
		ProcessedDir string `yaml:"processed_dir"`
		ResultsDir   string `yaml:"results_dir"`
	} `yaml:"output"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.Fred.APIKey = v
	}
	if v := os.Getenv("FRED_BASE_URL"); v != "" {
		c.Fred.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Fred.Series.Productivity == "" || c.Fred.Series.GDP == "" ||
		c.Fred.Series.Profits == "" || c.Fred.Series.Compensation == "" {
		return fmt.Errorf("fred.series requires productivity, gdp, profits and compensation ids")
	}
	if c.Analysis.HACLags < 0 {
		return fmt.Errorf("analysis.hac_lags must be >= 0, got %d", c.Analysis.HACLags)
	}
	if c.Analysis.Bins < 1 {
		return fmt.Errorf("analysis.bins must be >= 1, got %d", c.Analysis.Bins)
	}
	if c.Analysis.SampleStart != "" {
		if _, ok := util.ParseDate(c.Analysis.SampleStart); !ok {
			return fmt.Errorf("analysis.sample_start must be YYYY-MM-DD, got '%s'", c.Analysis.SampleStart)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

// SampleStartDate returns the configured minimum sample start (default 1947-01-01).
func (c *Config) SampleStartDate() time.Time {
	if t, ok := util.ParseDate(c.Analysis.SampleStart); ok {
		return t
	}
	return time.Date(1947, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// SeriesIDs returns all required FRED series ids in a stable order.
func (c *Config) SeriesIDs() []string {
	return []string{
		c.Fred.Series.Productivity,
		c.Fred.Series.GDP,
		c.Fred.Series.Profits,
		c.Fred.Series.Compensation,
	}
}
