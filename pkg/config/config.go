package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers        []string `yaml:"brokers"`
		EventsTopic    string   `yaml:"events_topic"`
		SummariesTopic string   `yaml:"summaries_topic"`
		RequiredAcks   int      `yaml:"required_acks"`
		Compression    string   `yaml:"compression"`
		Producer       struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Symbols        []string      `yaml:"symbols"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"stream"`
	EventFeed struct {
		Enabled bool          `yaml:"enabled"`
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"event_feed"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Host     string        `yaml:"host"`
		Port     int           `yaml:"port"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		Queue    struct {
			Enabled    bool          `yaml:"enabled"`
			Workers    int           `yaml:"workers"`
			RetryLimit int           `yaml:"retry_limit"`
			RetryDelay time.Duration `yaml:"retry_delay"`
		} `yaml:"queue"`
	} `yaml:"redis"`
	Study struct {
		Benchmark       string        `yaml:"benchmark"`
		UseBootstrap    bool          `yaml:"use_bootstrap"`
		BootstrapIter   int           `yaml:"bootstrap_iter"`
		Seed            int64         `yaml:"seed"`
		EstimationStart int           `yaml:"estimation_start"`
		EstimationEnd   int           `yaml:"estimation_end"`
		EventStart      int           `yaml:"event_start"`
		EventEnd        int           `yaml:"event_end"`
		Lookback        time.Duration `yaml:"lookback"`
	} `yaml:"study"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
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

	if v := os.Getenv("STREAM_API_KEY"); v != "" {
		c.Stream.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Stream.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_EVENTS_TOPIC"); v != "" {
		c.Kafka.EventsTopic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("EVENT_FEED_API_KEY"); v != "" {
		c.EventFeed.APIKey = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Stream.Enabled {
		if len(c.Stream.Symbols) == 0 {
			return fmt.Errorf("stream.symbols cannot be empty when the stream is enabled")
		}
		if c.Stream.APIKey == "" {
			return fmt.Errorf("stream.api_key is required when the stream is enabled")
		}
	}
	if c.Study.EstimationStart > c.Study.EstimationEnd {
		return fmt.Errorf("study.estimation_start must be <= study.estimation_end")
	}
	if c.Study.EventStart > c.Study.EventEnd {
		return fmt.Errorf("study.event_start must be <= study.event_end")
	}
	if c.EventFeed.Enabled && c.EventFeed.BaseURL == "" {
		return fmt.Errorf("event_feed.base_url is required when the feed is enabled")
	}
	if c.Study.BootstrapIter < 0 {
		return fmt.Errorf("study.bootstrap_iter cannot be negative")
	}
	return nil
}
