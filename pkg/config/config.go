// Package config loads and validates the analyzer configuration from YAML
// files with environment-variable overrides. Settings are fixed for the
// lifetime of a run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

// DefaultLinesPerDocument is the chunk size used when none is configured.
const DefaultLinesPerDocument = 1000

// DefaultTopK is the number of terms reported per document.
const DefaultTopK = 10

// Config is the top-level application configuration.
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Source   SourceConfig   `yaml:"source"`
	Export   ExportConfig   `yaml:"export"`
}

// ChunkingConfig controls how input lines are grouped into documents.
type ChunkingConfig struct {
	LinesPerDocument int `yaml:"linesPerDocument"`
}

// ReportConfig controls report size and output format.
type ReportConfig struct {
	TopK   int    `yaml:"topK"`
	Format string `yaml:"format"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server and the end-of-run
// Pushgateway push.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	PushURL string `yaml:"pushURL"`
	Job     string `yaml:"job"`
}

// SourceConfig holds object-store settings used when the input location is
// an s3:// or minio:// URL.
type SourceConfig struct {
	S3    S3Config    `yaml:"s3"`
	MinIO MinIOConfig `yaml:"minio"`
}

// S3Config holds AWS S3 client settings. Credentials come from the default
// AWS provider chain.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"usePathStyle"`
}

// MinIOConfig holds MinIO (or other S3-compatible) connection settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
}

// ExportConfig lists the optional sinks that receive a finished run.
// Concurrency caps how many sinks are written at once; zero means all.
type ExportConfig struct {
	Concurrency int            `yaml:"concurrency"`
	SQL         SQLConfig      `yaml:"sql"`
	Postgres    PostgresConfig `yaml:"postgres"`
	Redis       RedisConfig    `yaml:"redis"`
	Kafka       KafkaConfig    `yaml:"kafka"`
	Retry       RetryConfig    `yaml:"retry"`
}

// SQLConfig selects the SQL export driver. With driver "postgres" and an
// empty DSN the Postgres section is used to build one.
type SQLConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig holds Redis connection parameters for the report sink.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	TTL      time.Duration `yaml:"ttl"`
}

// KafkaConfig holds Kafka broker and topic settings for the event sink.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RetryConfig bounds how hard a sink is retried before giving up.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"maxAttempts"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
	AttemptTimeout time.Duration `yaml:"attemptTimeout"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			LinesPerDocument: DefaultLinesPerDocument,
		},
		Report: ReportConfig{
			TopK:   DefaultTopK,
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Job:     "tfidf",
		},
		Source: SourceConfig{
			S3: S3Config{
				Region: "us-east-1",
			},
			MinIO: MinIOConfig{
				Endpoint: "localhost:9000",
			},
		},
		Export: ExportConfig{
			Concurrency: 3,
			SQL: SQLConfig{
				Driver: "postgres",
			},
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				Database:        "tfidf",
				User:            "tfidf",
				Password:        "localdev",
				SSLMode:         "disable",
				MaxOpenConns:    5,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 4,
				TTL:      24 * time.Hour,
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "tfidf-results",
			},
			Retry: RetryConfig{
				MaxAttempts:    3,
				InitialBackoff: 100 * time.Millisecond,
				MaxBackoff:     2 * time.Second,
				AttemptTimeout: 10 * time.Second,
			},
		},
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Chunking.LinesPerDocument < 1 {
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure,
			"chunking.linesPerDocument must be at least 1, got %d", c.Chunking.LinesPerDocument)
	}
	if c.Report.TopK < 1 {
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure,
			"report.topK must be at least 1, got %d", c.Report.TopK)
	}
	switch c.Report.Format {
	case "text", "json":
	default:
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure,
			"report.format must be text or json, got %q", c.Report.Format)
	}
	if c.Export.Concurrency < 0 {
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure,
			"export.concurrency must not be negative, got %d", c.Export.Concurrency)
	}
	if c.Export.SQL.Enabled {
		switch c.Export.SQL.Driver {
		case "postgres", "sqlite3":
		default:
			return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure,
				"export.sql.driver must be postgres or sqlite3, got %q", c.Export.SQL.Driver)
		}
	}
	return nil
}

// applyEnvOverrides reads TFIDF_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TFIDF_LINES_PER_DOCUMENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chunking.LinesPerDocument = n
		}
	}
	if v := os.Getenv("TFIDF_EXPORT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.Concurrency = n
		}
	}
	if v := os.Getenv("TFIDF_REPORT_TOPK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Report.TopK = n
		}
	}
	if v := os.Getenv("TFIDF_REPORT_FORMAT"); v != "" {
		cfg.Report.Format = v
	}
	if v := os.Getenv("TFIDF_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TFIDF_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TFIDF_METRICS_PUSH_URL"); v != "" {
		cfg.Metrics.PushURL = v
	}
	if v := os.Getenv("TFIDF_S3_REGION"); v != "" {
		cfg.Source.S3.Region = v
	}
	if v := os.Getenv("TFIDF_S3_ENDPOINT"); v != "" {
		cfg.Source.S3.Endpoint = v
	}
	if v := os.Getenv("TFIDF_MINIO_ENDPOINT"); v != "" {
		cfg.Source.MinIO.Endpoint = v
	}
	if v := os.Getenv("TFIDF_MINIO_ACCESS_KEY"); v != "" {
		cfg.Source.MinIO.AccessKey = v
	}
	if v := os.Getenv("TFIDF_MINIO_SECRET_KEY"); v != "" {
		cfg.Source.MinIO.SecretKey = v
	}
	if v := os.Getenv("TFIDF_SQL_DSN"); v != "" {
		cfg.Export.SQL.DSN = v
	}
	if v := os.Getenv("TFIDF_POSTGRES_HOST"); v != "" {
		cfg.Export.Postgres.Host = v
	}
	if v := os.Getenv("TFIDF_POSTGRES_PASSWORD"); v != "" {
		cfg.Export.Postgres.Password = v
	}
	if v := os.Getenv("TFIDF_REDIS_ADDR"); v != "" {
		cfg.Export.Redis.Addr = v
	}
	if v := os.Getenv("TFIDF_REDIS_PASSWORD"); v != "" {
		cfg.Export.Redis.Password = v
	}
	if v := os.Getenv("TFIDF_KAFKA_BROKERS"); v != "" {
		cfg.Export.Kafka.Brokers = strings.Split(v, ",")
	}
}
