package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sanjanarawald/CreditApprovalSystem/pkg/kafka"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`

	MigrationsPath string `yaml:"migrations_path"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Brokers       []string `yaml:"brokers"`
	Topic         string   `yaml:"topic"`
	ConsumerGroup string   `yaml:"consumer_group"`
	TLS           bool     `yaml:"tls"`
	SASLMechanism string   `yaml:"sasl_mechanism"`
	SASLUsername  string   `yaml:"sasl_username"`
	SASLPassword  string   `yaml:"sasl_password"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ScoreTTL time.Duration `yaml:"score_ttl"`
}

type AuthConfig struct {
	Required      bool   `yaml:"required"`
	JWTSecret     string `yaml:"jwt_secret"`
	PublicKeyPath string `yaml:"public_key_path"`
	Issuer        string `yaml:"issuer"`
}

type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TelemetryConfig struct {
	// OTLPEndpoint is host:port of an OTLP/gRPC collector. Empty keeps
	// traces in-process.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

type Config struct {
	ServiceName    string `yaml:"service_name"`
	HTTPPort       int    `yaml:"http_port"`
	GRPCPort       int    `yaml:"grpc_port"`
	GRPCReflection bool   `yaml:"grpc_reflection"`
	// Timezone decides when "today" rolls over for debt and scoring.
	Timezone string `yaml:"timezone"`


	DB          DatabaseConfig  `yaml:"db"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	Redis       RedisConfig     `yaml:"redis"`
	Auth        AuthConfig      `yaml:"auth"`
	TLS         TLSConfig       `yaml:"tls"`
	Log         LogConfig       `yaml:"log"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		ServiceName: "credit-service",
		HTTPPort:    8000,
		GRPCPort:    9090,
		Timezone:    "UTC",
		DB: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "credit",
			Name:           "credit",
			SSLMode:        "disable",
			MigrationsPath: "file://migrations",
			AutoMigrate:    true,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			Topic:         "credit.events",
			ConsumerGroup: "creditctl",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			ScoreTTL: 10 * time.Minute,
		},
		Auth: AuthConfig{
			Issuer: "credit-service",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			OTLPInsecure: true,
		},
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file named by CONFIG_FILE (if any), then environment variables. A .env
// file in the working directory is loaded into the environment first.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.overlayYAML(data); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.overlayEnv()
	return cfg, nil
}

func (c *Config) overlayYAML(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return err
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)
	c.GRPCPort = getEnvInt("GRPC_PORT", c.GRPCPort)
	c.GRPCReflection = getEnvBool("GRPC_REFLECTION", c.GRPCReflection)
	c.Timezone = getEnv("CREDIT_TIMEZONE", c.Timezone)

	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnvInt("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Name = getEnv("DB_NAME", c.DB.Name)
	c.DB.SSLMode = getEnv("DB_SSLMODE", c.DB.SSLMode)
	c.DB.MaxConns = int32(getEnvInt("DB_MAX_CONNS", int(c.DB.MaxConns)))
	c.DB.MigrationsPath = getEnv("MIGRATIONS_PATH", c.DB.MigrationsPath)
	c.DB.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", c.DB.AutoMigrate)

	c.Kafka.Enabled = getEnvBool("KAFKA_ENABLED", c.Kafka.Enabled)
	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", c.Kafka.ConsumerGroup)
	c.Kafka.TLS = getEnvBool("KAFKA_TLS", c.Kafka.TLS)
	c.Kafka.SASLMechanism = getEnv("KAFKA_SASL_MECHANISM", c.Kafka.SASLMechanism)
	c.Kafka.SASLUsername = getEnv("KAFKA_SASL_USERNAME", c.Kafka.SASLUsername)
	c.Kafka.SASLPassword = getEnv("KAFKA_SASL_PASSWORD", c.Kafka.SASLPassword)

	c.Redis.Enabled = getEnvBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.ScoreTTL = getEnvDuration("REDIS_SCORE_TTL", c.Redis.ScoreTTL)

	c.Auth.Required = getEnvBool("AUTH_REQUIRED", c.Auth.Required)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.PublicKeyPath = getEnv("JWT_PUBLIC_KEY_PATH", c.Auth.PublicKeyPath)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)

	c.TLS.CertFile = getEnv("TLS_CERT_FILE", c.TLS.CertFile)
	c.TLS.KeyFile = getEnv("TLS_KEY_FILE", c.TLS.KeyFile)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.OTLPInsecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", c.Telemetry.OTLPInsecure)
}

// Validate reports the first setting that makes the service unable to start.
func (c Config) Validate() error {
	if c.DB.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.HTTPPort <= 0 || c.GRPCPort <= 0 {
		return errors.New("HTTP_PORT and GRPC_PORT must be positive")
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" && c.Auth.PublicKeyPath == "" {
		return errors.New("AUTH_REQUIRED needs JWT_SECRET or JWT_PUBLIC_KEY_PATH")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_ENABLED needs KAFKA_BROKERS")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("CREDIT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Client converts the Kafka settings for pkg/kafka.
func (k KafkaConfig) Client() kafka.Config {
	return kafka.Config{
		Brokers:       k.Brokers,
		ConsumerGroup: k.ConsumerGroup,
		TLS:           k.TLS,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
	}
}

// Postgres converts the database settings for pkg/postgres.
func (c Config) Postgres() postgres.Config {
	return postgres.Config{
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Database: c.DB.Name,
		SSLMode:  c.DB.SSLMode,
		MaxConns: c.DB.MaxConns,
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
