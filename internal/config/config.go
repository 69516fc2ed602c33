package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"1m"`
	RunMigrations   bool          `yaml:"RUN_MIGRATIONS" env:"PG_RUN_MIGRATIONS" env-default:"true"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

// RateLimit bounds cart writes per user in a sliding window.
type RateLimit struct {
	Window      time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	MaxRequests int64         `yaml:"max_requests" env:"RATE_LIMIT_MAX_REQUESTS" env-default:"60"`
}

type Security struct {
	JWTKey string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
}

type OtelConfig struct {
	Enabled          bool    `yaml:"ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"easyshop-api"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:"http://localhost:4318/v1/traces"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Cache        CacheConfig  `yaml:"cache"`
	RateLimit    RateLimit    `yaml:"rate_limit"`
	Security     Security     `yaml:"security"`
	Otel         OtelConfig   `yaml:"otel"`
}

// MustLoad resolves the config path from CONFIG_PATH, the -config flag or the
// default location, and exits the process when the file cannot be loaded.
func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the YAML config file")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = defaultConfigPath
		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}

func (r *RedisConnect) Addr() string {
	return r.Host + ":" + r.Port
}
