package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	AppEnv           string
	HTTPPort         string
	GRPCPort         string
	AllowedOrigins   string
	RequestBodyLimit int64
	ShutdownTimeout  time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// RedisConfig with an empty Addr disables the product list cache and the stock lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig with no brokers disables event publishing and the inventory listener.
type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
	StockTopic  string
	GroupID     string
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

type I18nConfig struct {
	DefaultLanguage string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:           getEnv("APP_ENV", "dev"),
			HTTPPort:         getEnv("HTTP_PORT", ":8080"),
			GRPCPort:         getEnv("GRPC_PORT", ":9090"),
			AllowedOrigins:   getEnv("ALLOWED_ORIGINS", ""),
			RequestBodyLimit: int64(getEnvInt("REQUEST_BODY_LIMIT", 1<<20)),
			ShutdownTimeout:  time.Duration(getEnvInt("SHUTDOWN_TIMEOUT", 15)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "json"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "orderflow"),
			Password:        getEnv("POSTGRES_PASSWORD", "orderflow"),
			DBName:          getEnv("POSTGRES_DB", "orderflow"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
			AccessTTL:  time.Duration(getEnvInt("JWT_ACCESS_TTL", 3600)) * time.Second,
			RefreshTTL: time.Duration(getEnvInt("JWT_REFRESH_TTL", 604800)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvSlice("KAFKA_BROKERS", nil),
			OrdersTopic: getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			StockTopic:  getEnv("KAFKA_TOPIC_STOCK", "stock.events"),
			GroupID:     getEnv("KAFKA_GROUP_INVENTORY", "orderflow-inventory"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", nil),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		I18n: I18nConfig{
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		},
	}
}

// DSN builds a libpq style connection string understood by the pgx stdlib driver.
func (c PostgresConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
