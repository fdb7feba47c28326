package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Cybersoft CybersoftConfig
	Session   SessionConfig
	Booking   BookingConfig
	Admin     AdminConfig
	RabbitMQ  RabbitMQConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// DSN builds a pgx connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSLMode,
	)
}

type CybersoftConfig struct {
	BaseURL string
	Token   string
	Group   string
	Timeout time.Duration
}

type SessionConfig struct {
	IdleTimeout   time.Duration
	CheckInterval time.Duration
}

type BookingConfig struct {
	HoldSeconds int
}

type AdminConfig struct {
	ProtectedAccounts []string
}

type RabbitMQConfig struct {
	URL string
}

const (
	DefaultCybersoftBaseURL = "https://movienew.cybersoft.edu.vn"
	DefaultGroup            = "GP01"
	DefaultTimeout          = 15 * time.Second
	DefaultIdleTimeout      = 30 * time.Minute
	DefaultCheckInterval    = 5 * time.Minute
	DefaultHoldSeconds      = 600
)

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := envInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: envStr("SERVER_HOST", "localhost"),
		Port: serverPort,
	}

	postgresPort, err := envInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     envStr("POSTGRES_HOST", "localhost"),
		Port:     postgresPort,
		SSLMode:  envStr("POSTGRES_SSLMODE", "disable"),
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     envStr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	cybersoftCfg, err := loadCybersoft()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idle, err := envDur("SESSION_IDLE_TIMEOUT", DefaultIdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	check, err := envDur("SESSION_CHECK_INTERVAL", DefaultCheckInterval)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	holdSeconds, err := envInt("BOOKING_HOLD_SECONDS", DefaultHoldSeconds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if holdSeconds <= 0 {
		return nil, fmt.Errorf("%s: BOOKING_HOLD_SECONDS must be positive", op)
	}

	return &Config{
		Server:    serverCfg,
		Postgres:  postgresCfg,
		Redis:     redisCfg,
		Cybersoft: *cybersoftCfg,
		Session: SessionConfig{
			IdleTimeout:   idle,
			CheckInterval: check,
		},
		Booking: BookingConfig{HoldSeconds: holdSeconds},
		Admin: AdminConfig{
			ProtectedAccounts: splitList(envStr("PROTECTED_ACCOUNTS", "chiviet2025,admin,chiviet")),
		},
		RabbitMQ: RabbitMQConfig{URL: os.Getenv("RABBITMQ_URL")},
	}, nil
}

// NewCybersoft loads only the upstream API settings. The CLI uses it.
func NewCybersoft() (*CybersoftConfig, error) {
	const op = "config.NewCybersoft"

	_ = godotenv.Load()

	cfg, err := loadCybersoft()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func loadCybersoft() (*CybersoftConfig, error) {
	token := os.Getenv("CYBERSOFT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("missing CYBERSOFT_TOKEN")
	}

	timeout, err := envDur("CYBERSOFT_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}

	return &CybersoftConfig{
		BaseURL: strings.TrimRight(envStr("CYBERSOFT_BASE_URL", DefaultCybersoftBaseURL), "/"),
		Token:   token,
		Group:   envStr("CYBERSOFT_GROUP", DefaultGroup),
		Timeout: timeout,
	}, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func envDur(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
