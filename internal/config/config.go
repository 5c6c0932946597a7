package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backends.
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// Role policies.
const (
	RolePolicyEmail  = "email"
	RolePolicyServer = "server"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App      AppConfig
	Services ServicesConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Policy   PolicyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// ServicesConfig locates the remote identity and order services.
type ServicesConfig struct {
	AuthURL              string
	OrderURL             string
	ClientTimeoutSeconds int
}

// StoreConfig selects where tokens and cached identities are persisted.
type StoreConfig struct {
	Backend  string
	TTLHours int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig covers the workspace cookie and workspace lifetime.
type SessionConfig struct {
	CookieName     string
	CookieSecret   string
	CookieTTLHours int
	CookieSecure   bool
	IdleMinutes    int
	SweepSchedule  string
}

// PolicyConfig holds user-facing policy knobs.
type PolicyConfig struct {
	RolePolicy        string
	AdminEmails       []string
	NotificationInbox int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "oms-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Services: ServicesConfig{
			AuthURL:              strings.TrimRight(getEnv("AUTH_SERVICE_URL", "http://localhost:8081"), "/"),
			OrderURL:             strings.TrimRight(getEnv("ORDER_SERVICE_URL", "http://localhost:8082"), "/"),
			ClientTimeoutSeconds: getEnvAsInt("HTTP_CLIENT_TIMEOUT_SECONDS", 15),
		},
		Store: StoreConfig{
			Backend:  strings.ToLower(getEnv("TOKEN_STORE_BACKEND", StoreBackendMemory)),
			TTLHours: getEnvAsInt("TOKEN_STORE_TTL_HOURS", 24*7),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			CookieName:     getEnv("SESSION_COOKIE_NAME", "oms_sid"),
			CookieSecret:   getEnv("SESSION_COOKIE_SECRET", "dev-secret"),
			CookieTTLHours: getEnvAsInt("SESSION_COOKIE_TTL_HOURS", 24*7),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", false),
			IdleMinutes:    getEnvAsInt("WORKSPACE_IDLE_MINUTES", 30),
			SweepSchedule:  getEnv("WORKSPACE_SWEEP_SCHEDULE", "@every 5m"),
		},
		Policy: PolicyConfig{
			RolePolicy:        strings.ToLower(getEnv("ROLE_POLICY", RolePolicyEmail)),
			AdminEmails:       splitCSV(getEnv("ADMIN_EMAILS", "admin@oms.com")),
			NotificationInbox: getEnvAsInt("NOTIFICATION_INBOX_SIZE", 20),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendRedis:
	case StoreBackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("TOKEN_STORE_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("invalid TOKEN_STORE_BACKEND: %q", c.Store.Backend)
	}
	switch c.Policy.RolePolicy {
	case RolePolicyEmail, RolePolicyServer:
	default:
		return fmt.Errorf("invalid ROLE_POLICY: %q", c.Policy.RolePolicy)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ClientTimeout bounds every call to a remote service.
func (s ServicesConfig) ClientTimeout() time.Duration {
	if s.ClientTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.ClientTimeoutSeconds) * time.Second
}

// TTL is how long persisted tokens survive without a refresh. Zero keeps them forever.
func (s StoreConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 0
	}
	return time.Duration(s.TTLHours) * time.Hour
}

// CookieTTL returns the workspace cookie lifetime.
func (s SessionConfig) CookieTTL() time.Duration {
	return time.Duration(s.CookieTTLHours) * time.Hour
}

// IdleTimeout is how long an unused workspace stays in memory.
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
