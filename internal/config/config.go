package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Mail     MailConfig
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
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	SecretKey                 string
	Algorithm                 string
	AccessTokenExpireMinutes  int
	RefreshTokenExpireMinutes int
	// EncryptionKey is the DES key used by stored passwords that predate bcrypt.
	EncryptionKey           string
	BcryptCost              int
	PasswordResetTTLMinutes int
}

// MailConfig holds outbound email settings.
type MailConfig struct {
	AdminName                string
	FromEmail                string
	SMTPHost                 string
	SMTPPort                 int
	SMTPPassword             string
	AppName                  string
	CompleteRegistrationLink string
	WebsiteLink              string
	OutboxKey                string
}

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	appName := getEnv("APP_NAME", "member-service")
	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  appName,
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: appEnv == "development",
		},
		Auth: AuthConfig{
			SecretKey:                 getEnv("SECRET_KEY", "dev-secret"),
			Algorithm:                 strings.ToUpper(getEnv("ALGORITHM", "HS256")),
			AccessTokenExpireMinutes:  getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
			RefreshTokenExpireMinutes: getEnvAsInt("REFRESH_TOKEN_EXPIRE_MINUTES", 7*24*60),
			EncryptionKey:             os.Getenv("ENCRYPTION_KEY"),
			BcryptCost:                getEnvAsInt("AUTH_BCRYPT_COST", 12),
			PasswordResetTTLMinutes:   getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 0),
		},
		Mail: MailConfig{
			AdminName:                getEnv("APP_ADMIN", appName),
			FromEmail:                getEnv("APP_FROM_EMAIL", "noreply@example.com"),
			SMTPHost:                 os.Getenv("APP_SMTP_HOST"),
			SMTPPort:                 getEnvAsInt("APP_SMTP_PORT", 587),
			SMTPPassword:             os.Getenv("APP_SMTP_PWD"),
			AppName:                  appName,
			CompleteRegistrationLink: os.Getenv("COMPLETE_REGISTRATION_LINK"),
			WebsiteLink:              os.Getenv("WEBSITE_LINK"),
			OutboxKey:                getEnv("MAIL_OUTBOX_KEY", "mail:outbox"),
		},
	}

	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (a AuthConfig) validate() error {
	if _, ok := supportedAlgorithms[a.Algorithm]; !ok {
		return fmt.Errorf("unsupported ALGORITHM %q", a.Algorithm)
	}
	if a.EncryptionKey != "" && len(a.EncryptionKey) != 8 {
		return fmt.Errorf("ENCRYPTION_KEY must be 8 bytes, got %d", len(a.EncryptionKey))
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

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenExpireMinutes) * time.Minute
}

// PasswordResetTTL returns the reset code lifetime; zero disables time-based expiry.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	if a.PasswordResetTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
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
