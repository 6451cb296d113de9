package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"household-app-go/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const dotenvFilename = ".env"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTPPort      string
	Env           string
	StorageDriver string
	DB            DBConfig
	Auth          AuthConfig
	CORS          CORSConfig
	Cache         CacheConfig
	Metrics       MetricsConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	SupabaseURL    string
	PublishableKey string
	JWTSecret      string
	Timeout        time.Duration
	WebhookSecret  string
	SkipAuth       bool
	MockUser       MockUser
}

// MockUser is the identity injected for every request when auth is skipped.
type MockUser struct {
	ExternalID string
	Email      string
	Name       string
	Image      string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type CacheConfig struct {
	Size         int
	HouseholdTTL time.Duration
	IdentityTTL  time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads .env (if any) into the process environment and resolves every
// setting through viper. Variables already set in the environment win.
func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort:      v.GetString("HTTP_PORT"),
		Env:           v.GetString("ENV"),
		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			SupabaseURL:    strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
			PublishableKey: v.GetString("SUPABASE_PUBLISHABLE_KEY"),
			JWTSecret:      v.GetString("AUTH_JWT_SECRET"),
			Timeout:        v.GetDuration("AUTH_TIMEOUT"),
			WebhookSecret:  v.GetString("WEBHOOK_SECRET"),
			SkipAuth:       v.GetBool("AUTH_SKIP"),
			MockUser: MockUser{
				ExternalID: v.GetString("AUTH_MOCK_USER_ID"),
				Email:      v.GetString("AUTH_MOCK_USER_EMAIL"),
				Name:       v.GetString("AUTH_MOCK_USER_NAME"),
				Image:      v.GetString("AUTH_MOCK_USER_IMAGE"),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Cache: CacheConfig{
			Size:         v.GetInt("CACHE_SIZE"),
			HouseholdTTL: v.GetDuration("CACHE_HOUSEHOLD_TTL"),
			IdentityTTL:  v.GetDuration("CACHE_IDENTITY_TTL"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)

	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "household_app")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)

	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_PUBLISHABLE_KEY", "")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("AUTH_TIMEOUT", 5*time.Second)
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("AUTH_SKIP", false)
	v.SetDefault("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001")
	v.SetDefault("AUTH_MOCK_USER_EMAIL", "dev@example.com")
	v.SetDefault("AUTH_MOCK_USER_NAME", "Developer")
	v.SetDefault("AUTH_MOCK_USER_IMAGE", "")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("CACHE_SIZE", 1024)
	v.SetDefault("CACHE_HOUSEHOLD_TTL", 5*time.Minute)
	v.SetDefault("CACHE_IDENTITY_TTL", time.Minute)

	v.SetDefault("METRICS_ENABLED", true)
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if !c.Auth.SkipAuth && c.Auth.JWTSecret == "" && c.Auth.SupabaseURL == "" {
		return errors.New("auth: set AUTH_JWT_SECRET or SUPABASE_URL, or AUTH_SKIP=true")
	}
	return nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

func loadDotEnv(log logger.Logger) error {
	path, err := findDotEnv(dotenvFilename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(path); err != nil {
		return err
	}
	log.Info("dotenv: loaded", "path", path)
	return nil
}

func findDotEnv(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

func splitList(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
