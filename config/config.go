package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Directory  UpstreamConfig
	Classifier UpstreamConfig
	Admin      AdminConfig
	Identity   IdentityConfig
	Video      VideoConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// UpstreamConfig describes one outbound HTTP dependency.
type UpstreamConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

type AdminConfig struct {
	AllowedEmails []string
}

type IdentityConfig struct {
	TokenInfoURL string
	ClientID     string
	Timeout      time.Duration
}

type VideoConfig struct {
	Provider  string
	AppID     string
	AppSecret string
	TokenTTL  time.Duration
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Environment-only deployments run without a .env file
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Port: stringOr(v, "APP_PORT", "8080"),
			Env:  stringOr(v, "APP_ENV", "production"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr(v, "JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr(v, "JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Directory: UpstreamConfig{
			URL:        v.GetString("DIRECTORY_URL"),
			Timeout:    durationOr(v, "DIRECTORY_TIMEOUT", 5*time.Second),
			MaxRetries: intOr(v, "DIRECTORY_MAX_RETRIES", 1),
		},
		Classifier: UpstreamConfig{
			URL:        v.GetString("CLASSIFIER_URL"),
			Timeout:    durationOr(v, "CLASSIFIER_TIMEOUT", 5*time.Second),
			MaxRetries: intOr(v, "CLASSIFIER_MAX_RETRIES", 1),
		},
		Admin: AdminConfig{
			AllowedEmails: splitList(v.GetString("ADMIN_ALLOWED_EMAILS")),
		},
		Identity: IdentityConfig{
			TokenInfoURL: stringOr(v, "IDENTITY_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo"),
			ClientID:     v.GetString("IDENTITY_CLIENT_ID"),
			Timeout:      durationOr(v, "IDENTITY_TIMEOUT", 5*time.Second),
		},
		Video: VideoConfig{
			Provider:  stringOr(v, "VIDEO_PROVIDER", "none"),
			AppID:     v.GetString("VIDEO_APP_ID"),
			AppSecret: v.GetString("VIDEO_APP_SECRET"),
			TokenTTL:  durationOr(v, "VIDEO_TOKEN_TTL", time.Hour),
		},
		Session: SessionConfig{
			TTL:             durationOr(v, "SESSION_TTL", 30*time.Minute),
			CleanupInterval: durationOr(v, "SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: floatOr(v, "SEARCH_RATE_LIMIT_RPS", 2),
			Burst:             intOr(v, "SEARCH_RATE_LIMIT_BURST", 5),
		},
	}
}

func stringOr(v *viper.Viper, key, def string) string {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return def
}

func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func intOr(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	return v.GetInt(key)
}

func floatOr(v *viper.Viper, key string, def float64) float64 {
	if f := v.GetFloat64(key); f > 0 {
		return f
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
