package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sngm3741/cafe-finder/api/internal/platform/logging"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Addr     string `mapstructure:"HTTP_ADDR"`
	Timezone string `mapstructure:"TIMEZONE"`

	MongoURI                     string        `mapstructure:"MONGO_URI"`
	MongoDatabase                string        `mapstructure:"MONGO_DB"`
	Timeout                      time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT"`
	CafeCollection               string        `mapstructure:"CAFE_COLLECTION"`
	ReviewCollection             string        `mapstructure:"REVIEW_COLLECTION"`
	VoteCollection               string        `mapstructure:"REVIEW_VOTE_COLLECTION"`
	ClaimCollection              string        `mapstructure:"CLAIM_COLLECTION"`
	BusyCollection               string        `mapstructure:"BUSY_COLLECTION"`
	FailedNotificationCollection string        `mapstructure:"FAILED_NOTIFICATION_COLLECTION"`

	JWTSecret   string `mapstructure:"AUTH_JWT_SECRET"`
	JWTIssuer   string `mapstructure:"AUTH_JWT_ISSUER"`
	JWTSecrets  string `mapstructure:"AUTH_JWT_SECRETS"`
	JWTAudience string `mapstructure:"AUTH_JWT_AUDIENCE"`
	Origins     string `mapstructure:"API_ALLOWED_ORIGINS"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	PopularCacheTTL time.Duration `mapstructure:"POPULAR_CACHE_TTL"`

	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int `mapstructure:"RATE_LIMIT_BURST"`

	MessengerEndpoint    string        `mapstructure:"MESSENGER_GATEWAY_URL"`
	MessengerDestination string        `mapstructure:"MESSENGER_GATEWAY_DESTINATION"`
	MessengerTimeout     time.Duration `mapstructure:"MESSENGER_GATEWAY_TIMEOUT"`
	AdminBaseURL         string        `mapstructure:"ADMIN_BASE_URL"`

	JWTConfigs     []JWTConfig `mapstructure:"-"`
	AllowedOrigins []string    `mapstructure:"-"`
	Logger         *zap.Logger `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_ENV":                        "production",
	"LOG_LEVEL":                      "",
	"HTTP_ADDR":                      ":8080",
	"TIMEZONE":                       "UTC",
	"MONGO_URI":                      "mongodb://mongo:27017",
	"MONGO_DB":                       "cafe-finder",
	"MONGO_CONNECT_TIMEOUT":          "10s",
	"CAFE_COLLECTION":                "cafes",
	"REVIEW_COLLECTION":              "reviews",
	"REVIEW_VOTE_COLLECTION":         "review_votes",
	"CLAIM_COLLECTION":               "claims",
	"BUSY_COLLECTION":                "busy_entries",
	"FAILED_NOTIFICATION_COLLECTION": "failed_notifications",
	"AUTH_JWT_SECRET":                "",
	"AUTH_JWT_ISSUER":                "cafe-finder-auth",
	"AUTH_JWT_SECRETS":               "",
	"AUTH_JWT_AUDIENCE":              "",
	"API_ALLOWED_ORIGINS":            "*",
	"REDIS_ADDR":                     "",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"POPULAR_CACHE_TTL":              "5m",
	"RATE_LIMIT_PER_MINUTE":          120,
	"RATE_LIMIT_BURST":               20,
	"MESSENGER_GATEWAY_URL":          "",
	"MESSENGER_GATEWAY_DESTINATION":  "slack",
	"MESSENGER_GATEWAY_TIMEOUT":      "3s",
	"ADMIN_BASE_URL":                 "",
}

// Load reads the given .env files (missing files are skipped), then the
// environment, and returns a fully populated Config with its logger built.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	jwtConfigs, err := parseJWTConfigs(cfg.JWTIssuer, cfg.JWTSecret, cfg.JWTSecrets)
	if err != nil {
		return Config{}, err
	}
	if len(jwtConfigs) == 0 {
		return Config{}, errors.New("JWT secrets not configured. Set AUTH_JWT_SECRET or AUTH_JWT_SECRETS")
	}
	cfg.JWTConfigs = jwtConfigs
	cfg.AllowedOrigins = parseList(cfg.Origins, []string{"*"})
	cfg.MessengerEndpoint = strings.TrimRight(strings.TrimSpace(cfg.MessengerEndpoint), "/")
	if cfg.RateLimitPerMinute < 0 || cfg.RateLimitBurst < 0 {
		return Config{}, errors.New("rate limits must not be negative")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.Logger = logger

	cfg.Logger.Info("loaded config",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Addr),
		zap.String("mongoDB", cfg.MongoDatabase),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Bool("messenger", cfg.MessengerEndpoint != ""),
		zap.Int("jwtIssuers", len(cfg.JWTConfigs)),
	)
	return cfg, nil
}

// parseJWTConfigs combines the primary issuer/secret pair with the
// comma-separated issuer=secret pairs of AUTH_JWT_SECRETS.
func parseJWTConfigs(issuer, secret, extra string) ([]JWTConfig, error) {
	var configs []JWTConfig
	if s := strings.TrimSpace(secret); s != "" {
		configs = append(configs, JWTConfig{Issuer: strings.TrimSpace(issuer), Secret: []byte(s)})
	}
	for _, pair := range parseList(extra, nil) {
		iss, sec, ok := strings.Cut(pair, "=")
		iss, sec = strings.TrimSpace(iss), strings.TrimSpace(sec)
		if !ok || iss == "" || sec == "" {
			return nil, fmt.Errorf("AUTH_JWT_SECRETS entry %q must be issuer=secret", pair)
		}
		configs = append(configs, JWTConfig{Issuer: iss, Secret: []byte(sec)})
	}
	return configs, nil
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
