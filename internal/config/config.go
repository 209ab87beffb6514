// Package config loads runtime settings for the Pragati backend from the
// environment. Configuration is read once at startup and passed by injection;
// nothing reads it from ambient state afterwards.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// signingAlgorithms lists the HMAC algorithms the token layer accepts.
var signingAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

type Config struct {
	HTTP      HTTPConfig
	PG        PGConfig
	Auth      AuthConfig
	Redis     RedisConfig
	S3        S3Config
	Weather   WeatherConfig
	Schemes   SchemesConfig
	Inference InferenceConfig
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type PGConfig struct {
	DSN string `env:"DATABASE_URL" env-required:"true"`
}

// AuthConfig carries the token-signing material. The access and refresh
// secrets are independent so that compromise of one cannot forge the other
// token class.
type AuthConfig struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET" env-required:"true"`
	SigningAlgorithm   string        `env:"TOKEN_SIGNING_ALGORITHM" env-default:"HS256"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"30m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" env-default:""`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" env-default:"10m"`
}

type S3Config struct {
	AccessKey    string `env:"S3_ACCESS_KEY" env-default:""`
	SecretKey    string `env:"S3_SECRET_KEY" env-default:""`
	Bucket       string `env:"S3_BUCKET" env-default:"pragati-uploads"`
	Region       string `env:"S3_REGION" env-default:"us-east-1"`
	BaseEndpoint string `env:"S3_BASE_ENDPOINT" env-default:""`
}

type WeatherConfig struct {
	APIKey  string        `env:"WEATHER_API_KEY" env-default:""`
	BaseURL string        `env:"WEATHER_BASE_URL" env-default:"https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"`
	Timeout time.Duration `env:"WEATHER_TIMEOUT" env-default:"10s"`
}

type SchemesConfig struct {
	APIKey  string        `env:"GROQ_API_KEY" env-default:""`
	BaseURL string        `env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	Model   string        `env:"GROQ_MODEL" env-default:"compound-beta"`
	Timeout time.Duration `env:"GROQ_TIMEOUT" env-default:"60s"`
}

type InferenceConfig struct {
	BaseURL string        `env:"INFERENCE_BASE_URL" env-default:""`
	Timeout time.Duration `env:"INFERENCE_TIMEOUT" env-default:"30s"`
}

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the invariants the token layer depends on. A violation
// here is a deployment mistake, not a runtime condition, so callers should
// treat an error as fatal.
func (c *Config) Validate() error {
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if !signingAlgorithms[c.Auth.SigningAlgorithm] {
		return fmt.Errorf("unsupported signing algorithm %q", c.Auth.SigningAlgorithm)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}
