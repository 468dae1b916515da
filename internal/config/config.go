// Package config loads service settings from built-in defaults, an optional
// YAML file and BOOKHUB_* environment variables, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"bookhub/internal/validation"
	"bookhub/pkg/database"
)

const (
	EnvPrefix = "BOOKHUB_"
	// PathEnvVar names the YAML file to load.
	PathEnvVar  = "BOOKHUB_CONFIG"
	DefaultPath = "config.yaml"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	NLP       NLPConfig       `koanf:"nlp"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	HTTPAddr string `koanf:"http_addr" validate:"required"`
	// GRPCAddr empty disables the gRPC listener.
	GRPCAddr        string        `koanf:"grpc_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type CatalogConfig struct {
	// SeedPath is imported into an empty database at startup.
	SeedPath string `koanf:"seed_path"`
}

type NLPConfig struct {
	ConfidenceThreshold float64 `koanf:"confidence_threshold" validate:"gte=0.1,lte=0.9"`
	AdvancedProcessing  bool    `koanf:"advanced_processing"`
	// LexiconPath overrides the embedded lexicon.
	LexiconPath  string `koanf:"lexicon_path"`
	DefaultLimit int    `koanf:"default_limit" validate:"min=1,max=50"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required,min=8"`
	JWTIssuer string        `koanf:"jwt_issuer" validate:"required"`
	JWTTTL    time.Duration `koanf:"jwt_ttl" validate:"gt=0"`
	// AdminUsername and AdminPassword bootstrap the first admin account.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`
}

type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":9090",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: database.DefaultConfig().Path},
		Catalog:  CatalogConfig{SeedPath: "data/books.json"},
		NLP: NLPConfig{
			ConfidenceThreshold: 0.3,
			AdvancedProcessing:  true,
			DefaultLimit:        5,
		},
		Auth: AuthConfig{
			// dev default, override with BOOKHUB_AUTH_JWT_SECRET
			JWTSecret:     "dev-secret-change-me",
			JWTIssuer:     "bookhub",
			JWTTTL:        24 * time.Hour,
			AdminUsername: "admin",
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 30,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration. An empty path falls back to $BOOKHUB_CONFIG
// and then to ./config.yaml; a missing default file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path, explicit := resolvePath(path)
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Auth.AdminPassword != "" && c.Auth.AdminUsername == "" {
		return errors.New("invalid config: auth.admin_password set without auth.admin_username")
	}
	return nil
}

func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, true
	}
	return DefaultPath, false
}

var sections = []string{"server", "database", "catalog", "nlp", "auth", "rate_limit", "logging"}

// envKey maps BOOKHUB_RATE_LIMIT_WINDOW to rate_limit.window. Variables that
// do not start with a known section are ignored.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
			return s + "." + rest
		}
	}
	return ""
}
