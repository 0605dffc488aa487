package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Oracle backends
const (
	BackendGemini   = "gemini"
	BackendOCRSpace = "ocrspace"
)

// Settings backends
const (
	SettingsFile = "file"
	SettingsBolt = "bolt"
)

// Config - Runtime configuration loaded from the environment
type Config struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"`
	Prefix  string `env:"COMMAND_PREFIX" envDefault:"!"`

	OracleBackend string        `env:"ORACLE_BACKEND" envDefault:"gemini"`
	OracleTimeout time.Duration `env:"ORACLE_TIMEOUT" envDefault:"30s"`
	Gemini        GeminiConfig
	OCRSpace      OCRSpaceConfig

	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	MaxImageBytes int64         `env:"MAX_IMAGE_BYTES" envDefault:"20971520"`

	PendingTTL      time.Duration `env:"PENDING_TTL" envDefault:"15m"`
	VerifyPerMinute int           `env:"VERIFY_PER_MINUTE" envDefault:"3"`
	VerifyBurst     int           `env:"VERIFY_BURST" envDefault:"3"`

	SettingsBackend string `env:"SETTINGS_BACKEND" envDefault:"file"`
	SettingsPath    string `env:"SETTINGS_PATH" envDefault:"settings.json"`
	BoltPath        string `env:"BOLT_PATH" envDefault:"data/data.db"`
	WatchSettings   bool   `env:"WATCH_SETTINGS" envDefault:"true"`

	KeepAlive bool   `env:"KEEPALIVE_ENABLED" envDefault:"true"`
	Port      string `env:"PORT" envDefault:"3000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`
}

// GeminiConfig - Gemini oracle settings
type GeminiConfig struct {
	APIKey  string `env:"GEMINI_API_KEY"`
	Model   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL string `env:"GEMINI_BASE_URL"`
}

// OCRSpaceConfig - OCR.space oracle settings
type OCRSpaceConfig struct {
	APIKey   string `env:"OCRSPACE_API_KEY"`
	URL      string `env:"OCRSPACE_URL" envDefault:"https://api.ocr.space/parse/image"`
	Language string `env:"OCRSPACE_LANGUAGE" envDefault:"eng"`
}

// Load - Read .env (if present) and parse the environment
func Load() (*Config, bool, error) {
	var dotenv bool
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, false, fmt.Errorf("load .env: %w", err)
		}
		dotenv = true
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, dotenv, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, dotenv, cfg.Validate()
}

// RequireDiscord - Check the settings needed to connect to the gateway
func (c *Config) RequireDiscord() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

// RequireOracle - Check the selected oracle backend has its credentials
func (c *Config) RequireOracle() error {
	switch c.OracleBackend {
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the %q oracle", c.OracleBackend)
		}
	case BackendOCRSpace:
		if c.OCRSpace.APIKey == "" {
			return fmt.Errorf("OCRSPACE_API_KEY is required for the %q oracle", c.OracleBackend)
		}
	default:
		return fmt.Errorf("unknown oracle backend %q", c.OracleBackend)
	}
	return nil
}

// Validate - Check settings that env tags cannot express
func (c *Config) Validate() error {
	switch c.OracleBackend {
	case BackendGemini, BackendOCRSpace:
	default:
		return fmt.Errorf("unknown oracle backend %q", c.OracleBackend)
	}

	switch c.SettingsBackend {
	case SettingsFile, SettingsBolt:
	default:
		return fmt.Errorf("unknown settings backend %q", c.SettingsBackend)
	}

	if c.VerifyPerMinute < 0 || c.VerifyBurst < 0 {
		return fmt.Errorf("verify rate limits must not be negative")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	return nil
}
