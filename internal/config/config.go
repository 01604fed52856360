package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DevJWTSecret is only meant for local development; main warns when it is in use.
	DevJWTSecret = "eventhub-dev-secret"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseURL                   string        `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns                int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	TokenDuration                 time.Duration `mapstructure:"TOKEN_DURATION"`
	SessionCookieEnabled          bool          `mapstructure:"SESSION_COOKIE_ENABLED"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	CORSOrigins                   []string      `mapstructure:"CORS_ORIGINS"`
	DefaultLocale                 string        `mapstructure:"DEFAULT_LOCALE"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	LogFormat                     string        `mapstructure:"LOG_FORMAT"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string        `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

var keys = []string{
	"PORT",
	"DATABASE_DRIVER",
	"DATABASE_PATH",
	"DATABASE_URL",
	"DB_MAX_OPEN_CONNS",
	"DB_MAX_IDLE_CONNS",
	"JWT_SECRET",
	"TOKEN_DURATION",
	"SESSION_COOKIE_ENABLED",
	"ENABLE_CORS",
	"CORS_ORIGINS",
	"DEFAULT_LOCALE",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"FRONTEND_URL",
	"DISCORD_CLIENT_ID",
	"DISCORD_CLIENT_SECRET",
	"DISCORD_REDIRECT_URL",
	"DISCORD_GUILD_ID",
	"DISCORD_BOT_TOKEN",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID",
}

// LoadConfig reads an optional .env file, then the process environment, on top of defaults.
func LoadConfig() (*Config, error) {
	// .env is optional; variables may come straight from the environment (Docker, CI).
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_PATH", "eventhub.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("JWT_SECRET", DevJWTSecret)
	v.SetDefault("TOKEN_DURATION", "24h")
	v.SetDefault("SESSION_COOKIE_ENABLED", true)
	v.SetDefault("ENABLE_CORS", true)
	v.SetDefault("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3001", "http://127.0.0.1:5173"})
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:3000/api/auth/discord/callback")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return errors.New("config: DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("config: DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.DBMaxIdleConns < 0 {
		return fmt.Errorf("config: DB_MAX_IDLE_CONNS must not be negative, got %d", c.DBMaxIdleConns)
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("config: TOKEN_DURATION must be positive, got %s", c.TokenDuration)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}

	return nil
}

// DiscordLoginEnabled reports whether the optional OAuth login is configured.
func (c *Config) DiscordLoginEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}
