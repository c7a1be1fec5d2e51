package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const galaLayout = "2006-01-02T15:04:05"

type Config struct {
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Event   Event
	Discord Discord
	Storage Storage
	Session Session
	Server  Server
	Roblox  Roblox
}

type Event struct {
	Name     string `env:"EVENT_NAME" envDefault:"SpainRP Awards 2025"`
	GalaDate string `env:"GALA_DATE" envDefault:"2025-12-26T20:00:00"`
}

type Discord struct {
	Token        string   `env:"DISCORD_TOKEN"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URI"`
	AdminIDs     []string `env:"ADMIN_IDS" envSeparator:","`
	GuildID      string   `env:"GUILD_ID"`
}

type Storage struct {
	Driver        string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"awards"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"awards.db"`
}

type Session struct {
	Driver        string        `env:"SESSION_STORE" envDefault:"memory"`
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"0s"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

type Server struct {
	Port               int           `env:"PORT" envDefault:"3001"`
	FrontendURL        string        `env:"FRONTEND_URL" envDefault:"https://spainrp.xyz"`
	APISecretKey       string        `env:"API_SECRET_KEY"`
	ClientSecretKey    string        `env:"CLIENT_SECRET_KEY"`
	JWTSecret          string        `env:"JWT_SECRET"`
	EditableCategories []string      `env:"EDITABLE_CATEGORIES" envSeparator:"," envDefault:"mejor_dao,mejor_gc"`
	RateLimit          int           `env:"RATE_LIMIT" envDefault:"100"`
	RateWindow         time.Duration `env:"RATE_WINDOW" envDefault:"10m"`
}

type Roblox struct {
	UsersURL         string        `env:"ROBLOX_USERS_URL" envDefault:"https://users.roblox.com"`
	ThumbnailsURL    string        `env:"ROBLOX_THUMBNAILS_URL" envDefault:"https://thumbnails.roblox.com"`
	Timeout          time.Duration `env:"ROBLOX_TIMEOUT" envDefault:"5s"`
	DefaultAvatarURL string        `env:"DEFAULT_AVATAR_URL" envDefault:"https://i.imgur.com/rSnIo9U.png"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; production sets variables directly.
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Discord.AdminIDs = compact(cfg.Discord.AdminIDs)
	cfg.Server.EditableCategories = compact(cfg.Server.EditableCategories)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags can't express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "mongo", "sqlite":
	default:
		return fmt.Errorf("STORE_DRIVER must be mongo or sqlite, got %q", c.Storage.Driver)
	}
	switch c.Session.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE must be memory or redis, got %q", c.Session.Driver)
	}
	if c.Session.IdleTimeout < 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must not be negative")
	}
	if c.Session.IdleTimeout > 0 && c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive when idle timeout is set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Server.Port)
	}
	if _, err := c.Event.Gala(); err != nil {
		return err
	}
	return nil
}

// Gala parses GALA_DATE. A value without a zone is read in local time.
func (e Event) Gala() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, e.GalaDate); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(galaLayout, e.GalaDate, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid GALA_DATE %q: %w", e.GalaDate, err)
	}
	return t, nil
}

// Addr is the HTTP listen address.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
