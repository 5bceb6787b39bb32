package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true" validate:"required"`

	DefaultCity           string `envconfig:"DEFAULT_CITY" default:"Moscow" validate:"required"`
	DefaultProvider       string `envconfig:"DEFAULT_PROVIDER" default:"open-meteo" validate:"required"`
	DefaultNotifyTime     string `envconfig:"DEFAULT_NOTIFY_TIME" default:"09:00" validate:"clock"`
	DefaultMagneticRegion string `envconfig:"DEFAULT_MAGNETIC_REGION" default:"RAL5" validate:"region"`

	StoreDriver   string `envconfig:"STORE_DRIVER" default:"json" validate:"oneof=json sqlite redis"`
	UsersFile     string `envconfig:"USERS_FILE" default:"./data/users.json"`
	DBPath        string `envconfig:"DB_PATH" default:"./data/forecast.db"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisKey      string `envconfig:"REDIS_KEY" default:"forecast-bot:users"`

	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s" validate:"gt=0"`
	OpenMeteoURL     string        `envconfig:"OPEN_METEO_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"url"`
	YandexWeatherURL string        `envconfig:"YANDEX_WEATHER_URL" default:"https://api.weather.yandex.ru/v2/forecast" validate:"url"`
	YandexWeatherKey string        `envconfig:"YANDEX_WEATHER_KEY"`
	XRASBaseURL      string        `envconfig:"XRAS_BASE_URL" default:"https://xras.ru" validate:"url"`

	Workers  int    `envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz + metrics
}

// Load reads environment variables into Config and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := domain.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Defaults returns the preferences assigned to a user on first contact.
func (c Config) Defaults() domain.Preferences {
	return domain.Preferences{
		City:           c.DefaultCity,
		Provider:       c.DefaultProvider,
		NotifyTime:     c.DefaultNotifyTime,
		MagneticRegion: c.DefaultMagneticRegion,
	}
}
