package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Duration reads "10s", "5m" or a bare number of seconds from the environment.
type Duration time.Duration

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(s string) error {
	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// ParseDuration accepts Go duration syntax or a bare integer meaning seconds.
// Surrounding quotes are stripped.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Mongo MongoConfig
	Log   LogConfig
}

type AppConfig struct {
	Env string `env:"APP_ENV" env-default:"dev"`
}

type HTTPConfig struct {
	Port         string   `env:"PORT,PORTA" env-default:"5000"`
	ReadTimeout  Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type MongoConfig struct {
	// BACKEND_URL is accepted as the name older deployments use.
	URL string `env:"MONGO_URL,BACKEND_URL" env-required:"true"`

	// Database overrides the database named in URL.
	Database       string   `env:"MONGO_DATABASE" env-default:""`
	ConnectTimeout Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// LoadDotenv seeds the environment from a dotenv file. Variables already
// present in the environment win. A missing file is not an error.
func LoadDotenv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.WithError(err).Warnf("could not load %s, continuing with environment variables", path)
		return
	}
	log.Infof("loaded configuration from %s", path)
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}
	return cfg, nil
}

// ConfigureLogging applies level and format to the standard logrus logger.
func ConfigureLogging(cfg LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
