package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	WebAddr     string `env:"WEB_ADDR" envDefault:":3000"`
	MetricsAddr string `env:"METRICS_ADDR"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`

	// analysis service
	MySQLDSN        string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"900"`
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	CachePrefix     string `env:"CACHE_PREFIX" envDefault:"review_analyzer:"`

	// clients of the analysis service
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	APIRPS      int    `env:"API_RPS" envDefault:"5"`
	DateLocale  string `env:"DATE_LOCALE" envDefault:"id-ID"`
	Timezone    string `env:"TIMEZONE" envDefault:"Local"`
	BulkWorkers int    `env:"BULK_WORKERS" envDefault:"4"`

	CacheTTL time.Duration
}

// Load reads an optional dotenv file (ENV_FILE, default .env) and then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	file := os.Getenv("ENV_FILE")
	if file == "" {
		file = ".env"
	}
	if err := gotenv.Load(file); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
		log.Debug().Str("file", file).Msg("no dotenv file, using process environment")
	}

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.CacheTTLSeconds < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	}
	c.CacheTTL = time.Duration(c.CacheTTLSeconds) * time.Second
	if c.BulkWorkers <= 0 {
		c.BulkWorkers = 1
	}
	return c, nil
}

// Location resolves Timezone for rendering timestamps.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
