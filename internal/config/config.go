// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CALENDAR"

type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	API        APIConfig        `mapstructure:"api" yaml:"api"`
	CORS       CORSConfig       `mapstructure:"cors" yaml:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" yaml:"rate_limit"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Calendar   CalendarConfig   `mapstructure:"calendar" yaml:"calendar"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type APIConfig struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	RPM int `mapstructure:"rpm" yaml:"rpm"` // 0 - без ограничения
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections"`
	MinConnections int           `mapstructure:"min_connections" yaml:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development" yaml:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" yaml:"type"` // "postgres" или "inmemory"
}

type CalendarConfig struct {
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`
}

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("api.prefix", "/api")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("rate_limit.rpm", 100)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)
	v.SetDefault("calendar.week_start", "sunday")
}

// Load читает config.yml (если есть) из переданных каталогов, поверх - переменные CALENDAR_*
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url обязателен для repository.type=postgres")
		}
	default:
		return fmt.Errorf("неизвестный repository.type %q", c.Repository.Type)
	}

	if _, err := c.WeekStart(); err != nil {
		return err
	}
	if c.API.Prefix != "" && !strings.HasPrefix(c.API.Prefix, "/") {
		return fmt.Errorf("api.prefix должен начинаться с '/': %q", c.API.Prefix)
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (c *Config) WeekStart() (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(c.Calendar.WeekStart))]
	if !ok {
		return time.Sunday, fmt.Errorf("неизвестный calendar.week_start %q", c.Calendar.WeekStart)
	}
	return day, nil
}

// YAML действующая конфигурация в формате config.yml
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("сериализация конфигурации: %w", err)
	}
	return out, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
