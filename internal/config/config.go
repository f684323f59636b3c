package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"hotelmgr/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Hotel      HotelConfig      `yaml:"hotel"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Exports    ExportConfig     `yaml:"exports"`
	Broker     BrokerConfig     `yaml:"broker"`
	Console    ConsoleConfig    `yaml:"console"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HotelConfig struct {
	Rooms []models.RoomSeed `yaml:"rooms"`
}

type ConsoleConfig struct {
	SessionTTL int `yaml:"session_ttl"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type BrokerConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Queue   string `yaml:"queue"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML config after expanding ${VAR} references.
func Parse(data []byte) (*Config, error) {
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.API.Enabled && c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api auth is enabled but no api keys are configured")
	}

	if c.Broker.Enabled && c.Broker.URL == "" {
		return errors.New("broker url is required when broker is enabled")
	}

	return ValidateRooms(c.Hotel.Rooms)
}

func ValidateRooms(rooms []models.RoomSeed) error {
	numbers := make(map[int]bool)
	for _, room := range rooms {
		if room.Number <= 0 {
			return fmt.Errorf("room '%s' has invalid number %d", room.Type, room.Number)
		}
		if strings.TrimSpace(room.Type) == "" {
			return fmt.Errorf("room %d has empty type", room.Number)
		}
		if room.Price < 0 {
			return fmt.Errorf("room %d has negative price", room.Number)
		}
		if numbers[room.Number] {
			return fmt.Errorf("duplicate room number found: %d", room.Number)
		}
		numbers[room.Number] = true
	}
	return nil
}

// Default returns a config with defaults applied and the reference room seed.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "hotel"
	}
	if len(c.Hotel.Rooms) == 0 {
		c.Hotel.Rooms = models.DefaultRooms()
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = models.DefaultHTTPPort
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = models.DefaultPrometheusPort
	}
	// stdout belongs to the console dialog
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Broker.Queue == "" {
		c.Broker.Queue = models.DefaultBrokerQueue
	}
	if c.Console.SessionTTL == 0 {
		c.Console.SessionTTL = models.DefaultSessionTTL
	}
}
