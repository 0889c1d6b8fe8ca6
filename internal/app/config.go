package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StoreConfig struct {
	BaseURL       string        `yaml:"base_url"`
	CSRFToken     string        `yaml:"csrf_token"`
	SessionCookie string        `yaml:"session_cookie"`
	Timeout       time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	EditorToken string   `yaml:"editor_token"`
	CORSOrigins []string `yaml:"cors_origins"`

	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

func Defaults() Config {
	return Config{
		HTTPAddr: ":8080",
		Store:    StoreConfig{Timeout: 10 * time.Second},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load merges defaults, the optional YAML file, .env and the process
// environment, later sources winning.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.EditorToken, "EDITOR_TOKEN")
	setString(&cfg.Store.BaseURL, "STORE_URL")
	setString(&cfg.Store.CSRFToken, "STORE_CSRF_TOKEN")
	setString(&cfg.Store.SessionCookie, "STORE_SESSION")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STORE_TIMEOUT: %w", err)
		}
		cfg.Store.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Store.BaseURL) == "" {
		return errors.New("STORE_URL is required")
	}
	if c.Store.Timeout < 0 {
		return errors.New("store timeout must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
