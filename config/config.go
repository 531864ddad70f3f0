// Package config loads the application configuration from an optional YAML
// file with POTIOND_* environment variable overrides.
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Listen   string `yaml:"listen" json:"listen"`
	Location string `yaml:"location" json:"location"`
}

type WebConfig struct {
	// Secret signs session tokens; its value directly determines token
	// forgeability and must be treated as a trust boundary.
	Secret       string   `yaml:"secret" json:"-"`
	CookieName   string   `yaml:"cookie_name" json:"cookie_name"`
	AllowOrigins []string `yaml:"allow_origins" json:"allow_origins"`
	BcryptCost   int      `yaml:"bcrypt_cost" json:"bcrypt_cost"`
}

type DBConfig struct {
	URL  string `yaml:"url" json:"url"`
	Name string `yaml:"name" json:"name"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

// DefaultConfig returns the built-in defaults used when no file or
// environment override is present.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Listen:   ":8040",
			Location: "Local",
		},
		Web: WebConfig{
			Secret:     "change-me-in-production",
			CookieName: "potiond_session",
			BcryptCost: 12,
		},
		Database: DBConfig{
			URL:  "mongodb://127.0.0.1:27017",
			Name: "potiond",
		},
		Logger: LogConfig{
			Mode:     "development",
			Filename: "/var/log/potiond.log",
		},
	}
}

// LoadConfig reads path when it exists, then applies environment overrides.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config file")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	envString("POTIOND_SYSTEM_LISTEN", &cfg.System.Listen)
	envString("POTIOND_SYSTEM_LOCATION", &cfg.System.Location)
	envString("POTIOND_WEB_SECRET", &cfg.Web.Secret)
	envString("POTIOND_WEB_COOKIE_NAME", &cfg.Web.CookieName)
	envInt("POTIOND_WEB_BCRYPT_COST", &cfg.Web.BcryptCost)
	envString("POTIOND_DATABASE_URL", &cfg.Database.URL)
	envString("POTIOND_DATABASE_NAME", &cfg.Database.Name)
	envString("POTIOND_LOGGER_MODE", &cfg.Logger.Mode)
	envBool("POTIOND_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	envString("POTIOND_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg, nil
}

func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			*target = n
		}
	}
}

func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*target = b
		}
	}
}
