package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=sqlite3 sqlite postgres postgresql"`
	DSN      string `mapstructure:"dsn" validate:"required"`
	Authors  int    `mapstructure:"authors" validate:"gte=0"`
	Books    int    `mapstructure:"books" validate:"gte=0"`
	Seed     uint64 `mapstructure:"seed"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	Progress bool   `mapstructure:"progress"`
}

var defaults = map[string]any{
	"driver":    "sqlite3",
	"dsn":       "library.db",
	"authors":   500,
	"books":     1000,
	"seed":      0,
	"log_level": "warn",
	"progress":  false,
}

// GetConfig reads the configuration. Every key has a default; an optional
// bookshelf.toml in the working directory and BOOKSHELF_* environment
// variables override it.
func GetConfig() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, dirs ...string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("bookshelf")
	v.SetConfigType("toml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("BOOKSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &config, nil
}
