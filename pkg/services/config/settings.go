// Package config loads run settings and resolves AWS identities.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "AWSCALC"

// Settings holds the process-wide options of one run.
type Settings struct {
	Input           string        `mapstructure:"input"`
	Output          string        `mapstructure:"output"`
	Region          string        `mapstructure:"region"`
	Profile         string        `mapstructure:"profile"`
	OperatingSystem string        `mapstructure:"operating-system"`
	Tenancy         string        `mapstructure:"tenancy"`
	Workers         int           `mapstructure:"workers"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Memoize         bool          `mapstructure:"memoize"`
	LogLevel        string        `mapstructure:"log-level"`
}

func DefaultSettings() Settings {
	return Settings{
		Region:          "me-south-1",
		Profile:         "lab",
		OperatingSystem: "Linux",
		Tenancy:         "Shared",
		Workers:         1,
		Timeout:         30 * time.Second,
		Memoize:         true,
		LogLevel:        "info",
	}
}

// NewViper returns a viper instance seeded with defaults and environment lookup
// (AWSCALC_REGION, AWSCALC_OPERATING_SYSTEM, ...).
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultSettings()
	v.SetDefault("region", d.Region)
	v.SetDefault("profile", d.Profile)
	v.SetDefault("operating-system", d.OperatingSystem)
	v.SetDefault("tenancy", d.Tenancy)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("memoize", d.Memoize)
	v.SetDefault("log-level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads an optional config file into v and decodes the merged result.
func LoadSettings(v *viper.Viper, configPath string) (*Settings, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s Settings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	return nil
}
