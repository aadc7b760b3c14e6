// Package config loads runtime settings for the encounter runner.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	fileName  = "arrowtrap"
	envPrefix = "ARROWTRAP"
)

// Settings is the resolved runner configuration.
type Settings struct {
	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"`
	TickRate  int    `mapstructure:"tickRate"`
	MaxTicks  int    `mapstructure:"maxTicks"`
	Level     string `mapstructure:"level"`
	PrefabDir string `mapstructure:"prefabDir"`
	HotReload bool   `mapstructure:"hotReload"`
	Metrics   bool   `mapstructure:"metrics"`
}

// ErrInvalidSettings is returned for out-of-range values.
var ErrInvalidSettings = errors.New("config: invalid settings")

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")
	v.SetDefault("tickRate", 60)
	v.SetDefault("maxTicks", 900)
	v.SetDefault("level", "corridor")
	v.SetDefault("prefabDir", "prefabs")
	v.SetDefault("hotReload", false)
	v.SetDefault("metrics", true)
}

// Load reads arrowtrap.yaml from configDir when present, applies ARROWTRAP_*
// environment overrides and validates the result. A missing file is not an
// error.
func Load(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("%w: tickRate must be > 0, got %d", ErrInvalidSettings, s.TickRate)
	}
	if s.MaxTicks < 0 {
		return fmt.Errorf("%w: maxTicks must be >= 0, got %d", ErrInvalidSettings, s.MaxTicks)
	}
	if strings.TrimSpace(s.Level) == "" {
		return fmt.Errorf("%w: level is required", ErrInvalidSettings)
	}
	return nil
}

// Step returns the fixed simulation step in seconds.
func (s Settings) Step() float64 {
	if s.TickRate <= 0 {
		return 0
	}
	return 1.0 / float64(s.TickRate)
}
