package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pthm/gosmell/internal/profile"
)

// configName is the config file name without extension
const configName = ".gosmell"

// configType is the config file format
const configType = "yaml"

// envPrefix is the environment variable prefix for gosmell settings
const envPrefix = "GOSMELL"

// envKeySeparator is the nested key separator in environment variable names
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("profile", profile.DefaultName)

	v.SetDefault("thresholds.max_method_length", 0)
	v.SetDefault("thresholds.max_conditionals", 0)
	v.SetDefault("thresholds.max_params", 0)

	v.SetDefault("rules.disabled", []string{})

	v.SetDefault("analysis.workers", 0)
	v.SetDefault("analysis.timeout", DefaultTimeout)
	v.SetDefault("analysis.exclude", []string{})
	v.SetDefault("analysis.max_file_size", DefaultMaxFileSize)

	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.show_code", false)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
