package cli

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the CLI's configuration: where to reach the shared store,
// and a default weight cap that is loaded but read by no subcommand.
type Config struct {
	RedisAddr        string  `mapstructure:"redis_addr"`
	DefaultMaxWeight float64 `mapstructure:"default_max_weight"`
}

// loadConfig reads configuration from a file (if given) and
// STOWAGE_-prefixed environment variables, falling back to defaults.
func loadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("redis_addr", "")
	v.SetDefault("default_max_weight", 20.0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("stowage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("STOWAGE")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
