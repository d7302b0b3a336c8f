package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// cliConfig holds the tunables read from a config file, environment
// variables, and defaults, in that precedence order under the flags.
type cliConfig struct {
	MaxFiles  int    `mapstructure:"max_files"`
	MaxDepth  int    `mapstructure:"max_depth"`
	CacheSize int    `mapstructure:"cache_size"`
	DB        string `mapstructure:"db"`
}

var defaultConfig = cliConfig{
	MaxFiles:  5000,
	MaxDepth:  10,
	CacheSize: 128,
}

// loadConfig merges sdkscout.yaml (or .json/.toml) from the target
// repository and the working directory with SDKSCOUT_* environment
// variables. A missing config file is fine; a malformed one is reported and
// ignored.
func loadConfig(root string) cliConfig {
	v := viper.New()
	v.SetDefault("max_files", defaultConfig.MaxFiles)
	v.SetDefault("max_depth", defaultConfig.MaxDepth)
	v.SetDefault("cache_size", defaultConfig.CacheSize)
	v.SetDefault("db", defaultConfig.DB)

	v.SetEnvPrefix("SDKSCOUT")
	v.AutomaticEnv()

	v.SetConfigName("sdkscout")
	v.AddConfigPath(root)
	if cwd, err := os.Getwd(); err == nil {
		v.AddConfigPath(cwd)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: config file ignored: %s\n", err)
		}
	}

	cfg := defaultConfig
	if err := v.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config ignored: %s\n", err)
		return defaultConfig
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = defaultConfig.MaxFiles
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaultConfig.MaxDepth
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultConfig.CacheSize
	}
	return cfg
}
