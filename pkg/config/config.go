package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/kerbaras/threadgrab/pkg/sources"
	"github.com/kerbaras/threadgrab/pkg/utils"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings of a run.
type Config struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Workers     int           `mapstructure:"workers"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Selector    string        `mapstructure:"selector"`
	SkipInvalid bool          `mapstructure:"skip_invalid"`
	Progress    bool          `mapstructure:"progress"`
	LogLevel    string        `mapstructure:"log_level"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"user-agent":   "user_agent",
	"workers":      "workers",
	"timeout":      "timeout",
	"selector":     "selector",
	"skip-invalid": "skip_invalid",
	"progress":     "progress",
	"log-level":    "log_level",
}

// Load resolves the configuration. Precedence, highest first: flags that
// were set, THREADGRAB_* environment variables, the config file, defaults.
// An empty configFile searches for threadgrab.{yaml,toml,json} in the
// working directory and $HOME/.config/threadgrab; not finding one is fine.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("user_agent", utils.DefaultUserAgent)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("timeout", 0)
	v.SetDefault("selector", sources.DefaultSelector)
	v.SetDefault("skip_invalid", false)
	v.SetDefault("progress", false)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("THREADGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("threadgrab")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/threadgrab")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &cfg, nil
}
