package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/ragsql/pkg/dotdir"
)

const envPrefix = "RAGSQL"

// InitViper returns a viper instance layered, lowest first, as defaults,
// config.toml in the resolved .ragsql directory, then RAGSQL_* environment
// variables (RAGSQL_RAG_THRESHOLD for rag.threshold). BindRegisteredFlags
// adds command flags on top.
func InitViper(configDir string) (*viper.Viper, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v := viper.New()
	setViperDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper decodes every known key through its setter, so values from any
// layer get the same validation as `ragsql config set`.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, key := range orderedKeys {
		raw := v.GetString(key)
		if raw == "" {
			continue
		}
		if err := configKeys[key].set(cfg, raw); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func setViperDefaults(v *viper.Viper) {
	defaults := NewDefaultConfig()
	v.SetDefault("version", defaults.Version)
	for _, key := range orderedKeys {
		v.SetDefault(key, configKeys[key].get(defaults))
	}
}
