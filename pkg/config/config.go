package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/ragsql/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// CurrentV is the only config.toml layout so far.
	CurrentV = 0
)

// orderedKeys lists every config key in TOML section order.
var orderedKeys = []string{
	"storage.provider",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"datastore.driver",
	"datastore.dsn",
	"datastore.schema_path",
	"datastore.timeout",
	"vector_store.provider",
	"vector_store.target",
	"vector_store.m",
	"vector_store.ef_construction",
	"vector_store.ef_search",
	"embedding.provider",
	"embedding.target",
	"embedding.model",
	"embedding.dimensions",
	"embedding.timeout",
	"llm.provider",
	"llm.target",
	"llm.model",
	"llm.timeout",
	"sandbox.python",
	"sandbox.work_dir",
	"sandbox.timeout",
	"pipeline.threshold",
	"pipeline.top_k",
	"api.listen",
	"eventstream.provider",
	"eventstream.brokers",
	"eventstream.topic",
}

// Configer reads and writes config.toml in a resolved .ragsql directory.
type Configer struct {
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	dir, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return &Configer{targetPath: path}, nil
}

// ValidConfigKeys returns every settable key in config.toml section order.
func ValidConfigKeys() []string {
	return slices.Clone(orderedKeys)
}

func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func lookupKey(key string) (configKeyInfo, error) {
	info, ok := configKeys[key]
	if !ok {
		return configKeyInfo{}, fmt.Errorf("unknown config key: %q", key)
	}
	return info, nil
}

// GetTarget is the config.toml path, whether or not the file exists yet.
func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig reads config.toml. A missing file yields NewDefaultConfig, and
// keys absent from the file take their defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	data, err := os.ReadFile(c.targetPath)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}
	fillDefaults(cfg)

	return cfg, nil
}

func fillDefaults(cfg *Config) {
	defaults := NewDefaultConfig()
	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	for _, key := range orderedKeys {
		info := configKeys[key]
		if info.get(cfg) == "" {
			if def := info.get(defaults); def != "" {
				_ = info.set(cfg, def)
			}
		}
	}
}

// SaveConfig writes cfg to config.toml with owner-only permissions.
func (c *Configer) SaveConfig(cfg *Config) error {
	switch {
	case cfg == nil:
		return errors.New("cannot save nil config")
	case c.targetPath == "":
		return errors.New("cannot save empty target path")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetConfigValue validates value through the key's setter and saves.
func (c *Configer) SetConfigValue(key, value string) error {
	info, err := lookupKey(key)
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

func (c *Configer) GetConfigValue(key string) (string, error) {
	info, err := lookupKey(key)
	if err != nil {
		return "", err
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return info.get(cfg), nil
}

const ollamaTarget = "http://localhost:11434"

// presets adjust the default config, which already targets OpenAI.
var presets = map[string]func(*Config){
	"openai": func(*Config) {},

	// No Anthropic embeddings endpoint exists, so embeddings stay on OpenAI.
	"anthropic": func(cfg *Config) {
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.Target = "https://api.anthropic.com"
		cfg.LLM.Model = "claude-sonnet-4-5"
	},

	"ollama": func(cfg *Config) {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Target = ollamaTarget
		cfg.LLM.Model = "llama3.1"
		cfg.Embedding.Provider = "ollama"
		cfg.Embedding.Target = ollamaTarget
		cfg.Embedding.Model = "nomic-embed-text"
		cfg.Embedding.Dimensions = 768
	},
}

// PresetConfig returns the default config adjusted for a provider preset.
func PresetConfig(name string) (*Config, error) {
	apply, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	cfg := NewDefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ValidPresetNames() []string {
	return []string{"openai", "anthropic", "ollama"}
}

// ParseConfigTOML decodes config.toml, rejecting versions newer than CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return &cfg, nil
}

// Duration parses a timeout value such as "90s". An empty value yields
// fallback.
func Duration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be positive", value)
	}

	return d, nil
}
