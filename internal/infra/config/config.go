// Package config loads the toolhub runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"toolhub/internal/domain"
)

// Config is the resolved runtime configuration.
type Config struct {
	ContentRoot      string `mapstructure:"contentRoot"`
	DataPath         string `mapstructure:"dataPath"`
	ThinkingMillis   int    `mapstructure:"thinkingMillis"`
	GeneratingMillis int    `mapstructure:"generatingMillis"`
	AdjustMillis     int    `mapstructure:"adjustMillis"`
	RelatedLimit     int    `mapstructure:"relatedLimit"`
}

type Options struct {
	AllowCreate bool
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("config")}
}

func setDefaults(v *viper.Viper, baseDir string) {
	v.SetDefault("contentRoot", filepath.Join(baseDir, "content"))
	v.SetDefault("dataPath", filepath.Join(baseDir, "toolhub.db"))
	v.SetDefault("thinkingMillis", domain.DefaultThinkingMillis)
	v.SetDefault("generatingMillis", domain.DefaultGeneratingMillis)
	v.SetDefault("adjustMillis", domain.DefaultAdjustMillis)
	v.SetDefault("relatedLimit", domain.DefaultRelatedLimit)
}

// Load reads the config file, creating a default one first when it is
// absent and opts.AllowCreate is set.
func (l *Loader) Load(path string, opts Options) (Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Config{}, fmt.Errorf("config path is required")
	}

	if _, err := os.Stat(trimmed); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
		if !opts.AllowCreate {
			return Config{}, fmt.Errorf("config not found: %s", trimmed)
		}
		if err := writeDefaultConfig(trimmed); err != nil {
			return Config{}, err
		}
		l.logger.Info("default config created", zap.String("path", trimmed))
	}

	v := viper.New()
	v.SetConfigFile(trimmed)
	v.SetConfigType("yaml")
	setDefaults(v, filepath.Dir(trimmed))
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.ContentRoot) == "" {
		return fmt.Errorf("contentRoot is required")
	}
	if strings.TrimSpace(cfg.DataPath) == "" {
		return fmt.Errorf("dataPath is required")
	}
	if cfg.ThinkingMillis <= 0 || cfg.GeneratingMillis <= 0 || cfg.AdjustMillis <= 0 {
		return fmt.Errorf("phase delays must be positive")
	}
	if cfg.RelatedLimit < 0 {
		return fmt.Errorf("relatedLimit must be non-negative")
	}
	return nil
}

func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	baseDir := filepath.Dir(path)
	defaults := map[string]any{
		"contentRoot":      filepath.Join(baseDir, "content"),
		"dataPath":         filepath.Join(baseDir, "toolhub.db"),
		"thinkingMillis":   domain.DefaultThinkingMillis,
		"generatingMillis": domain.DefaultGeneratingMillis,
		"adjustMillis":     domain.DefaultAdjustMillis,
		"relatedLimit":     domain.DefaultRelatedLimit,
	}
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
