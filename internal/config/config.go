package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Develop DevelopConfig `mapstructure:"develop"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type DevelopConfig struct {
	// BlackLevel and WhiteLevel bound the sensor range mapped to [0, 1].
	// A zero WhiteLevel is taken from the frame's bit width.
	BlackLevel float32 `mapstructure:"black_level"`
	WhiteLevel float32 `mapstructure:"white_level"`

	// BlackLevelSet and WhiteLevelSet report whether the level came from the
	// config file or the environment rather than the built-in default.
	BlackLevelSet bool `mapstructure:"-"`
	WhiteLevelSet bool `mapstructure:"-"`

	AutoWhite    bool   `mapstructure:"auto_white"`
	OutputFormat string `mapstructure:"output_format"`
	MaxSize      int    `mapstructure:"max_size"`
	Workers      int    `mapstructure:"workers"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// OutputFormats lists the preview encodings the develop command can write.
var OutputFormats = []string{"png", "tiff", "bmp", "jpg"}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Develop: DevelopConfig{
			BlackLevel:   64,
			WhiteLevel:   1023,
			AutoWhite:    false,
			OutputFormat: "png",
			MaxSize:      0,
			Workers:      0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "",
			Console: true,
		},
	}
}

// Load loads configuration from file, environment, and defaults. An empty
// cfgFile searches $HOME/.rawcv and the working directory for config.yaml.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".rawcv"))
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RAWCV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Develop.BlackLevelSet = explicit(v, "develop.black_level")
	cfg.Develop.WhiteLevelSet = explicit(v, "develop.white_level")
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	d := c.Develop
	if d.BlackLevel < 0 || d.WhiteLevel < 0 {
		return errors.New("develop.black_level and develop.white_level must not be negative")
	}
	if d.WhiteLevel != 0 && d.WhiteLevel <= d.BlackLevel {
		return fmt.Errorf("develop.white_level (%g) must exceed develop.black_level (%g)", d.WhiteLevel, d.BlackLevel)
	}
	if !slices.Contains(OutputFormats, d.OutputFormat) {
		return fmt.Errorf("develop.output_format must be one of: %v", OutputFormats)
	}
	if d.MaxSize < 0 {
		return errors.New("develop.max_size must not be negative")
	}
	if d.Workers < 0 {
		return errors.New("develop.workers must not be negative")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}
	return nil
}

// explicit reports whether key was given by the config file or environment.
// viper.IsSet also counts defaults, so it cannot tell them apart.
func explicit(v *viper.Viper, key string) bool {
	if v.InConfig(key) {
		return true
	}
	_, ok := os.LookupEnv("RAWCV_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	return ok
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("develop.black_level", cfg.Develop.BlackLevel)
	v.SetDefault("develop.white_level", cfg.Develop.WhiteLevel)
	v.SetDefault("develop.auto_white", cfg.Develop.AutoWhite)
	v.SetDefault("develop.output_format", cfg.Develop.OutputFormat)
	v.SetDefault("develop.max_size", cfg.Develop.MaxSize)
	v.SetDefault("develop.workers", cfg.Develop.Workers)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
