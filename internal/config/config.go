// ABOUTME: Application configuration loaded through viper
// ABOUTME: Defaults, yaml file and VOXNOTE_* environment overrides
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Audio   AudioConfig   `mapstructure:"audio" yaml:"audio"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type AudioConfig struct {
	SampleRate int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Device     string `mapstructure:"device" yaml:"device"` // "" selects the default input
}

type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	QuotaBytes int64  `mapstructure:"quota_bytes" yaml:"quota_bytes"` // 0 means unlimited
}

type UIConfig struct {
	// CompactWidth is the terminal width below which the compact
	// presentation (with the sticky mini player) is used
	CompactWidth int `mapstructure:"compact_width" yaml:"compact_width"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Load reads configuration from the given file, or the default
// location when configFile is empty. A missing file is not an error;
// defaults and environment variables still apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.device", "")
	v.SetDefault("storage.data_dir", defaultDataDir())
	v.SetDefault("storage.quota_bytes", int64(0))
	v.SetDefault("ui.compact_width", 60)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("VOXNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must not be negative, got %d", c.Storage.QuotaBytes)
	}
	if c.UI.CompactWidth < 0 {
		return fmt.Errorf("ui.compact_width must not be negative, got %d", c.UI.CompactWidth)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}
	return nil
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "voxnote")
	}
	return "."
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".voxnote", "recordings")
	}
	return filepath.Join(".", "recordings")
}
