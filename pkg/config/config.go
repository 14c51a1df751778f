// Package config loads sicmerge settings from defaults, an optional config
// file, SICMERGE_* environment variables and command line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "SICMERGE"

// Config holds every setting of a run
type Config struct {
	MASICDir              string        `mapstructure:"masic_dir"`
	OutputDir             string        `mapstructure:"output_dir"`
	ScanColumn            int           `mapstructure:"scan_column"`
	SeparateCollisionMode bool          `mapstructure:"separate_collision_mode"`
	DartID                bool          `mapstructure:"dartid"`
	DartIDSort            bool          `mapstructure:"dartid_sort"`
	Mage                  bool          `mapstructure:"mage"`
	Append                bool          `mapstructure:"append"`
	DeleteDelay           time.Duration `mapstructure:"delete_delay"`
	Quiet                 bool          `mapstructure:"quiet"`
	Debug                 bool          `mapstructure:"debug"`
	Log                   LogConfig     `mapstructure:"log"`
}

// LogConfig configures logging
type LogConfig struct {
	Level      string `mapstructure:"level"`       // trace, debug, info, warn, error
	JSON       bool   `mapstructure:"json"`        // JSON lines instead of console output
	Mode       string `mapstructure:"mode"`        // console, file, both
	FilePath   string `mapstructure:"file_path"`   // used when mode is file or both
	MaxSize    int    `mapstructure:"max_size"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `mapstructure:"max_age"`     // days
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("masic_dir", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("scan_column", 2)
	v.SetDefault("separate_collision_mode", false)
	v.SetDefault("dartid", false)
	v.SetDefault("dartid_sort", false)
	v.SetDefault("mage", false)
	v.SetDefault("append", false)
	v.SetDefault("delete_delay", 250*time.Millisecond)
	v.SetDefault("quiet", false)
	v.SetDefault("debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.file_path", "sicmerge.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
}

// findConfigFile looks for sicmerge.{yaml,yml,json,toml} in the working
// directory, then in $HOME/.config/sicmerge
func findConfigFile() string {
	searchPaths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "sicmerge"))
	}

	for _, dir := range searchPaths {
		for _, ext := range []string{"yaml", "yml", "json", "toml"} {
			path := filepath.Join(dir, "sicmerge."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load reads the configuration into v and decodes it. An explicit configPath
// must exist; without one, a config file is optional.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.ScanColumn < 1 {
		cfg.ScanColumn = 2
	}
	if cfg.DeleteDelay < 0 {
		cfg.DeleteDelay = 0
	}

	return &cfg, nil
}
