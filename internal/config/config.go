package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/coder-alair/shoorah-insights/internal/narrative"
)

// Config is the top-level shoorah-insights configuration.
type Config struct {
	StorePath string           `mapstructure:"store_path"`
	Precision int              `mapstructure:"precision"`
	Narrative narrative.Assets `mapstructure:"narrative"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("store_path", DBPath())
	v.SetDefault("precision", DefaultPrecision)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.StorePath = expandPath(cfg.StorePath)
	applyNarrativeDefaults(&cfg.Narrative)

	return &cfg, nil
}

// applyNarrativeDefaults fills in any asset the config file left empty, so a
// partial override (say, just the icons) keeps the shipped message corpora.
func applyNarrativeDefaults(a *narrative.Assets) {
	d := DefaultNarrative

	if a.HappyIcon == "" {
		a.HappyIcon = d.HappyIcon
	}
	if a.SadIcon == "" {
		a.SadIcon = d.SadIcon
	}
	if a.NeutralIcon == "" {
		a.NeutralIcon = d.NeutralIcon
	}
	if len(a.Positive.LessThan30) == 0 {
		a.Positive.LessThan30 = d.Positive.LessThan30
	}
	if len(a.Positive.ThirtyToSixty) == 0 {
		a.Positive.ThirtyToSixty = d.Positive.ThirtyToSixty
	}
	if len(a.Positive.SixtyTo100) == 0 {
		a.Positive.SixtyTo100 = d.Positive.SixtyTo100
	}
	if len(a.Negative.LessThan30) == 0 {
		a.Negative.LessThan30 = d.Negative.LessThan30
	}
	if len(a.Negative.ThirtyToSeventy) == 0 {
		a.Negative.ThirtyToSeventy = d.Negative.ThirtyToSeventy
	}
	if len(a.Negative.SeventyTo90) == 0 {
		a.Negative.SeventyTo90 = d.Negative.SeventyTo90
	}
	if len(a.Negative.MoreThan90) == 0 {
		a.Negative.MoreThan90 = d.Negative.MoreThan90
	}
	if len(a.Neutral) == 0 {
		a.Neutral = d.Neutral
	}
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
