package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/matthewdavidson09/offboardctl/internal/offboard"
	"github.com/matthewdavidson09/offboardctl/internal/photo"
)

// Settings is the policy configuration, read from .offboardctl.yaml when one
// is present and defaulted otherwise. Connection material stays in .env.
type Settings struct {
	ArchiveRDN     string   `mapstructure:"archive_rdn"`
	MarkerRDN      string   `mapstructure:"marker_rdn"`
	ExcludedGroups []string `mapstructure:"excluded_groups"`
	PhotoCanvas    int      `mapstructure:"photo_canvas"`
	PhotoQuality   int      `mapstructure:"photo_quality"`
}

func LoadSettings(cfgFile string) (Settings, error) {
	v := viper.New()

	defaults := offboard.DefaultConfig()
	photoDefaults := photo.DefaultOptions()
	v.SetDefault("archive_rdn", defaults.ArchiveRDN)
	v.SetDefault("marker_rdn", defaults.MarkerRDN)
	v.SetDefault("excluded_groups", defaults.ExcludedGroups)
	v.SetDefault("photo_canvas", photoDefaults.CanvasSize)
	v.SetDefault("photo_quality", photoDefaults.JPEGQuality)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".offboardctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Settings{}, fmt.Errorf("loading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parsing config: %w", err)
	}
	return s, nil
}

func (s Settings) offboardConfig() offboard.Config {
	return offboard.Config{
		ArchiveRDN:     s.ArchiveRDN,
		MarkerRDN:      s.MarkerRDN,
		ExcludedGroups: s.ExcludedGroups,
	}
}

func (s Settings) photoOptions() photo.Options {
	return photo.Options{
		CanvasSize:  s.PhotoCanvas,
		JPEGQuality: s.PhotoQuality,
	}
}
