package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"spinframes/internal/dirs"
	"spinframes/internal/model"
)

// Keys for values that are given positionally on the command line and so
// have no flag of their own.
const (
	KeyVideo   = "video"
	KeyOutDir  = "out-dir"
	KeyFrames  = "frames"
	KeyFormat  = "format"
	KeyQuality = "quality"
)

// New returns a Viper instance layered as flags > env > config file > defaults.
// Environment variables use the SPINFRAMES_ prefix with dashes as
// underscores (SPINFRAMES_LONG_SIDE). The config file is
// <config dir>/config.{yaml|yml|json|toml}; a missing file is not an error.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyVideo, model.DefaultVideoPath)
	v.SetDefault(KeyOutDir, model.DefaultOutDir)
	v.SetDefault(KeyFrames, model.DefaultTotalFrames)
	v.SetDefault(KeyFormat, string(model.DefaultFormat))
	v.SetDefault(KeyQuality, model.DefaultQuality)

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config")

	v.SetEnvPrefix("SPINFRAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return v, nil
}
