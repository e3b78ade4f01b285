package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/obentoo/pluginutils/internal/common/config"
	"github.com/obentoo/pluginutils/internal/common/version"
	"github.com/obentoo/pluginutils/internal/pluginutils"
)

const envPrefix = "PLUGINUTILS"

// Setting keys, also the names of the persistent flags bound to them
const (
	KeyDataDir          = "data-dir"
	KeyServerLanguage   = "language"
	KeyFallbackLanguage = "fallback-language"
	KeyUpdateURL        = "update-url"
	KeyUserAgent        = "user-agent"
	KeyWorkers          = "workers"
)

// newSettings layers defaults < PLUGINUTILS_* environment < flags
func newSettings(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyServerLanguage, pluginutils.DefaultLanguage)
	v.SetDefault(KeyFallbackLanguage, pluginutils.DefaultLanguage)
	v.SetDefault(KeyWorkers, 2)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{KeyDataDir, KeyServerLanguage, KeyFallbackLanguage, KeyUpdateURL, KeyUserAgent, KeyWorkers} {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
	}

	if v.GetString(KeyDataDir) == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("determine data directory: %w", err)
		}
		v.SetDefault(KeyDataDir, dir)
	}
	return v, nil
}

// userAgent is the build user agent unless the user-agent setting overrides it
type userAgent struct {
	override string
}

func (a userAgent) UserAgent() string {
	if a.override != "" {
		return a.override
	}
	return version.UserAgent()
}
