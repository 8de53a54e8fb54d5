// Package config holds file locations and viper wiring for cebridge.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	configFileSubDir  = "cebridge"
	configFileName    = "cebridge"
	configFileNameExt = "yaml"
	configEnvPrefix   = "CEBRIDGE"
)

// Keys stored in the config file.
const (
	KeyAccount     = "account"
	KeyReleaseFile = "release_file"
)

// Init reads in the config file and matching environment variables. When
// configFile is empty the default location under the XDG config home is used
// and created on first run.
func Init(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, configFileSubDir))
		viper.SetConfigType(configFileNameExt)
		viper.SetConfigName(configFileName)
		_ = viper.SafeWriteConfig()
	}

	viper.SetEnvPrefix(configEnvPrefix)
	viper.AutomaticEnv()

	// Missing config file is fine, env vars and flags still apply.
	_ = viper.ReadInConfig()
	return nil
}

// ConfigDir returns the directory holding the cebridge config file.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, configFileSubDir)
}
