package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/voltlabs/cebridge/internal/ceapi"
	"github.com/voltlabs/cebridge/internal/config"
	"github.com/voltlabs/cebridge/internal/creds"
)

// apiClient builds a Combined Energy client from the stored profile, falling
// back to the `account` config key. The password comes from the OS keyring,
// or CEBRIDGE_PASSWORD for non-interactive use.
func apiClient() (*ceapi.Client, error) {
	profile, ok, err := creds.GetProfile()
	if err != nil {
		return nil, err
	}
	if !ok {
		if account := viper.GetString(config.KeyAccount); account != "" {
			profile = creds.Profile{Account: account}
			ok = true
		}
	}
	if !ok {
		return nil, fmt.Errorf("no account configured: run 'cebridge login' first")
	}
	password := os.Getenv("CEBRIDGE_PASSWORD")
	if password == "" {
		password, err = creds.Password(profile.Account)
		if err != nil {
			return nil, fmt.Errorf("read password from keyring: %w", err)
		}
	}
	return ceapi.New(profile.Account, password), nil
}
