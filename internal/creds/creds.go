// Package creds persists account credentials: the password lives in the OS
// keyring, the account name and installation id in a profile file in the
// data directory.
package creds

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"

	"github.com/voltlabs/cebridge/internal/config"
)

const keyringService = "cebridge"

// Profile holds the persisted account metadata.
type Profile struct {
	Account        string `json:"account"`
	InstallationID int64  `json:"installation_id,omitempty"`
}

func profilePath() (string, error) {
	d, err := config.EnsureDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "account.json"), nil
}

// SetProfile saves the account profile to disk.
func SetProfile(p Profile) error {
	pfile, err := profilePath()
	if err != nil {
		return err
	}
	f, err := os.Create(pfile)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// GetProfile reads the account profile. Returns (Profile, true, nil) if found.
func GetProfile() (Profile, bool, error) {
	pfile, err := profilePath()
	if err != nil {
		return Profile{}, false, err
	}
	b, err := os.ReadFile(pfile)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

// ClearProfile removes the persisted profile.
func ClearProfile() error {
	pfile, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(pfile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// StorePassword stores the account password in the OS keyring.
func StorePassword(account, password string) error {
	return keyring.Set(keyringService, account, password)
}

// Password retrieves the account password from the OS keyring.
func Password(account string) (string, error) {
	return keyring.Get(keyringService, account)
}

// DeletePassword removes the account password from the OS keyring.
func DeletePassword(account string) error {
	err := keyring.Delete(keyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
