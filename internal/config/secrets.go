package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

// SourcePassword returns the HTTP password for the dataset source.
// The environment variable wins over the OS keyring; an empty user yields "".
func SourcePassword(user string) string {
	if p := os.Getenv(EnvSourcePassword); p != "" {
		return p
	}
	if user == "" {
		return ""
	}

	p, err := keyring.Get(KeyringService, user)
	if err != nil {
		slog.Debug(MsgPassFail,
			LogKeyUser, user,
			LogKeyError, err,
			LogKeyComponent, CompConfig)
		return ""
	}
	return p
}

// StoreSourcePassword saves the dataset password for user in the OS keyring.
func StoreSourcePassword(user, password string) error {
	if user == "" {
		return errors.New(ErrUsernameEmpty)
	}
	if password == "" {
		return errors.New(ErrPasswordEmpty)
	}
	if err := keyring.Set(KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", ErrKeyringSet, err)
	}
	return nil
}
