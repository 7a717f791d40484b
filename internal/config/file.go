package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// SourceSettings describes where the family dataset is read from.
type SourceSettings struct {
	// Mode is SourceModeWeb or SourceModeLocal.
	Mode string `yaml:"mode"`
	// URL is the HTTP(S) location of the JSON dataset (web mode).
	URL string `yaml:"url,omitempty"`
	// Path is the JSON dataset file (local mode).
	Path string `yaml:"path,omitempty"`
	// Username enables HTTP Basic Auth; the password lives in the keyring.
	Username string `yaml:"username,omitempty"`
}

// ServerSettings configures the HTTP highlight server.
type ServerSettings struct {
	Port string `yaml:"port"`
	// AuthFile points to a "username:argon2id-hash" file. Empty disables auth.
	AuthFile string `yaml:"auth_file,omitempty"`
}

// Settings is the top-level YAML settings file.
type Settings struct {
	Source SourceSettings `yaml:"source"`
	Server ServerSettings `yaml:"server"`

	// Refresh is a standard 5-field cron expression for dataset reloads.
	Refresh string `yaml:"refresh"`

	// Language selects the renderer locale.
	Language string `yaml:"language"`

	// Reminder is an optional ISO8601 duration used as VALARM trigger (e.g. "-P1D").
	Reminder string `yaml:"reminder,omitempty"`
}

// Default returns settings usable without any file.
func Default() *Settings {
	return &Settings{
		Source: SourceSettings{
			Mode: SourceModeLocal,
			Path: DefaultLocalPath,
		},
		Server: ServerSettings{
			Port: DefaultPort,
		},
		Refresh:  DefaultRefresh,
		Language: DefaultLanguage,
	}
}

// DefaultPath returns the settings file location in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// Load reads settings from path, layered over Default().
// A missing file is not an error.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug(MsgSettingsNone, LogKeyComponent, CompConfig, LogKeyFile, path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	s.Normalize()

	slog.Debug(MsgSettingsLoaded, LogKeyComponent, CompConfig, LogKeyFile, path)
	return s, nil
}

// Normalize fills zero values left by partial files.
func (s *Settings) Normalize() {
	if s.Source.Mode == "" {
		s.Source.Mode = SourceModeLocal
	}
	if s.Server.Port == "" {
		s.Server.Port = DefaultPort
	}
	if s.Refresh == "" {
		s.Refresh = DefaultRefresh
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	switch s.Source.Mode {
	case SourceModeLocal, SourceModeWeb:
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, s.Source.Mode)
	}

	if err := ValidatePort(s.Server.Port); err != nil {
		return err
	}

	if _, err := cron.ParseStandard(s.Refresh); err != nil {
		return fmt.Errorf("%s: %w", ErrRefreshSpec, err)
	}

	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	return nil
}

// ValidatePort checks that port is a decimal number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// Save writes settings to path atomically with 0600 permissions.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, SettingsFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.Chmod(tmpName, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}
