/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied at load time.
// The database password is never written here; it lives in the OS keychain.
type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	General       GeneralConfig  `yaml:"general"`
	Database      DatabaseConfig `yaml:"database"`
	UI            UIConfig       `yaml:"ui"`
	Logging       LoggingConfig  `yaml:"logging"`
}

type GeneralConfig struct {
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
}

// DatabaseConfig selects the backing store.
// Driver "sqlite" uses Path; driver "postgres" uses DSN plus User and the keychain password.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	User   string `yaml:"user"`
}

type UIConfig struct {
	// RemoveRefresh is "always" or "success"; see gui.RefreshPolicy.
	RemoveRefresh string `yaml:"remove_refresh"`
	WindowWidth   int    `yaml:"window_width"`
	WindowHeight  int    `yaml:"window_height"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Defaults returns the application defaults. The sqlite path is resolved lazily by DatabasePath.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Database:      DatabaseConfig{Driver: DriverSQLite},
		UI:            UIConfig{RemoveRefresh: "always", WindowWidth: 900, WindowHeight: 600},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvDBDriver       = "GSD_DB_DRIVER"
	EnvDBPath         = "GSD_DB_PATH"
	EnvDBDSN          = "GSD_DB_DSN"
	EnvDBUser         = "GSD_DB_USER"
	EnvDBPassword     = "GSD_DB_PASSWORD"
	EnvRemoveRefresh  = "GSD_REMOVE_REFRESH"
	EnvTelemetryOptIn = "GSD_TELEMETRY_OPT_IN"
	EnvLogLevel       = "GSD_LOG_LEVEL"
	EnvLogFormat      = "GSD_LOG_FORMAT"
	EnvLogSource      = "GSD_LOG_SOURCE"
	EnvLogFile        = "GSD_LOG_FILE"
	// EnvConfigDir relocates the whole per-user directory (config, default database, crash reports).
	EnvConfigDir = "GSD_CONFIG_DIR"
)

// Dir returns the per-user application directory.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoSalesDesk")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoSalesDesk")
	default:
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory: HOME is not set")
		}
		base = filepath.Join(home, ".config", "gosalesdesk")
	}
	return base, nil
}

// Path returns the per-user config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DatabasePath returns the sqlite file, defaulting to <Dir>/salesdesk.db.
func (c AppConfig) DatabasePath() (string, error) {
	if p := strings.TrimSpace(c.Database.Path); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "salesdesk.db"), nil
}

// Load reads the user config (if present), applies defaults and environment overrides,
// and returns the database password from the environment or the OS keychain.
// A malformed file is reported but defaults are still returned.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, "", err
	}
	var fileErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			fileErr = err
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)

	secret := os.Getenv(EnvDBPassword)
	if secret == "" && cfg.Database.Driver == DriverPostgres {
		secret, _ = secrets.Get(keyringService, keyringDBPassword)
	}
	return cfg, secret, fileErr
}

// Save writes the config YAML and stores a non-empty password in the OS keychain.
func Save(cfg AppConfig, password string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if password != "" {
		return secrets.Set(keyringService, keyringDBPassword, password)
	}
	return nil
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if s := strings.TrimSpace(src.General.Theme); s != "" {
		dst.General.Theme = s
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn

	if s := strings.ToLower(strings.TrimSpace(src.Database.Driver)); s != "" {
		dst.Database.Driver = s
	}
	if s := strings.TrimSpace(src.Database.Path); s != "" {
		dst.Database.Path = s
	}
	if s := strings.TrimSpace(src.Database.DSN); s != "" {
		dst.Database.DSN = s
	}
	if s := strings.TrimSpace(src.Database.User); s != "" {
		dst.Database.User = s
	}

	if s := strings.ToLower(strings.TrimSpace(src.UI.RemoveRefresh)); s != "" {
		dst.UI.RemoveRefresh = s
	}
	if src.UI.WindowWidth > 0 {
		dst.UI.WindowWidth = src.UI.WindowWidth
	}
	if src.UI.WindowHeight > 0 {
		dst.UI.WindowHeight = src.UI.WindowHeight
	}

	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	set := func(key string, apply func(v string)) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			apply(v)
		}
	}
	set(EnvDBDriver, func(v string) { cfg.Database.Driver = strings.ToLower(v) })
	set(EnvDBPath, func(v string) { cfg.Database.Path = v })
	set(EnvDBDSN, func(v string) { cfg.Database.DSN = v })
	set(EnvDBUser, func(v string) { cfg.Database.User = v })
	set(EnvRemoveRefresh, func(v string) { cfg.UI.RemoveRefresh = strings.ToLower(v) })
	set(EnvTelemetryOptIn, func(v string) { cfg.General.TelemetryOptIn = truthy(v) })
	set(EnvLogLevel, func(v string) { cfg.Logging.Level = strings.ToLower(v) })
	set(EnvLogFormat, func(v string) { cfg.Logging.Format = strings.ToLower(v) })
	set(EnvLogSource, func(v string) { cfg.Logging.Source = truthy(v) })
	set(EnvLogFile, func(v string) { cfg.Logging.File = v })
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// EnvOverrideFor reports which env var, if any, overrides the dotted config key.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"database.driver":          EnvDBDriver,
		"database.path":            EnvDBPath,
		"database.dsn":             EnvDBDSN,
		"database.user":            EnvDBUser,
		"ui.remove_refresh":        EnvRemoveRefresh,
		"general.telemetry_opt_in": EnvTelemetryOptIn,
		"logging.level":            EnvLogLevel,
		"logging.format":           EnvLogFormat,
		"logging.source":           EnvLogSource,
		"logging.file":             EnvLogFile,
	}
	env, ok := names[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
