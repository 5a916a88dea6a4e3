package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// TASKSPACE_DATABASE_PATH overrides database.path.
const EnvPrefix = "TASKSPACE"

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" keeps everything in RAM.
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// AdminConfig holds the admin panel password. When empty the password is
// looked up in the OS keyring.
type AdminConfig struct {
	Password string `mapstructure:"password" yaml:"password"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// AlertsConfig controls the background deadline watcher.
type AlertsConfig struct {
	Enabled     bool `mapstructure:"enabled" yaml:"enabled"`
	IntervalSec int  `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Admin    AdminConfig    `mapstructure:"admin" yaml:"admin"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Alerts   AlertsConfig   `mapstructure:"alerts" yaml:"alerts"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskspace/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskspace", "config.yaml")
}

// DefaultDatabasePath returns ~/.local/share/taskspace/taskspace.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskspace.db"
	}
	return filepath.Join(home, ".local", "share", "taskspace", "taskspace.db")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Server:   ServerConfig{Addr: ":5000"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Alerts:   AlertsConfig{Enabled: false, IntervalSec: 300},
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultAppConfig()
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("admin.password", "")
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("alerts.enabled", def.Alerts.Enabled)
	v.SetDefault("alerts.interval_sec", def.Alerts.IntervalSec)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults and environment overrides apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Alerts.IntervalSec <= 0 {
		cfg.Alerts.IntervalSec = 300
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed. The admin password is written
// only if set.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("server", cfg.Server)
	if cfg.Admin.Password != "" {
		v.Set("admin", cfg.Admin)
	}
	v.Set("log", cfg.Log)
	v.Set("alerts", cfg.Alerts)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
