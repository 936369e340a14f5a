package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBackendURL is the sweep API root the front-ends talk to unless
// configured otherwise. Set it at build time with
// -ldflags "-X github.com/itsatony/w4b_v3/server/sweeps/internal/config.DefaultBackendURL=https://..."
var DefaultBackendURL = "http://localhost:5000"

// Config holds all configuration for the sweep API and its front-ends
type Config struct {
	Server     ServerConfig
	Console    ServerConfig
	Backend    BackendConfig
	Database   PostgresConfig
	FileStore  FileStoreConfig
	Download   DownloadConfig
	TUI        TUIConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// BackendConfig points the front-ends at the sweep API. A zero Timeout
// leaves requests unbounded.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type FileStoreConfig struct {
	BasePath    string `mapstructure:"base_path"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

// DownloadConfig is where the terminal front-end saves downloaded artifacts.
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// TUIConfig holds settings of the terminal front-end. Logs go to LogFile
// while it owns the terminal.
type TUIConfig struct {
	LogFile string `mapstructure:"log_file"`
}

type MonitoringConfig struct {
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SWEEPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// RequireDatabase checks the settings only the sweep API needs.
func (c *Config) RequireDatabase() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.FileStore.BasePath == "" {
		return fmt.Errorf("filestore base path is required")
	}
	return nil
}

func setDefaults() {
	// Sweep API server defaults
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Console defaults
	viper.SetDefault("console.port", 8080)
	viper.SetDefault("console.host", "127.0.0.1")
	viper.SetDefault("console.read_timeout", "15s")
	viper.SetDefault("console.write_timeout", "60s")
	viper.SetDefault("console.shutdown_timeout", "10s")

	// Backend defaults
	viper.SetDefault("backend.url", DefaultBackendURL)
	viper.SetDefault("backend.timeout", "0s")

	// Database defaults
	viper.SetDefault("database.host", "")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "sweeps")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "sweeps")
	viper.SetDefault("database.sslmode", "disable")

	// FileStore defaults
	viper.SetDefault("filestore.base_path", "./data/sweeps")
	viper.SetDefault("filestore.max_file_size", 32*1024*1024) // 32MB

	// Download defaults
	viper.SetDefault("download.dir", "./downloads")

	// Terminal front-end defaults
	viper.SetDefault("tui.log_file", "./sweeptui.log")

	// Monitoring defaults
	viper.SetDefault("monitoring.metrics_enabled", true)
}

func validateConfig(config *Config) error {
	u, err := url.Parse(config.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must be http or https, got %q", config.Backend.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend url has no host: %q", config.Backend.URL)
	}
	if config.TUI.LogFile == "" {
		return fmt.Errorf("tui log file must not be empty")
	}
	if config.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout must not be negative")
	}
	for name, port := range map[string]int{"server": config.Server.Port, "console": config.Console.Port} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s port must be between 1 and 65535, got %d", name, port)
		}
	}
	return nil
}
