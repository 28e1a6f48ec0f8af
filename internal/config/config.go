package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is the development fallback for the session secret.
// Startup warns when the process is still running on it.
const DefaultSessionSecret = "dev-secret-change-me"

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Session SessionConfig `mapstructure:"session"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	// Path is the SQLite database file. The parent directory is created at
	// startup if it does not exist.
	Path string `mapstructure:"path"`
}

// SessionConfig holds session configuration.
type SessionConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	LifetimeHours int    `mapstructure:"lifetime_hours"`
}

// AdminConfig holds the single shared admin credential pair.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// Set default values. Every key has a development default so a bare
	// `go run ./cmd/server` boots without any configuration.
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("db.path", "data/scripts.db")
	viper.SetDefault("session.secret_key", DefaultSessionSecret)
	viper.SetDefault("session.lifetime_hours", 12)
	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("admin.password", "admin123")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	// Set up viper to read from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/scripts-cms/")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	viper.SetEnvPrefix("SCRIPTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Addr returns the host:port pair the HTTP server should bind to.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
