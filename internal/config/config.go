// Package config loads the gateway's TOML configuration, following the
// config/config.toml convention of the reference implementation and the
// sync.Once load-once-reload-on-demand idiom of the teacher's site config.
package config

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"ovos-htmx-gui-gateway/internal/util"
)

// Config is the gateway's full runtime configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Bus    BusConfig    `toml:"bus"`
	Log    LogConfig    `toml:"log"`
	Redis  *RedisConfig `toml:"redis"`
}

// ServerConfig configures the HTTP/SSE front end.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	AssetsDirectory string `toml:"assets_directory"`
}

// BusConfig configures the connection to the core messagebus.
type BusConfig struct {
	URL                 string        `toml:"url"`
	ClientID            string        `toml:"client_id"`
	Framework           string        `toml:"framework"`
	PingPeriod          time.Duration `toml:"ping_period"`
	ConnectionCheckWait time.Duration `toml:"connection_check_wait"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// RedisConfig, when present, backs the session registry with Redis instead
// of an in-process map.
type RedisConfig struct {
	URL       string `toml:"url"`
	KeyPrefix string `toml:"key_prefix"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8089,
			AssetsDirectory: "assets",
		},
		Bus: BusConfig{
			URL:                 util.DefaultBusURL,
			ClientID:            util.DefaultGUIID,
			Framework:           util.DefaultFramework,
			PingPeriod:          util.DefaultPingPeriod,
			ConnectionCheckWait: util.DefaultConnectionCheck,
		},
		Log: LogConfig{Level: "info"},
	}
}

var (
	current     *Config
	currentMu   sync.RWMutex
	loadOnce    sync.Once
	configPath  = envOr("GUI_GATEWAY_CONFIG", "config/config.toml")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Get returns the current configuration, loading it from disk on first
// call.
func Get() *Config {
	loadOnce.Do(func() {
		currentMu.Lock()
		defer currentMu.Unlock()
		current = loadFromFile()
	})
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// Reload re-reads the configuration file, replacing the in-memory config.
func Reload() error {
	cfg := loadFromFile()
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
	slog.Info("configuration reloaded", "path", configPath)
	return nil
}

func loadFromFile() *Config {
	cfg := defaultConfig()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("config file not found, using defaults", "path", configPath)
		} else {
			slog.Warn("could not read config, using defaults", "path", configPath, "error", err)
		}
		return cfg
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		slog.Error("invalid TOML config, using defaults", "path", configPath, "error", err)
		return defaultConfig()
	}
	slog.Info("loaded configuration", "path", configPath, "bus_url", cfg.Bus.URL)
	return cfg
}
