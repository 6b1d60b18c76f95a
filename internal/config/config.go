package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	} `json:"server"`
	Store struct {
		Driver    string `json:"driver"`
		DSN       string `json:"dsn"`
		RedisAddr string `json:"redis_addr"`
		RedisDB   int    `json:"redis_db"`
	} `json:"store"`
	Channel struct {
		// ID is the fixed conversation channel every read and write is
		// scoped to. One deployment serves exactly one device.
		ID string `json:"id"`
		// AttachmentHost is the host the agent uploads media to;
		// response URLs on this host classify as attachments.
		AttachmentHost string `json:"attachment_host"`
	} `json:"channel"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close config file", zap.Error(closeErr))
		}
	}()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server port must be positive")
	}
	if c.Store.Driver != DriverSQLite && c.Store.Driver != DriverRedis {
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverSQLite && c.Store.DSN == "" {
		return errors.New("store DSN is required for the sqlite driver")
	}
	if c.Store.Driver == DriverRedis && c.Store.RedisAddr == "" {
		return errors.New("redis address is required for the redis driver")
	}
	if c.Channel.ID == "" {
		return errors.New("channel id is required")
	}
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Store.Driver = DriverSQLite
	config.Store.DSN = "file:console.db?cache=shared&mode=rwc"
	config.Channel.ID = "primary-device"
	config.Channel.AttachmentHost = "firebasestorage.googleapis.com"
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	return config
}
