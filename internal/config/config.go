package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrInvalidPort          = errors.New("port must be between 0 and 65535")
	ErrInvalidBufferSize    = errors.New("buffer size must be greater than 0")
	ErrInvalidChunkSize     = errors.New("chunk size must be greater than 0")
	ErrInvalidSaveDir       = errors.New("save directory must be set")
	ErrInvalidAddress       = errors.New("server address must be set")
	ErrInvalidMaxConcurrent = errors.New("max concurrent connections must not be negative")
)

// EnvPrefix is the prefix for environment overrides, e.g. TCPDROP_SERVER_PORT.
const EnvPrefix = "TCPDROP"

// Config holds all application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Client ClientConfig `mapstructure:"client"`
}

// ServerConfig holds receiver-side configuration
type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	SaveDir       string `mapstructure:"save_dir"`
	BufferSize    int    `mapstructure:"buffer_size"`
	MaxConcurrent int    `mapstructure:"max_concurrent"` // 0 means one goroutine per connection, unbounded
}

// ClientConfig holds sender-side configuration
type ClientConfig struct {
	Address     string        `mapstructure:"address"`
	Port        int           `mapstructure:"port"`
	ChunkSize   int           `mapstructure:"chunk_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          12345,
			SaveDir:       "received_files",
			BufferSize:    4096,
			MaxConcurrent: 0,
		},
		Client: ClientConfig{
			Address:     "localhost",
			Port:        12345,
			ChunkSize:   4096,
			DialTimeout: 10 * time.Second,
		},
	}
}

// Load builds a Config from defaults overlaid with whatever v knows about
// (config file, environment, bound flags).
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	SetDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults registers every key of cfg with v so environment variables are
// picked up by Unmarshal even without a config file.
func SetDefaults(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.save_dir", cfg.Server.SaveDir)
	v.SetDefault("server.buffer_size", cfg.Server.BufferSize)
	v.SetDefault("server.max_concurrent", cfg.Server.MaxConcurrent)
	v.SetDefault("client.address", cfg.Client.Address)
	v.SetDefault("client.port", cfg.Client.Port)
	v.SetDefault("client.chunk_size", cfg.Client.ChunkSize)
	v.SetDefault("client.dial_timeout", cfg.Client.DialTimeout)
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Client.Validate()
}

// Validate ensures the server section is usable
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return ErrInvalidPort
	}
	if s.SaveDir == "" {
		return ErrInvalidSaveDir
	}
	if s.BufferSize <= 0 {
		return ErrInvalidBufferSize
	}
	if s.MaxConcurrent < 0 {
		return ErrInvalidMaxConcurrent
	}
	return nil
}

// Validate ensures the client section is usable
func (c ClientConfig) Validate() error {
	if c.Address == "" {
		return ErrInvalidAddress
	}
	if c.Port < 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	return nil
}
