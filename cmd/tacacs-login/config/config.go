// Package config loads tacacs-login's configuration using koanf/v2,
// layering a YAML file under TACLOGIN_-prefixed environment overrides,
// then validates the result with go-playground/validator.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds everything tacacs-login needs to reach a server and
// run one exchange against it.
type Config struct {
	Server ServerConfig `koanf:"server" validate:"required"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig describes the TACACS+ server to dial and the shared
// secret used to obfuscate the session.
type ServerConfig struct {
	// Addr is the host:port to dial.
	Addr string `koanf:"addr" validate:"required,hostname_port"`
	// Secret is the shared key; empty runs the connection UNENCRYPTED.
	Secret string `koanf:"secret"`
	// TLS enables a TLS dial instead of plain TCP.
	TLS bool `koanf:"tls"`
}

// LogConfig controls the zerolog console writer's level.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error, in lower case.
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

// envPrefix is the environment variable prefix for tacacs-login
// configuration overrides, e.g. TACLOGIN_SERVER_ADDR.
const envPrefix = "TACLOGIN_"

// DefaultConfig returns a Config with a local server and info logging.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:49"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path (if non-empty) as YAML, overlays TACLOGIN_ environment
// overrides, merges on top of DefaultConfig, and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(structProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("config: load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

// envKeyMapper transforms TACLOGIN_SERVER_ADDR -> server.addr.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// structProvider feeds a Config's fields into koanf as the base layer,
// without requiring a serialized form on disk first.
func structProvider(cfg *Config) koanf.Provider {
	return confmapProvider{
		"server.addr":   cfg.Server.Addr,
		"server.secret": cfg.Server.Secret,
		"server.tls":    cfg.Server.TLS,
		"log.level":     cfg.Log.Level,
	}
}

// confmapProvider adapts a flat map literal to koanf.Provider without
// pulling in the confmap provider module for a one-shot default layer.
type confmapProvider map[string]any

func (p confmapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("confmapProvider: ReadBytes is not supported")
}

func (p confmapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}
