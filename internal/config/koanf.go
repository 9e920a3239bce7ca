// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"qoe.yaml",
	"qoe.yml",
	"/etc/playbackqoe/config.yaml",
	"/etc/playbackqoe/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Analytics: AnalyticsConfig{
			CustomerKey:                "", // Required
			GatewayURL:                 "", // SDK default endpoint
			DebugLoggingEnabled:        false,
			LogLevel:                   "",
			EndSessionOnSourceUnloaded: true,
			EndSessionOnPlaybackError:  true,
			IsLive:                     false,
			StallDebounce:              100 * time.Millisecond,
		},
		Forwarder: ForwarderConfig{
			Transport:          TransportGoChannel,
			TopicPrefix:        "qoe",
			NATSURL:            "nats://127.0.0.1:4222",
			OutputBuffer:       256,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
			BreakerInterval:    time.Minute,
		},
		Replay: ReplayConfig{
			Input: "-",
			Speed: 0, // As fast as possible
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf with layered sources:
//  1. Built-in defaults (lowest priority)
//  2. Config file (qoe.yaml or the path in CONFIG_PATH)
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path falls
// back to CONFIG_PATH and DefaultConfigPaths; a non-empty path must exist.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns empty string if no config file is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak into
// the configuration.
var envMappings = map[string]string{
	"analytics_customer_key":                   "analytics.customer_key",
	"analytics_gateway_url":                    "analytics.gateway_url",
	"analytics_debug_logging":                  "analytics.debug_logging_enabled",
	"analytics_log_level":                      "analytics.log_level",
	"analytics_end_session_on_source_unloaded": "analytics.end_session_on_source_unloaded",
	"analytics_end_session_on_playback_error":  "analytics.end_session_on_playback_error",
	"analytics_is_live":                        "analytics.is_live",
	"analytics_stall_debounce":                 "analytics.stall_debounce",

	"forwarder_transport":            "forwarder.transport",
	"forwarder_topic_prefix":         "forwarder.topic_prefix",
	"nats_url":                       "forwarder.nats_url",
	"forwarder_output_buffer":        "forwarder.output_buffer",
	"forwarder_breaker_max_failures": "forwarder.breaker_max_failures",
	"forwarder_breaker_timeout":      "forwarder.breaker_timeout",
	"forwarder_breaker_interval":     "forwarder.breaker_interval",

	"replay_input": "replay.input",
	"replay_speed": "replay.speed",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
