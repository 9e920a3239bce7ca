// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv points config discovery at an empty directory so files and
// variables from the developer's environment do not leak into the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	for env := range envMappings {
		t.Setenv(strings.ToUpper(env), "")
		os.Unsetenv(strings.ToUpper(env))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qoe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Analytics.CustomerKey != "" {
		t.Errorf("Analytics.CustomerKey should be empty by default, got %q", cfg.Analytics.CustomerKey)
	}
	if !cfg.Analytics.EndSessionOnSourceUnloaded {
		t.Error("Analytics.EndSessionOnSourceUnloaded should be true by default")
	}
	if !cfg.Analytics.EndSessionOnPlaybackError {
		t.Error("Analytics.EndSessionOnPlaybackError should be true by default")
	}
	if cfg.Analytics.StallDebounce != 100*time.Millisecond {
		t.Errorf("Analytics.StallDebounce = %v, want 100ms", cfg.Analytics.StallDebounce)
	}
	if cfg.Forwarder.Transport != TransportGoChannel {
		t.Errorf("Forwarder.Transport = %q, want %q", cfg.Forwarder.Transport, TransportGoChannel)
	}
	if cfg.Forwarder.TopicPrefix != "qoe" {
		t.Errorf("Forwarder.TopicPrefix = %q, want qoe", cfg.Forwarder.TopicPrefix)
	}
	if cfg.Forwarder.BreakerMaxFailures != 5 {
		t.Errorf("Forwarder.BreakerMaxFailures = %d, want 5", cfg.Forwarder.BreakerMaxFailures)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

func TestLoad_RequiresCustomerKey(t *testing.T) {
	isolateEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error without customer key")
	}
	if !strings.Contains(err.Error(), "CustomerKey is required") {
		t.Errorf("error = %v, want it to mention CustomerKey", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ANALYTICS_CUSTOMER_KEY", "env-key")
	t.Setenv("ANALYTICS_IS_LIVE", "true")
	t.Setenv("ANALYTICS_END_SESSION_ON_SOURCE_UNLOADED", "false")
	t.Setenv("ANALYTICS_STALL_DEBOUNCE", "250ms")
	t.Setenv("FORWARDER_BREAKER_MAX_FAILURES", "9")
	t.Setenv("REPLAY_SPEED", "2.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analytics.CustomerKey != "env-key" {
		t.Errorf("CustomerKey = %q, want env-key", cfg.Analytics.CustomerKey)
	}
	if !cfg.Analytics.IsLive {
		t.Error("IsLive should be true")
	}
	if cfg.Analytics.EndSessionOnSourceUnloaded {
		t.Error("EndSessionOnSourceUnloaded should be false")
	}
	if cfg.Analytics.StallDebounce != 250*time.Millisecond {
		t.Errorf("StallDebounce = %v, want 250ms", cfg.Analytics.StallDebounce)
	}
	if cfg.Forwarder.BreakerMaxFailures != 9 {
		t.Errorf("BreakerMaxFailures = %d, want 9", cfg.Forwarder.BreakerMaxFailures)
	}
	if cfg.Replay.Speed != 2.5 {
		t.Errorf("Replay.Speed = %v, want 2.5", cfg.Replay.Speed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched values keep their defaults
	if cfg.Forwarder.TopicPrefix != "qoe" {
		t.Errorf("TopicPrefix = %q, want qoe", cfg.Forwarder.TopicPrefix)
	}
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
analytics:
  customer_key: file-key
  gateway_url: https://collector.example.com
  stall_debounce: 150ms
forwarder:
  transport: nats
  nats_url: nats://nats.internal:4222
  topic_prefix: prod.qoe
logging:
  format: console
`)
	t.Setenv("FORWARDER_TOPIC_PREFIX", "staging.qoe")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Analytics.CustomerKey != "file-key" {
		t.Errorf("CustomerKey = %q, want file-key", cfg.Analytics.CustomerKey)
	}
	if cfg.Analytics.GatewayURL != "https://collector.example.com" {
		t.Errorf("GatewayURL = %q", cfg.Analytics.GatewayURL)
	}
	if cfg.Analytics.StallDebounce != 150*time.Millisecond {
		t.Errorf("StallDebounce = %v, want 150ms", cfg.Analytics.StallDebounce)
	}
	if cfg.Forwarder.Transport != TransportNATS {
		t.Errorf("Transport = %q, want nats", cfg.Forwarder.Transport)
	}
	if cfg.Forwarder.TopicPrefix != "staging.qoe" {
		t.Errorf("TopicPrefix = %q, want env override staging.qoe", cfg.Forwarder.TopicPrefix)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoad_UsesConfigPathEnv(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "analytics:\n  customer_key: from-config-path\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analytics.CustomerKey != "from-config-path" {
		t.Errorf("CustomerKey = %q, want from-config-path", cfg.Analytics.CustomerKey)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadFile() expected error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults with key", mutate: func(c *Config) {}},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Forwarder.Transport = "kafka" },
			wantErr: "must be one of",
		},
		{
			name:    "gateway without scheme",
			mutate:  func(c *Config) { c.Analytics.GatewayURL = "ftp://collector.example.com" },
			wantErr: "scheme must be http or https",
		},
		{
			name: "nats transport with http url",
			mutate: func(c *Config) {
				c.Forwarder.Transport = TransportNATS
				c.Forwarder.NATSURL = "http://nats:4222"
			},
			wantErr: "scheme must be nats",
		},
		{
			name: "nats transport without url",
			mutate: func(c *Config) {
				c.Forwarder.Transport = TransportNATS
				c.Forwarder.NATSURL = ""
			},
			wantErr: "NATS_URL is required",
		},
		{
			name:    "stall debounce too long",
			mutate:  func(c *Config) { c.Analytics.StallDebounce = time.Minute },
			wantErr: "StallDebounce",
		},
		{
			name:    "bad topic prefix",
			mutate:  func(c *Config) { c.Forwarder.TopicPrefix = "qoe..events" },
			wantErr: "topic prefix",
		},
		{
			name:    "zero breaker failures",
			mutate:  func(c *Config) { c.Forwarder.BreakerMaxFailures = 0 },
			wantErr: "BreakerMaxFailures",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "must be one of: json console",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Analytics.CustomerKey = "key"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"ANALYTICS_CUSTOMER_KEY", "analytics.customer_key"},
		{"analytics_gateway_url", "analytics.gateway_url"},
		{"NATS_URL", "forwarder.nats_url"},
		{"LOG_FORMAT", "logging.format"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfig(t, "analytics: {}\n")

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			t.Skipf("default config %s exists on this machine", p)
		}
	}
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}
}
