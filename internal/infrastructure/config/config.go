package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for LanWake Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Registry RegistryConfig `yaml:"registry"`
	Probe    ProbeConfig    `yaml:"probe"`
	Wake     WakeConfig     `yaml:"wake"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	TSDB     TSDBConfig     `yaml:"tsdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// RegistryConfig contains device registry persistence settings.
//
// The registry is a single JSON file on disk. The file is the source of
// truth; the in-memory copy is a read-through cache refreshed per request,
// so hand edits to the file are picked up without a restart.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// ProbeConfig contains liveness probe settings.
type ProbeConfig struct {
	// TimeoutSeconds is the per-host ICMP echo timeout. Default: 3.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Concurrency caps simultaneous probes during a bulk refresh.
	// Default: 10. Bulk refresh wall-clock is bounded by a constant
	// multiple of the timeout regardless of device count.
	Concurrency int `yaml:"concurrency"`
}

// WakeConfig contains Wake-on-LAN settings.
type WakeConfig struct {
	// DefaultPort is the UDP port magic packets are sent to when a device
	// record or wake request does not specify one. Default: 9.
	DefaultPort int `yaml:"default_port"`
}

// MQTTConfig contains settings for the optional status event publisher.
type MQTTConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TSDBConfig contains settings for the optional probe history writer (InfluxDB v2).
type TSDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LANWAKE_SECTION_KEY
// For example: LANWAKE_REGISTRY_PATH, LANWAKE_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides applied.
//
// Used when no config file exists: a wake server should come up with zero
// configuration and an empty registry rather than refuse to start.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Registry: RegistryConfig{
			Path: "./data/devices.json",
		},
		Probe: ProbeConfig{
			TimeoutSeconds: 3,
			Concurrency:    10,
		},
		Wake: WakeConfig{
			DefaultPort: 9,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "lanwake-core",
			},
			QoS: 1,
		},
		TSDB: TSDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LANWAKE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("LANWAKE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("LANWAKE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Registry
	if v := os.Getenv("LANWAKE_REGISTRY_PATH"); v != "" {
		cfg.Registry.Path = v
	}

	// MQTT
	if v := os.Getenv("LANWAKE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("LANWAKE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("LANWAKE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// TSDB token (keep tokens out of the config file)
	if v := os.Getenv("LANWAKE_TSDB_TOKEN"); v != "" {
		cfg.TSDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Registry.Path == "" {
		errs = append(errs, "registry.path is required")
	}

	if c.Probe.TimeoutSeconds < 1 {
		errs = append(errs, "probe.timeout_seconds must be at least 1")
	}
	if c.Probe.Concurrency < 1 {
		errs = append(errs, "probe.concurrency must be at least 1")
	}

	if c.Wake.DefaultPort < 1 || c.Wake.DefaultPort > 65535 {
		errs = append(errs, "wake.default_port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.TSDB.Enabled && c.TSDB.URL == "" {
		errs = append(errs, "tsdb.url is required when tsdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// ProbeTimeout returns the per-host probe timeout as a Duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}
