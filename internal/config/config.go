package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the CLI.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Run store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the settings of the delta command.
type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Output   string      `mapstructure:"output"`
	Color    string      `mapstructure:"color"` // auto, always, never
	Store    string      `mapstructure:"store"`
	Redis    RedisConfig `mapstructure:"redis"`
	HTTP     HTTPConfig  `mapstructure:"http"`

	// Redact is a pattern; matching input symbols are masked in stored runs.
	Redact string `mapstructure:"redact"`

	// MaxInputSize caps the byte length of one input. Zero uses the default.
	MaxInputSize int `mapstructure:"max_input_size"`

	// Trace prints an OpenTelemetry span per evaluation to stderr.
	Trace bool `mapstructure:"trace"`

	// Encryption seals stored runs with AES-256-GCM when a key is set.
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

// EnvEncryptionKey overrides encryption.key.
const EnvEncryptionKey = "DELTA_ENCRYPTION_KEY"

// EncryptionConfig holds base64 encoded 32-byte keys.
type EncryptionConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// Enabled reports whether runs are to be encrypted.
func (e EncryptionConfig) Enabled() bool {
	return e.Key != ""
}

// Keys decodes the active and fallback keys.
func (e EncryptionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	active, err = decodeKey(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption.key: %w", err)
	}
	for i, k := range e.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("encryption.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want 32 bytes, got %d", len(key))
	}
	return key, nil
}

// RedisConfig configures the redis run store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPConfig configures `delta serve`.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Output:   OutputText,
		Color:    "auto",
		Store:    StoreNone,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "delta:run:",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// overrides on top and validates the result. Override keys use dots for
// nesting, e.g. "redis.addr".
func Load(path string, overrides map[string]any) (Config, error) {
	raw := make(map[string]any)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = make(map[string]any)
		}
	}

	if key := os.Getenv(EnvEncryptionKey); key != "" {
		setPath(raw, []string{"encryption", "key"}, key)
	}
	for key, val := range overrides {
		setPath(raw, strings.Split(key, "."), val)
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	var errs []error
	if !oneOf(c.Output, OutputText, OutputJSON, OutputYAML) {
		errs = append(errs, fmt.Errorf("output: unknown format %q", c.Output))
	}
	if !oneOf(c.Store, StoreNone, StoreMemory, StoreRedis) {
		errs = append(errs, fmt.Errorf("store: unknown backend %q", c.Store))
	}
	if !oneOf(c.Color, "auto", "always", "never") {
		errs = append(errs, fmt.Errorf("color: expected auto, always or never, got %q", c.Color))
	}
	if c.Redact != "" {
		if _, err := regexp.Compile(c.Redact); err != nil {
			errs = append(errs, fmt.Errorf("redact: %w", err))
		}
	}
	if c.MaxInputSize < 0 {
		errs = append(errs, fmt.Errorf("max_input_size: must not be negative"))
	}
	if c.Encryption.Enabled() {
		if _, _, err := c.Encryption.Keys(); err != nil {
			errs = append(errs, err)
		}
	} else if len(c.Encryption.FallbackKeys) > 0 {
		errs = append(errs, fmt.Errorf("encryption.fallback_keys: set without encryption.key"))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl: must not be negative"))
	}
	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func setPath(m map[string]any, path []string, val any) {
	if len(path) == 1 {
		m[path[0]] = val
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[path[0]] = child
	}
	setPath(child, path[1:], val)
}
