// Package config loads and validates environment-variable configuration
// for both daemons (cmd/rr-dnsd, cmd/rr-httpd) from a single env namespace,
// using the same koanf default+env provider pipeline plus validator/v10
// struct validation the teacher uses for its own AppConfig.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log LoggingConfig `koanf:"log" validate:"required"`

	UDP UDPConfig `koanf:"udp" validate:"required"`

	HTTP HTTPConfig `koanf:"http" validate:"required"`

	Cache CacheConfig `koanf:"cache" validate:"required"`
}

type LoggingConfig struct {
	// Level defines the logging level: "debug", "info", "warn", or "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// UDPConfig holds the recursive resolver's UDP front-end bind settings.
type UDPConfig struct {
	// BindAddress is the interface address the UDP server listens on.
	// default: 127.0.0.1, or 0.0.0.0 when DOCKER_ENV is set.
	BindAddress string `koanf:"bind_address" validate:"required,ip"`

	// Port is the UDP port the resolver listens on.
	// default: 53
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`
}

// HTTPConfig holds the secondary HTTP forwarding endpoint's bind settings.
type HTTPConfig struct {
	// BindAddress is the interface address the HTTP server listens on.
	// default: 127.0.0.1, or 0.0.0.0 when DOCKER_ENV is set.
	BindAddress string `koanf:"bind_address" validate:"required,ip"`

	// Port is the TCP port the HTTP endpoint listens on.
	// default: 8080
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`
}

// CacheConfig describes the answer cache's backing KV store.
type CacheConfig struct {
	// URL is the KV store DSN: "bolt://<path>" for the embedded file-backed
	// store, or "memory://" for the bounded in-process store. Carries the
	// name REDIS_URL in the environment, matching the "external key-value
	// store" collaborator named for the answer cache, even though the
	// shipped backends are bbolt and in-memory rather than Redis itself.
	URL string `koanf:"url" validate:"required"`

	// LRUSize bounds the in-process store. 0 selects the store's default
	// bound of 4096 entries.
	LRUSize int `koanf:"lru_size" validate:"gte=0"`
}

// dockerEnvSet reports whether DOCKER_ENV is present in the environment,
// regardless of its value, matching the teacher's practice of treating
// presence-only marker variables as booleans.
func dockerEnvSet() bool {
	_, ok := os.LookupEnv("DOCKER_ENV")
	return ok
}

func defaultBindAddress() string {
	if dockerEnvSet() {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}

// defaultAppConfig builds the baseline configuration. It is re-evaluated on
// every Load() call (rather than cached as a package var) so DOCKER_ENV can
// shift the default bind addresses before the env provider layers explicit
// overrides on top.
func defaultAppConfig() AppConfig {
	bind := defaultBindAddress()
	return AppConfig{
		Env: "prod",
		Log: LoggingConfig{
			Level: "info",
		},
		UDP: UDPConfig{
			BindAddress: bind,
			Port:        53,
		},
		HTTP: HTTPConfig{
			BindAddress: bind,
			Port:        8080,
		},
		Cache: CacheConfig{
			URL:     "bolt:///var/lib/rr-dns/answers.db",
			LRUSize: 1000,
		},
	}
}

// validIPPort validates whether the provided field value is a valid IP address and port combination.
// It expects the value to be in the format "IP:Port". The function returns true if the IP address
// is valid and both the IP and port are non-empty; otherwise, it returns false.
func validIPPort(fl validator.FieldLevel) bool {
	// stringify the field value to get the IP:Port format.
	addr := fl.Field().String()
	// Split the address into IP and port.
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	// Check if the IP address is valid.
	if net.ParseIP(ip) == nil {
		return false
	}
	// Check if the port is a valid number between 1 and 65535.
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// remapEnvKey maps the flat env var names named by spec.md §6 onto this
// package's nested koanf keys. REDIS_URL keeps its historical name (the
// "external key-value store" collaborator) while addressing Cache.URL.
func remapEnvKey(lowerKey string) string {
	switch lowerKey {
	case "env":
		return "env"
	case "log.level":
		return "log.level"
	case "udp.bind.address":
		return "udp.bind_address"
	case "udp.port":
		return "udp.port"
	case "http.bind.address":
		return "http.bind_address"
	case "http.port":
		return "http.port"
	case "redis.url":
		return "cache.url"
	case "cache.lru.size":
		return "cache.lru_size"
	default:
		return lowerKey
	}
}

// envLoader loads unprefixed environment variables (UDP_*, HTTP_*,
// REDIS_URL, LOG_LEVEL, ENV, ...). It transforms keys to lowercase and
// replaces _ with ., then remaps the flat spec names onto this package's
// nested config keys; it can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			key = remapEnvKey(strings.ReplaceAll(strings.ToLower(key), "_", "."))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf
// instance using the structs provider and the dynamically computed default
// config. It returns an error if loading fails.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(defaultAppConfig(), "koanf"), nil)
}

// registerValidation registers a custom validation function "ip_port" with the provided validator.
// It associates the "ip_port" tag with the validIPPort validation logic.
// Returns an error if registration fails.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	// Load default values using structs provider.
	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	// Load environment variables using koanf/providers/env/v2 and Opt pattern.
	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig

	// Unmarshal the loaded configuration into AppConfig struct.
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Validate the configuration.
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Register the custom validation function for IP:Port format.
	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
