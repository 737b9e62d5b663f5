package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Permission modes accepted by Config.PermissionMode.
const (
	PermissionModeAllow = "allow"
	PermissionModeWarn  = "warn"
	PermissionModeDeny  = "deny"
)

// Unknown-event policies accepted by Config.UnknownEventPolicy.
const (
	UnknownEventForward = "forward"
	UnknownEventFlag    = "flag"
)

// Config groups the bridge settings shared by the Host and Guest sides. Each
// component only uses the keys that are relevant to it.
type Config struct {
	// Transport selects the boundary implementation. Supported values:
	// "channel" (in-process) or "nats".
	Transport string `toml:"transport"`

	// Role identifies which side of the boundary this process plays:
	// "host" or "guest".
	Role string `toml:"role"`

	// ChannelName names the in-process channel hub shared by the host and
	// guest endpoints when Transport is "channel".
	ChannelName string `toml:"channel_name"`

	// NATS configuration.
	NATSURL string `toml:"nats_url"`
	// NATSSubjectPrefix prefixes the per-direction subjects. Defaults to
	// "hostwire".
	NATSSubjectPrefix string `toml:"nats_subject_prefix"`

	// Outbound retry tuning. Zero values fall back to library defaults.
	RetryMaxRetries int           `toml:"retry_max_retries"`
	RetryInterval   time.Duration `toml:"-"`
	QueueCapacity   int           `toml:"queue_capacity"`

	// MaxListeners bounds exact-name subscriptions before the bus logs a
	// leak warning. Zero disables the check.
	MaxListeners int `toml:"max_listeners"`

	// PermissionMode selects how strictly missing capability permissions are
	// enforced: "allow", "warn", or "deny". Defaults to "deny".
	PermissionMode string `toml:"permission_mode"`

	// UnknownEventPolicy selects what the router does with event names
	// outside both the capability and contract namespaces: "forward" (treat
	// as ordinary local pub/sub) or "flag" (record an unknown_event
	// violation). Defaults to "forward".
	UnknownEventPolicy string `toml:"unknown_event_policy"`

	// ContractTablesFile points at the generated contract schema artifact.
	ContractTablesFile string `toml:"contract_tables_file"`

	// Metrics configuration.
	MetricsEnabled bool `toml:"metrics_enabled"`
	// MetricsPort is the port where Prometheus metrics will be exposed.
	MetricsPort int `toml:"metrics_port"`
}

// Getter methods to implement the transport.Config interface.
func (c *Config) GetTransport() string         { return c.Transport }
func (c *Config) GetRole() string              { return c.Role }
func (c *Config) GetChannelName() string       { return c.ChannelName }
func (c *Config) GetNATSURL() string           { return c.NATSURL }
func (c *Config) GetNATSSubjectPrefix() string { return c.NATSSubjectPrefix }

type rawConfig struct {
	Config
	RetryInterval string `toml:"retry_interval"`
}

// LoadFile reads a TOML bridge configuration from disk. Durations are written
// as strings ("5s", "250ms") and parsed with time.ParseDuration.
func LoadFile(path string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to load bridge config %q: %w", path, err)
	}
	cfg := raw.Config
	if raw.RetryInterval != "" {
		d, err := time.ParseDuration(strings.TrimSpace(raw.RetryInterval))
		if err != nil {
			return nil, fmt.Errorf("invalid retry_interval %q: %w", raw.RetryInterval, err)
		}
		cfg.RetryInterval = d
	}
	return &cfg, nil
}

// Validate checks that the configuration has all required fields for the
// selected transport and that tuning values are sane. Validation of transport
// names is lenient to allow custom boundary implementations.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, c.validateTransport()...)
	errs = append(errs, c.validateRetry()...)
	errs = append(errs, c.validatePolicies()...)
	errs = append(errs, c.validatePorts()...)

	return errors.Join(errs...)
}

func (c *Config) validateTransport() []error {
	switch strings.ToLower(c.Transport) {
	case "nats":
		if c.NATSURL == "" {
			return []error{errors.New("nats: URL is required")}
		}
	}
	// channel, "", and custom transports have no required config
	return nil
}

func (c *Config) validateRetry() []error {
	var errs []error
	if c.RetryMaxRetries < 0 {
		errs = append(errs, errors.New("retry: max retries cannot be negative"))
	}
	if c.RetryInterval < 0 {
		errs = append(errs, errors.New("retry: interval cannot be negative"))
	}
	if c.QueueCapacity < 0 {
		errs = append(errs, errors.New("retry: queue capacity cannot be negative"))
	}
	if c.MaxListeners < 0 {
		errs = append(errs, errors.New("bus: max listeners cannot be negative"))
	}
	return errs
}

func (c *Config) validatePolicies() []error {
	var errs []error
	switch c.PermissionMode {
	case "", PermissionModeAllow, PermissionModeWarn, PermissionModeDeny:
	default:
		errs = append(errs, fmt.Errorf("permissions: unknown mode %q", c.PermissionMode))
	}
	switch c.UnknownEventPolicy {
	case "", UnknownEventForward, UnknownEventFlag:
	default:
		errs = append(errs, fmt.Errorf("router: unknown event policy %q", c.UnknownEventPolicy))
	}
	if c.Role != "" && c.Role != "host" && c.Role != "guest" {
		errs = append(errs, fmt.Errorf("bridge: unknown role %q", c.Role))
	}
	return errs
}

func (c *Config) validatePorts() []error {
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return []error{fmt.Errorf("metrics: invalid port %d", c.MetricsPort)}
	}
	return nil
}

// ValidateConfig is a convenience function to validate a config pointer.
// Returns nil if the config is valid.
func ValidateConfig(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}
