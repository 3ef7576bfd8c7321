package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/keithsharp/rsmqctl/internal/security"
)

// =============================================================================
// CONNECTION SETTINGS VALIDATION
// =============================================================================
//
// Settings reach rsmqctl from four places (flags, environment, config file,
// defaults). A typo in any of them usually shows up as a confusing Redis dial
// error, so the resolved settings are checked before a connection is opened.
//
//   PATTERN: ACCUMULATE ERRORS
//   All problems are collected and returned together so a broken config file
//   can be fixed in one pass.
//
// =============================================================================

// ValidationError holds one or more configuration validation failures.
type ValidationError struct {
	Errors []string
}

// Error implements the error interface.
// Formats all validation errors as a numbered list for readability.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0])
	}

	var b strings.Builder
	b.WriteString("configuration validation failed:\n")
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err)
	}
	return b.String()
}

// =============================================================================
// CONNECTION CONFIG
// =============================================================================

// Defaults used when neither flag, environment nor config file set a value.
const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 6379
	DefaultNamespace = "rsmq"
	DefaultTimeout   = 30 * time.Second
)

// namespaceRe matches what RSMQ implementations accept as a key prefix.
var namespaceRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ConnectionConfig is the fully resolved set of settings a command runs with.
type ConnectionConfig struct {
	Host      string
	Port      int
	DB        int
	Password  string
	Namespace string
	Timeout   time.Duration
	Realtime  bool

	// TLS configures an encrypted connection to Redis.
	TLS security.TLSConfig

	// PushgatewayURL enables pushing command metrics when non-empty.
	PushgatewayURL string
}

// DefaultConnectionConfig returns the settings used with no overrides.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Namespace: DefaultNamespace,
		Timeout:   DefaultTimeout,
		TLS:       security.DefaultTLSConfig(),
	}
}

// Addr returns the host:port address of the Redis server.
func (c ConnectionConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ConnectionValidator validates resolved connection settings.
type ConnectionValidator struct{}

// Validate checks the connection settings for common mistakes.
// Returns nil if valid, or a *ValidationError with all problems found.
func (v *ConnectionValidator) Validate(cfg ConnectionConfig) error {
	var errs []string

	if cfg.Host == "" {
		errs = append(errs, "host: must not be empty")
	} else if strings.ContainsAny(cfg.Host, " \t\n\r") {
		errs = append(errs, "host: must not contain whitespace")
	} else if strings.Contains(cfg.Host, ":") && net.ParseIP(cfg.Host) == nil {
		errs = append(errs, fmt.Sprintf("host: %q must not include a port, use --port", cfg.Host))
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port: must be between 1 and 65535, got %d", cfg.Port))
	}

	if cfg.DB < 0 {
		errs = append(errs, fmt.Sprintf("db: must be >= 0, got %d", cfg.DB))
	}

	if !namespaceRe.MatchString(cfg.Namespace) {
		errs = append(errs, fmt.Sprintf("namespace: %q must be non-empty and contain only letters, digits, '_' or '-'", cfg.Namespace))
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("timeout: must be > 0, got %s", cfg.Timeout))
	}

	errs = append(errs, cfg.TLS.Validate()...)

	if cfg.PushgatewayURL != "" {
		errs = append(errs, validatePushgatewayURL(cfg.PushgatewayURL)...)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// validatePushgatewayURL checks that the Pushgateway address is an absolute
// http(s) URL.
func validatePushgatewayURL(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil {
		return []string{fmt.Sprintf("pushgateway: invalid URL %q: %v", raw, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []string{fmt.Sprintf("pushgateway: %q must use http or https", raw)}
	}
	if u.Host == "" {
		return []string{fmt.Sprintf("pushgateway: %q has no host", raw)}
	}
	return nil
}
