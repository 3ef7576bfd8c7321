// =============================================================================
// TLS CONFIGURATION - TRANSPORT LAYER SECURITY FOR THE REDIS CONNECTION
// =============================================================================
//
// ┌─────────────────────────────────────────────────────────────────────────────┐
// │ WHEN IS THIS USED?                                                          │
// │                                                                             │
// │ Managed Redis offerings (ElastiCache in-transit encryption, Azure Cache,    │
// │ Redis Cloud) and Redis 6+ built with TLS only accept encrypted clients.     │
// │                                                                             │
// │   rsmqctl ──TLS──► redis:6380                                               │
// │                                                                             │
// │ MODES:                                                                      │
// │   --tls                      server verified against the system roots       │
// │   --tls --tls-ca ca.pem      server verified against a private CA           │
// │   --tls-cert/--tls-key       client certificate (tls-auth-clients yes)      │
// │   --tls-insecure-skip-verify no verification (FOR TESTING ONLY)             │
// └─────────────────────────────────────────────────────────────────────────────┘
//
// =============================================================================

package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strconv"
)

// TLSConfig holds client TLS settings for the Redis connection.
type TLSConfig struct {
	// Enabled turns on TLS
	Enabled bool

	// CertFile and KeyFile are the client certificate (PEM), both or neither
	CertFile string
	KeyFile  string

	// CAFile is the CA bundle used to verify the server (PEM)
	CAFile string

	// ServerName overrides the name checked against the server certificate
	ServerName string

	// InsecureSkipVerify disables certificate verification (FOR TESTING ONLY)
	InsecureSkipVerify bool

	// MinVersion is the minimum TLS version (floored at TLS 1.2)
	MinVersion uint16
}

// DefaultTLSConfig returns the disabled default.
func DefaultTLSConfig() TLSConfig {
	return TLSConfig{
		Enabled:    false,
		MinVersion: tls.VersionTLS12,
	}
}

// Validate reports settings that can never produce a working connection.
func (c *TLSConfig) Validate() []string {
	var errs []string
	if (c.CertFile == "") != (c.KeyFile == "") {
		errs = append(errs, "tls: client certificate and key must be given together")
	}
	if !c.Enabled && (c.CertFile != "" || c.CAFile != "" || c.InsecureSkipVerify) {
		errs = append(errs, "tls: certificate options given without --tls")
	}
	return errs
}

// NewTLSConfig creates a client tls.Config, or nil when TLS is disabled.
func (c *TLSConfig) NewTLSConfig() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}

	// Floor at TLS 1.2 even if a lower (or zero) version is configured
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if c.MinVersion > tls.VersionTLS12 {
		tlsConfig.MinVersion = c.MinVersion
	}

	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if c.CAFile != "" {
		caCert, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}

		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert %s", c.CAFile)
		}
		tlsConfig.RootCAs = caPool
	}

	tlsConfig.InsecureSkipVerify = c.InsecureSkipVerify
	if c.ServerName != "" {
		tlsConfig.ServerName = c.ServerName
	}

	return tlsConfig, nil
}

// Environment variable suffixes read by ApplyEnv.
const (
	EnvTLSEnabled    = "_TLS"
	EnvTLSCertFile   = "_TLS_CERT_FILE"
	EnvTLSKeyFile    = "_TLS_KEY_FILE"
	EnvTLSCAFile     = "_TLS_CA_FILE"
	EnvTLSServerName = "_TLS_SERVER_NAME"
	EnvTLSInsecure   = "_TLS_INSECURE_SKIP_VERIFY"
	EnvTLSMinVersion = "_TLS_MIN_VERSION"
)

// ApplyEnv overlays environment variables onto c.
//
// Environment variables (prefix "RSMQCTL"):
//
//	RSMQCTL_TLS=true
//	RSMQCTL_TLS_CERT_FILE=/path/to/client.pem
//	RSMQCTL_TLS_KEY_FILE=/path/to/client-key.pem
//	RSMQCTL_TLS_CA_FILE=/path/to/ca.pem
//	RSMQCTL_TLS_SERVER_NAME=redis.internal
//	RSMQCTL_TLS_INSECURE_SKIP_VERIFY=true
//	RSMQCTL_TLS_MIN_VERSION=1.3
func (c *TLSConfig) ApplyEnv(prefix string, getenv func(string) string) error {
	if v := getenv(prefix + EnvTLSEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: invalid boolean %q", prefix, EnvTLSEnabled, v)
		}
		c.Enabled = enabled
	}
	if v := getenv(prefix + EnvTLSCertFile); v != "" {
		c.CertFile = v
	}
	if v := getenv(prefix + EnvTLSKeyFile); v != "" {
		c.KeyFile = v
	}
	if v := getenv(prefix + EnvTLSCAFile); v != "" {
		c.CAFile = v
	}
	if v := getenv(prefix + EnvTLSServerName); v != "" {
		c.ServerName = v
	}
	if v := getenv(prefix + EnvTLSInsecure); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: invalid boolean %q", prefix, EnvTLSInsecure, v)
		}
		c.InsecureSkipVerify = insecure
	}

	switch v := getenv(prefix + EnvTLSMinVersion); v {
	case "":
	case "1.2":
		c.MinVersion = tls.VersionTLS12
	case "1.3":
		c.MinVersion = tls.VersionTLS13
	default:
		return fmt.Errorf("%s%s: unsupported version %q (1.2 or 1.3)", prefix, EnvTLSMinVersion, v)
	}

	return nil
}
