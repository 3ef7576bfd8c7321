// =============================================================================
// CLI CONFIGURATION - CONFIG FILE AND CONTEXT MANAGEMENT
// =============================================================================
//
// WHAT IS THIS?
// Configuration management for rsmqctl, supporting:
//   - Multiple Redis contexts (like kubectl contexts)
//   - Config file (~/.rsmqctl/config.yaml)
//   - Environment variable overrides
//   - Command-line flag overrides
//
// CONFIGURATION PRECEDENCE (highest to lowest):
//   1. Command-line flags (--host, --port, --ns, ...)
//   2. Environment variables (RSMQCTL_HOST, RSMQCTL_PORT, ...)
//   3. Config file (current-context determines the active Redis)
//   4. Default values (127.0.0.1:6379, namespace "rsmq")
//
// CONFIG FILE FORMAT (~/.rsmqctl/config.yaml):
//
//   current-context: production
//   contexts:
//     local:
//       host: 127.0.0.1
//       port: 6379
//     production:
//       host: redis.prod.example.com
//       port: 6380
//       db: 2
//       password: s3cret
//       namespace: jobs
//       timeout: 10
//       tls:
//         enabled: true
//         ca-file: /etc/ssl/redis-ca.pem
//
// =============================================================================

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keithsharp/rsmqctl/internal/config"
	"github.com/keithsharp/rsmqctl/internal/security"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config represents the CLI configuration file.
type Config struct {
	// CurrentContext is the name of the active context
	CurrentContext string `yaml:"current-context" json:"current-context"`

	// Contexts maps context names to their configurations
	Contexts map[string]*ContextConfig `yaml:"contexts" json:"contexts"`
}

// ContextConfig contains the connection settings of a single Redis.
// Zero values mean "not set" and fall through to the defaults.
type ContextConfig struct {
	Host      string `yaml:"host,omitempty" json:"host,omitempty"`
	Port      int    `yaml:"port,omitempty" json:"port,omitempty"`
	DB        int    `yaml:"db,omitempty" json:"db,omitempty"`
	Password  string `yaml:"password,omitempty" json:"password,omitempty"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	// Timeout in seconds (optional, default 30)
	Timeout int `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// TLS settings (optional)
	TLS *ContextTLS `yaml:"tls,omitempty" json:"tls,omitempty"`
}

// ContextTLS is the TLS part of a context.
type ContextTLS struct {
	Enabled            bool   `yaml:"enabled" json:"enabled"`
	CAFile             string `yaml:"ca-file,omitempty" json:"ca-file,omitempty"`
	CertFile           string `yaml:"cert-file,omitempty" json:"cert-file,omitempty"`
	KeyFile            string `yaml:"key-file,omitempty" json:"key-file,omitempty"`
	ServerName         string `yaml:"server-name,omitempty" json:"server-name,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty" json:"insecure-skip-verify,omitempty"`
}

// =============================================================================
// DEFAULT PATHS
// =============================================================================

// DefaultConfigDir returns the default config directory (~/.rsmqctl).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rsmqctl"
	}
	return filepath.Join(home, ".rsmqctl")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// ResolveConfigPath picks the config file: flag > RSMQCTL_CONFIG > default.
// getenv is os.Getenv outside tests.
func ResolveConfigPath(flagValue string, getenv func(string) string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := getenv(EnvConfig); env != "" {
		return env
	}
	return DefaultConfigPath()
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadConfigFromPath loads configuration from a specific path.
func LoadConfigFromPath(path string) (*Config, error) {
	// Missing file means defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*ContextConfig)
	}

	return &cfg, nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		CurrentContext: "local",
		Contexts: map[string]*ContextConfig{
			"local": {
				Host:    config.DefaultHost,
				Port:    config.DefaultPort,
				Timeout: int(config.DefaultTimeout / time.Second),
			},
		},
	}
}

// =============================================================================
// CONFIGURATION SAVING
// =============================================================================

// SaveToPath saves the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Restricted permissions: contexts may carry passwords
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// CONTEXT OPERATIONS
// =============================================================================

// GetCurrentContext returns the current context configuration.
func (c *Config) GetCurrentContext() (*ContextConfig, error) {
	if c.CurrentContext == "" {
		return nil, errors.New("no current context set")
	}

	ctx, ok := c.Contexts[c.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("context %q not found", c.CurrentContext)
	}

	return ctx, nil
}

// GetContext returns a specific context by name.
func (c *Config) GetContext(name string) (*ContextConfig, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// SetContext sets or updates a context.
func (c *Config) SetContext(name string, ctx *ContextConfig) {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*ContextConfig)
	}
	c.Contexts[name] = ctx
}

// DeleteContext removes a context.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}

	delete(c.Contexts, name)

	if c.CurrentContext == name {
		c.CurrentContext = ""
	}

	return nil
}

// UseContext sets the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return nil
}

// ListContexts returns all context names, sorted.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// ENVIRONMENT VARIABLE OVERRIDES
// =============================================================================

// Environment variable names
const (
	EnvConfig      = "RSMQCTL_CONFIG"
	EnvContext     = "RSMQCTL_CONTEXT"
	EnvHost        = "RSMQCTL_HOST"
	EnvPort        = "RSMQCTL_PORT"
	EnvDB          = "RSMQCTL_DB"
	EnvPassword    = "RSMQCTL_PASSWORD"
	EnvNamespace   = "RSMQCTL_NAMESPACE"
	EnvTimeout     = "RSMQCTL_TIMEOUT"
	EnvPushgateway = "RSMQCTL_PUSHGATEWAY"

	// EnvPrefix prefixes the RSMQCTL_TLS_* variables
	EnvPrefix = "RSMQCTL"
)

// Overrides carries the settings given explicitly on the command line.
// A nil field was not set.
type Overrides struct {
	Host        *string
	Port        *int
	DB          *int
	Password    *string
	Namespace   *string
	Timeout     *time.Duration
	Pushgateway *string
	Realtime    bool

	TLS           *bool
	TLSCertFile   *string
	TLSKeyFile    *string
	TLSCAFile     *string
	TLSServerName *string
	TLSSkipVerify *bool
}

// ResolveConnection determines the connection settings with proper precedence.
// Precedence: flag > env > config > default. getenv is os.Getenv outside tests.
func ResolveConnection(o Overrides, cfg *Config, getenv func(string) string) (config.ConnectionConfig, error) {
	res := config.DefaultConnectionConfig()
	res.Realtime = o.Realtime

	// Config file
	if cfg != nil {
		if ctx, err := cfg.GetCurrentContext(); err == nil {
			if ctx.Host != "" {
				res.Host = ctx.Host
			}
			if ctx.Port != 0 {
				res.Port = ctx.Port
			}
			res.DB = ctx.DB
			res.Password = ctx.Password
			if ctx.Namespace != "" {
				res.Namespace = ctx.Namespace
			}
			if ctx.Timeout > 0 {
				res.Timeout = time.Duration(ctx.Timeout) * time.Second
			}
			if t := ctx.TLS; t != nil {
				res.TLS.Enabled = t.Enabled
				res.TLS.CAFile = t.CAFile
				res.TLS.CertFile = t.CertFile
				res.TLS.KeyFile = t.KeyFile
				res.TLS.ServerName = t.ServerName
				res.TLS.InsecureSkipVerify = t.InsecureSkipVerify
			}
		}
	}

	// Environment variables next
	if v := getenv(EnvHost); v != "" {
		res.Host = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return res, fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		res.Port = port
	}
	if v := getenv(EnvDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return res, fmt.Errorf("%s: invalid db %q", EnvDB, v)
		}
		res.DB = db
	}
	if v := getenv(EnvPassword); v != "" {
		res.Password = v
	}
	if v := getenv(EnvNamespace); v != "" {
		res.Namespace = v
	}
	if v := getenv(EnvTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return res, fmt.Errorf("%s: invalid timeout %q", EnvTimeout, v)
		}
		res.Timeout = time.Duration(secs) * time.Second
	}
	if v := getenv(EnvPushgateway); v != "" {
		res.PushgatewayURL = v
	}
	if err := res.TLS.ApplyEnv(EnvPrefix, getenv); err != nil {
		return res, err
	}

	// Flags take highest precedence
	if o.Host != nil {
		res.Host = *o.Host
	}
	if o.Port != nil {
		res.Port = *o.Port
	}
	if o.DB != nil {
		res.DB = *o.DB
	}
	if o.Password != nil {
		res.Password = *o.Password
	}
	if o.Namespace != nil {
		res.Namespace = *o.Namespace
	}
	if o.Timeout != nil {
		res.Timeout = *o.Timeout
	}
	if o.Pushgateway != nil {
		res.PushgatewayURL = *o.Pushgateway
	}
	applyTLSOverrides(&res.TLS, o)

	return res, nil
}

func applyTLSOverrides(t *security.TLSConfig, o Overrides) {
	if o.TLS != nil {
		t.Enabled = *o.TLS
	}
	if o.TLSCertFile != nil {
		t.CertFile = *o.TLSCertFile
	}
	if o.TLSKeyFile != nil {
		t.KeyFile = *o.TLSKeyFile
	}
	if o.TLSCAFile != nil {
		t.CAFile = *o.TLSCAFile
	}
	if o.TLSServerName != nil {
		t.ServerName = *o.TLSServerName
	}
	if o.TLSSkipVerify != nil {
		t.InsecureSkipVerify = *o.TLSSkipVerify
	}
}
