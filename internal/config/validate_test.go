package config

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// CONNECTION VALIDATION TESTS
// =============================================================================
//
// TEST STRATEGY: Table-driven tests
//   Each case starts from the defaults, breaks one or more settings and
//   lists substrings the accumulated error must contain.
// =============================================================================

func TestConnectionValidator_Validate(t *testing.T) {
	withDefaults := func(mutate func(*ConnectionConfig)) ConnectionConfig {
		cfg := DefaultConnectionConfig()
		mutate(&cfg)
		return cfg
	}

	tests := []struct {
		name        string
		config      ConnectionConfig
		wantErr     bool
		errContains []string
	}{
		{
			name:    "defaults",
			config:  DefaultConnectionConfig(),
			wantErr: false,
		},
		{
			name: "hostname and custom port",
			config: withDefaults(func(c *ConnectionConfig) {
				c.Host = "redis.internal.example.com"
				c.Port = 6380
				c.DB = 3
			}),
			wantErr: false,
		},
		{
			name:    "ipv6 host",
			config:  withDefaults(func(c *ConnectionConfig) { c.Host = "::1" }),
			wantErr: false,
		},
		{
			name: "tls client certificate without key",
			config: withDefaults(func(c *ConnectionConfig) {
				c.TLS.Enabled = true
				c.TLS.CertFile = "/etc/ssl/client.pem"
			}),
			wantErr:     true,
			errContains: []string{"certificate and key must be given together"},
		},
		{
			name:        "empty host",
			config:      withDefaults(func(c *ConnectionConfig) { c.Host = "" }),
			wantErr:     true,
			errContains: []string{"host: must not be empty"},
		},
		{
			name:        "host with port",
			config:      withDefaults(func(c *ConnectionConfig) { c.Host = "localhost:6379" }),
			wantErr:     true,
			errContains: []string{"must not include a port"},
		},
		{
			name:        "host with whitespace",
			config:      withDefaults(func(c *ConnectionConfig) { c.Host = "redis host" }),
			wantErr:     true,
			errContains: []string{"host: must not contain whitespace"},
		},
		{
			name:        "port zero",
			config:      withDefaults(func(c *ConnectionConfig) { c.Port = 0 }),
			wantErr:     true,
			errContains: []string{"port: must be between 1 and 65535, got 0"},
		},
		{
			name:        "port too large",
			config:      withDefaults(func(c *ConnectionConfig) { c.Port = 70000 }),
			wantErr:     true,
			errContains: []string{"got 70000"},
		},
		{
			name:        "negative db",
			config:      withDefaults(func(c *ConnectionConfig) { c.DB = -1 }),
			wantErr:     true,
			errContains: []string{"db: must be >= 0"},
		},
		{
			name:        "namespace with colon",
			config:      withDefaults(func(c *ConnectionConfig) { c.Namespace = "a:b" }),
			wantErr:     true,
			errContains: []string{"namespace"},
		},
		{
			name:        "zero timeout",
			config:      withDefaults(func(c *ConnectionConfig) { c.Timeout = 0 }),
			wantErr:     true,
			errContains: []string{"timeout: must be > 0"},
		},
		{
			name:    "valid pushgateway",
			config:  withDefaults(func(c *ConnectionConfig) { c.PushgatewayURL = "http://pushgateway:9091" }),
			wantErr: false,
		},
		{
			name:        "pushgateway without scheme",
			config:      withDefaults(func(c *ConnectionConfig) { c.PushgatewayURL = "pushgateway:9091" }),
			wantErr:     true,
			errContains: []string{"pushgateway"},
		},
		{
			name: "multiple errors at once",
			config: ConnectionConfig{
				Host:    "",
				Port:    -1,
				Timeout: time.Second,
			},
			wantErr:     true,
			errContains: []string{"host", "port", "namespace"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &ConnectionValidator{}
			err := v.Validate(tt.config)

			if tt.wantErr && err == nil {
				t.Errorf("expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error but got: %v", err)
				return
			}

			if err != nil {
				errMsg := err.Error()
				for _, want := range tt.errContains {
					if !strings.Contains(errMsg, want) {
						t.Errorf("error %q should contain %q", errMsg, want)
					}
				}

				if _, ok := err.(*ValidationError); !ok {
					t.Errorf("error should be *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestConnectionConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 6379, "127.0.0.1:6379"},
		{"redis", 6380, "redis:6380"},
		{"::1", 6379, "[::1]:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := ConnectionConfig{Host: tt.host, Port: tt.port}
			if got := cfg.Addr(); got != tt.want {
				t.Errorf("Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestValidationError_SingleError tests error formatting with one error.
func TestValidationError_SingleError(t *testing.T) {
	err := &ValidationError{Errors: []string{"host: must not be empty"}}
	msg := err.Error()
	expected := "configuration validation failed: host: must not be empty"
	if msg != expected {
		t.Errorf("got %q, want %q", msg, expected)
	}
}

// TestValidationError_MultipleErrors tests error formatting with multiple errors.
func TestValidationError_MultipleErrors(t *testing.T) {
	err := &ValidationError{Errors: []string{"error one", "error two"}}
	msg := err.Error()
	if !strings.Contains(msg, "1. error one") {
		t.Errorf("expected numbered format, got: %s", msg)
	}
	if !strings.Contains(msg, "2. error two") {
		t.Errorf("expected numbered format, got: %s", msg)
	}
}
