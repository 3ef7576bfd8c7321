package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.CurrentContext)
	ctx, err := cfg.GetCurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ctx.Host)
	assert.Equal(t, 6379, ctx.Port)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.SetContext("prod", &ContextConfig{Host: "redis.prod", Port: 6380, DB: 2, Password: "s3cret", Namespace: "jobs"})
	require.NoError(t, cfg.UseContext("prod"))
	require.NoError(t, cfg.SaveToPath(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", loaded.CurrentContext)
	assert.Equal(t, []string{"local", "prod"}, loaded.ListContexts())
	assert.Equal(t, cfg.Contexts["prod"], loaded.Contexts["prod"])
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contexts: [not, a, map"), 0600))

	_, err := LoadConfigFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_ContextOperations(t *testing.T) {
	cfg := DefaultConfig()

	require.Error(t, cfg.UseContext("missing"))
	require.Error(t, cfg.DeleteContext("missing"))

	_, err := cfg.GetContext("missing")
	require.Error(t, err)

	require.NoError(t, cfg.DeleteContext("local"))
	assert.Empty(t, cfg.CurrentContext)

	_, err = cfg.GetCurrentContext()
	require.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	env := envMap(map[string]string{EnvConfig: "/etc/rsmqctl.yaml"})

	assert.Equal(t, "/tmp/flag.yaml", ResolveConfigPath("/tmp/flag.yaml", env))
	assert.Equal(t, "/etc/rsmqctl.yaml", ResolveConfigPath("", env))
	assert.Equal(t, DefaultConfigPath(), ResolveConfigPath("", envMap(nil)))
}

func TestResolveConnection_Precedence(t *testing.T) {
	cfg := &Config{
		CurrentContext: "prod",
		Contexts: map[string]*ContextConfig{
			"prod": {Host: "config-host", Port: 7000, DB: 3, Namespace: "cfg", Timeout: 10},
		},
	}

	t.Run("defaults", func(t *testing.T) {
		conn, err := ResolveConnection(Overrides{}, nil, envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", conn.Host)
		assert.Equal(t, 6379, conn.Port)
		assert.Equal(t, "rsmq", conn.Namespace)
		assert.Equal(t, 30*time.Second, conn.Timeout)
	})

	t.Run("config", func(t *testing.T) {
		conn, err := ResolveConnection(Overrides{}, cfg, envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, "config-host", conn.Host)
		assert.Equal(t, 7000, conn.Port)
		assert.Equal(t, 3, conn.DB)
		assert.Equal(t, "cfg", conn.Namespace)
		assert.Equal(t, 10*time.Second, conn.Timeout)
	})

	t.Run("env over config", func(t *testing.T) {
		env := envMap(map[string]string{
			EnvHost:        "env-host",
			EnvPort:        "7001",
			EnvNamespace:   "env",
			EnvTimeout:     "5",
			EnvPushgateway: "http://pushgateway:9091",
		})
		conn, err := ResolveConnection(Overrides{}, cfg, env)
		require.NoError(t, err)
		assert.Equal(t, "env-host", conn.Host)
		assert.Equal(t, 7001, conn.Port)
		assert.Equal(t, 3, conn.DB)
		assert.Equal(t, "env", conn.Namespace)
		assert.Equal(t, 5*time.Second, conn.Timeout)
		assert.Equal(t, "http://pushgateway:9091", conn.PushgatewayURL)
	})

	t.Run("flags over env", func(t *testing.T) {
		host, port, ns := "flag-host", 7002, "flag"
		env := envMap(map[string]string{EnvHost: "env-host", EnvPort: "7001"})
		conn, err := ResolveConnection(Overrides{Host: &host, Port: &port, Namespace: &ns, Realtime: true}, cfg, env)
		require.NoError(t, err)
		assert.Equal(t, "flag-host", conn.Host)
		assert.Equal(t, 7002, conn.Port)
		assert.Equal(t, "flag", conn.Namespace)
		assert.True(t, conn.Realtime)
	})

	t.Run("tls layers", func(t *testing.T) {
		withTLS := &Config{
			CurrentContext: "secure",
			Contexts: map[string]*ContextConfig{
				"secure": {Host: "redis.internal", TLS: &ContextTLS{Enabled: true, CAFile: "/cfg/ca.pem"}},
			},
		}
		env := envMap(map[string]string{"RSMQCTL_TLS_SERVER_NAME": "redis.env"})
		ca := "/flag/ca.pem"
		conn, err := ResolveConnection(Overrides{TLSCAFile: &ca}, withTLS, env)
		require.NoError(t, err)
		assert.True(t, conn.TLS.Enabled)
		assert.Equal(t, "/flag/ca.pem", conn.TLS.CAFile)
		assert.Equal(t, "redis.env", conn.TLS.ServerName)

		off := false
		conn, err = ResolveConnection(Overrides{TLS: &off}, withTLS, envMap(nil))
		require.NoError(t, err)
		assert.False(t, conn.TLS.Enabled)
	})

	t.Run("bad env", func(t *testing.T) {
		_, err := ResolveConnection(Overrides{}, cfg, envMap(map[string]string{EnvPort: "abc"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvPort)
	})
}
