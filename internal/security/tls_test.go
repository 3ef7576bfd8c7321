package security

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// certFiles is a self-signed certificate written to disk.
type certFiles struct {
	certFile string
	keyFile  string
	pair     tls.Certificate
}

// writeSelfSignedCert creates a self-signed certificate valid for localhost
// and 127.0.0.1. It doubles as its own CA.
func writeSelfSignedCert(t *testing.T) certFiles {
	t.Helper()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{Organization: []string{"rsmqctl test"}, CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	keyDER, err := x509.MarshalECPrivateKey(privateKey)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	dir := t.TempDir()
	files := certFiles{
		certFile: filepath.Join(dir, "cert.pem"),
		keyFile:  filepath.Join(dir, "key.pem"),
	}
	require.NoError(t, os.WriteFile(files.certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(files.keyFile, keyPEM, 0o600))

	files.pair, err = tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)
	return files
}

func TestNewTLSConfig_Disabled(t *testing.T) {
	cfg := DefaultTLSConfig()

	tlsConfig, err := cfg.NewTLSConfig()
	require.NoError(t, err)
	assert.Nil(t, tlsConfig)
}

func TestNewTLSConfig_Files(t *testing.T) {
	files := writeSelfSignedCert(t)

	cfg := TLSConfig{
		Enabled:    true,
		CAFile:     files.certFile,
		CertFile:   files.certFile,
		KeyFile:    files.keyFile,
		ServerName: "redis.internal",
	}

	tlsConfig, err := cfg.NewTLSConfig()
	require.NoError(t, err)
	require.NotNil(t, tlsConfig)
	assert.Equal(t, uint16(tls.VersionTLS12), tlsConfig.MinVersion)
	assert.Len(t, tlsConfig.Certificates, 1)
	assert.NotNil(t, tlsConfig.RootCAs)
	assert.Equal(t, "redis.internal", tlsConfig.ServerName)
	assert.False(t, tlsConfig.InsecureSkipVerify)
}

func TestNewTLSConfig_MinVersionFloor(t *testing.T) {
	cfg := TLSConfig{Enabled: true, MinVersion: tls.VersionTLS10}
	tlsConfig, err := cfg.NewTLSConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), tlsConfig.MinVersion)

	cfg.MinVersion = tls.VersionTLS13
	tlsConfig, err = cfg.NewTLSConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS13), tlsConfig.MinVersion)
}

func TestNewTLSConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	tests := []struct {
		name    string
		cfg     TLSConfig
		wantErr string
	}{
		{"missing CA", TLSConfig{Enabled: true, CAFile: filepath.Join(dir, "nope.pem")}, "failed to read CA cert"},
		{"bad CA", TLSConfig{Enabled: true, CAFile: garbage}, "failed to parse CA cert"},
		{"bad keypair", TLSConfig{Enabled: true, CertFile: garbage, KeyFile: garbage}, "failed to load client certificate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.NewTLSConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TLSConfig
		wantErr int
	}{
		{"disabled default", DefaultTLSConfig(), 0},
		{"enabled", TLSConfig{Enabled: true}, 0},
		{"cert without key", TLSConfig{Enabled: true, CertFile: "c.pem"}, 1},
		{"ca without tls", TLSConfig{CAFile: "ca.pem"}, 1},
		{"both", TLSConfig{KeyFile: "k.pem", InsecureSkipVerify: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.cfg.Validate(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RSMQCTL_TLS":                      "true",
		"RSMQCTL_TLS_CA_FILE":              "/etc/ssl/ca.pem",
		"RSMQCTL_TLS_SERVER_NAME":          "redis.internal",
		"RSMQCTL_TLS_INSECURE_SKIP_VERIFY": "1",
		"RSMQCTL_TLS_MIN_VERSION":          "1.3",
	}

	cfg := DefaultTLSConfig()
	require.NoError(t, cfg.ApplyEnv("RSMQCTL", func(k string) string { return env[k] }))

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "/etc/ssl/ca.pem", cfg.CAFile)
	assert.Equal(t, "redis.internal", cfg.ServerName)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)

	env["RSMQCTL_TLS"] = "maybe"
	assert.Error(t, cfg.ApplyEnv("RSMQCTL", func(k string) string { return env[k] }))
}

func TestTLSConnection(t *testing.T) {
	files := writeSelfSignedCert(t)

	s, err := miniredis.RunTLS(&tls.Config{
		Certificates: []tls.Certificate{files.pair},
		MinVersion:   tls.VersionTLS12,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	cfg := TLSConfig{Enabled: true, CAFile: files.certFile, ServerName: "localhost"}
	tlsConfig, err := cfg.NewTLSConfig()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr(), TLSConfig: tlsConfig})
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Ping(context.Background()).Err())

	// Without the CA the self-signed server is rejected
	plain := redis.NewClient(&redis.Options{
		Addr:       s.Addr(),
		TLSConfig:  &tls.Config{MinVersion: tls.VersionTLS12, ServerName: "localhost"},
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = plain.Close() })
	assert.Error(t, plain.Ping(context.Background()).Err())
}
