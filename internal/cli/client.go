// =============================================================================
// CLI CONNECTION - REDIS + RSMQ CLIENT SETUP
// =============================================================================
//
// WHAT IS THIS?
// Builds the single queue service handle every command shares. The handle is
// an rsmq.Client talking to one Redis server through go-redis.
//
// CONNECTION LIFECYCLE:
//
//   resolve settings ──► validate ──► redis.NewClient ──► rsmq.New
//                                          │
//                                          ▼
//                              first command dials lazily
//
// No PING is sent up front. A dead server surfaces as an error on the first
// queue call, where the verbose flag decides whether it is reported or read
// as "no result".
//
// =============================================================================

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keithsharp/rsmqctl/internal/config"
	"github.com/keithsharp/rsmqctl/internal/rsmq"
)

// QueueService is the set of queue operations rsmqctl needs. *rsmq.Client
// implements it.
type QueueService interface {
	ListQueues(ctx context.Context) ([]string, error)
	GetQueueAttributes(ctx context.Context, qname string) (*rsmq.QueueAttributes, error)
	CreateQueue(ctx context.Context, req rsmq.CreateQueueRequest) error
	SetQueueAttributes(ctx context.Context, req rsmq.SetQueueAttributesRequest) (*rsmq.QueueAttributes, error)
	DeleteQueue(ctx context.Context, qname string) error
	SendMessage(ctx context.Context, req rsmq.SendMessageRequest) (string, error)
	ReceiveMessage(ctx context.Context, req rsmq.ReceiveMessageRequest) (*rsmq.Message, error)
	PopMessage(ctx context.Context, qname string) (*rsmq.Message, error)
	DeleteMessage(ctx context.Context, qname, id string) (bool, error)
	ChangeMessageVisibility(ctx context.Context, qname, id string, vt int64) (bool, error)
}

var _ QueueService = (*rsmq.Client)(nil)

// Connect validates cfg and returns an RSMQ client for it.
func Connect(cfg config.ConnectionConfig, logger *slog.Logger) (*rsmq.Client, error) {
	v := &config.ConnectionValidator{}
	if err := v.Validate(cfg); err != nil {
		return nil, err
	}

	tlsConfig, err := cfg.TLS.NewTLSConfig()
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		TLSConfig:    tlsConfig,
		// One process, one command: a single connection is enough.
		PoolSize:   1,
		MaxRetries: -1,
	})

	logger.Debug("redis client created",
		"addr", cfg.Addr(),
		"db", cfg.DB,
		"namespace", cfg.Namespace,
		"tls", tlsConfig != nil,
	)

	return rsmq.New(rdb,
		rsmq.WithNamespace(cfg.Namespace),
		rsmq.WithRealtime(cfg.Realtime),
		rsmq.WithLogger(logger),
	), nil
}

// InfoClient is the part of a Redis client ServerVersion needs.
type InfoClient interface {
	Info(ctx context.Context, section ...string) *redis.StringCmd
}

// ServerVersion asks the Redis server for its version string.
func ServerVersion(ctx context.Context, rdb InfoClient) (string, error) {
	info, err := rdb.Info(ctx, "server").Result()
	if err != nil {
		return "", fmt.Errorf("redis info: %w", err)
	}
	if v := infoField(info, "redis_version"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("redis info: redis_version not reported")
}

// infoField returns the value of key in an INFO reply, or "".
func infoField(info, key string) string {
	for _, line := range strings.Split(info, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), ":")
		if ok && k == key {
			return v
		}
	}
	return ""
}

// CommandContext returns a context bounded by the configured timeout.
func CommandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Version is the rsmqctl release.
const Version = "v0.1.0"
