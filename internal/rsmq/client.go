package rsmq

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	rdb redis.UniversalClient
	opt Options
}

func New(rdb redis.UniversalClient, opts ...Option) *Client {
	opt := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&opt)
		}
	}
	if opt.Namespace == "" {
		opt.Namespace = DefaultNamespace
	}
	if opt.Logger == nil {
		opt.Logger = defaultOptions().Logger
	}
	return &Client{rdb: rdb, opt: opt}
}

func (c *Client) Namespace() string { return c.opt.Namespace }

// Redis exposes the underlying connection for callers that need server
// information outside the queue layout.
func (c *Client) Redis() redis.UniversalClient { return c.rdb }

func (c *Client) Close() error { return c.rdb.Close() }

func (c *Client) queuesKey() string {
	return c.opt.Namespace + ":QUEUES"
}

func (c *Client) messagesKey(qname string) string {
	return c.opt.Namespace + ":" + qname
}

func (c *Client) queueKey(qname string) string {
	return c.opt.Namespace + ":" + qname + ":Q"
}

func (c *Client) realtimeChannel(qname string) string {
	return c.opt.Namespace + ":rt:" + qname
}

// queueSettings is the subset of attributes needed to send or receive.
type queueSettings struct {
	vt      int64
	delay   int64
	maxsize int64
	now     time.Time
}

// getQueue loads the queue settings together with the Redis server time.
func (c *Client) getQueue(ctx context.Context, qname string) (*queueSettings, error) {
	pipe := c.rdb.TxPipeline()
	attrs := pipe.HMGet(ctx, c.queueKey(qname), "vt", "delay", "maxsize")
	now := pipe.Time(ctx)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load queue %s: %w", qname, err)
	}

	vals := attrs.Val()
	if len(vals) != 3 || vals[0] == nil {
		return nil, ErrQueueNotFound
	}

	q := &queueSettings{now: now.Val()}
	var err error
	if q.vt, err = toInt64(vals[0]); err != nil {
		return nil, fmt.Errorf("queue %s vt: %w", qname, err)
	}
	if q.delay, err = toInt64(vals[1]); err != nil {
		return nil, fmt.Errorf("queue %s delay: %w", qname, err)
	}
	if q.maxsize, err = toInt64(vals[2]); err != nil {
		return nil, fmt.Errorf("queue %s maxsize: %w", qname, err)
	}
	return q, nil
}

// toInt64 converts a reply value that may arrive as a string, an integer or nil.
func toInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case string:
		if t == "" {
			return 0, nil
		}
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected reply type %T", v)
	}
}
