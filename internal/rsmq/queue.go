package rsmq

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ListQueues returns every queue name in the namespace, unordered.
func (c *Client) ListQueues(ctx context.Context) ([]string, error) {
	names, err := c.rdb.SMembers(ctx, c.queuesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	return names, nil
}

// CreateQueue creates qname with the given settings. It returns
// ErrQueueExists when the queue hash already carries a vt field.
func (c *Client) CreateQueue(ctx context.Context, req CreateQueueRequest) error {
	if err := validateQueueName(req.QName); err != nil {
		return err
	}
	if err := validateVisibilityTimeout(req.VT); err != nil {
		return err
	}
	if err := validateDelay(req.Delay); err != nil {
		return err
	}
	if err := validateMaxSize(req.MaxSize); err != nil {
		return err
	}

	now, err := c.rdb.Time(ctx).Result()
	if err != nil {
		return fmt.Errorf("create queue %s: %w", req.QName, err)
	}
	created := strconv.FormatInt(now.Unix(), 10)

	key := c.queueKey(req.QName)
	pipe := c.rdb.TxPipeline()
	vtSet := pipe.HSetNX(ctx, key, "vt", req.VT)
	pipe.HSetNX(ctx, key, "delay", req.Delay)
	pipe.HSetNX(ctx, key, "maxsize", req.MaxSize)
	pipe.HSetNX(ctx, key, "created", created)
	pipe.HSetNX(ctx, key, "modified", created)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create queue %s: %w", req.QName, err)
	}
	if !vtSet.Val() {
		return ErrQueueExists
	}

	if err := c.rdb.SAdd(ctx, c.queuesKey(), req.QName).Err(); err != nil {
		return fmt.Errorf("register queue %s: %w", req.QName, err)
	}
	return nil
}

// GetQueueAttributes returns the settings and counters of qname.
func (c *Client) GetQueueAttributes(ctx context.Context, qname string) (*QueueAttributes, error) {
	if err := validateQueueName(qname); err != nil {
		return nil, err
	}

	now, err := c.rdb.Time(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("queue attributes %s: %w", qname, err)
	}
	nowMs := strconv.FormatInt(now.UnixMilli(), 10)

	pipe := c.rdb.TxPipeline()
	fields := pipe.HMGet(ctx, c.queueKey(qname),
		"vt", "delay", "maxsize", "totalrecv", "totalsent", "created", "modified")
	msgs := pipe.ZCard(ctx, c.messagesKey(qname))
	hidden := pipe.ZCount(ctx, c.messagesKey(qname), nowMs, "+inf")
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("queue attributes %s: %w", qname, err)
	}

	vals := fields.Val()
	if len(vals) != 7 || vals[0] == nil {
		return nil, ErrQueueNotFound
	}

	ints := make([]int64, len(vals))
	for i, v := range vals {
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("queue attributes %s: %w", qname, err)
		}
		ints[i] = n
	}

	return &QueueAttributes{
		VT:         ints[0],
		Delay:      ints[1],
		MaxSize:    ints[2],
		TotalRecv:  ints[3],
		TotalSent:  ints[4],
		Created:    ints[5],
		Modified:   ints[6],
		Msgs:       msgs.Val(),
		HiddenMsgs: hidden.Val(),
	}, nil
}

// SetQueueAttributes updates the supplied settings of an existing queue and
// returns the resulting attributes.
func (c *Client) SetQueueAttributes(ctx context.Context, req SetQueueAttributesRequest) (*QueueAttributes, error) {
	if err := validateQueueName(req.QName); err != nil {
		return nil, err
	}
	if req.VT == nil && req.Delay == nil && req.MaxSize == nil {
		return nil, ErrNoAttributeSupplied
	}
	if req.VT != nil {
		if err := validateVisibilityTimeout(*req.VT); err != nil {
			return nil, err
		}
	}
	if req.Delay != nil {
		if err := validateDelay(*req.Delay); err != nil {
			return nil, err
		}
	}
	if req.MaxSize != nil {
		if err := validateMaxSize(*req.MaxSize); err != nil {
			return nil, err
		}
	}

	q, err := c.getQueue(ctx, req.QName)
	if err != nil {
		return nil, err
	}

	key := c.queueKey(req.QName)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "modified", q.now.Unix())
		if req.VT != nil {
			pipe.HSet(ctx, key, "vt", *req.VT)
		}
		if req.Delay != nil {
			pipe.HSet(ctx, key, "delay", *req.Delay)
		}
		if req.MaxSize != nil {
			pipe.HSet(ctx, key, "maxsize", *req.MaxSize)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set queue attributes %s: %w", req.QName, err)
	}

	return c.GetQueueAttributes(ctx, req.QName)
}

// DeleteQueue removes qname and all of its messages.
func (c *Client) DeleteQueue(ctx context.Context, qname string) error {
	if err := validateQueueName(qname); err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	deleted := pipe.Del(ctx, c.queueKey(qname))
	pipe.Del(ctx, c.messagesKey(qname))
	pipe.SRem(ctx, c.queuesKey(), qname)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete queue %s: %w", qname, err)
	}
	if deleted.Val() == 0 {
		return ErrQueueNotFound
	}
	return nil
}
