package rsmq

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SendMessage stores a message and returns its id. The message becomes
// receivable after the request delay, or the queue delay when none is given.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (string, error) {
	if err := validateQueueName(req.QName); err != nil {
		return "", err
	}
	if req.Delay != nil {
		if err := validateDelay(*req.Delay); err != nil {
			return "", err
		}
	}

	q, err := c.getQueue(ctx, req.QName)
	if err != nil {
		return "", err
	}

	delay := q.delay
	if req.Delay != nil {
		delay = *req.Delay
	}
	if q.maxsize != UnlimitedMaxSize && int64(len(req.Message)) > q.maxsize {
		return "", ErrMessageTooLong
	}

	id, err := newMessageID(q.now)
	if err != nil {
		return "", fmt.Errorf("send message to %s: %w", req.QName, err)
	}

	visibleAt := q.now.UnixMilli() + delay*1000
	key := c.messagesKey(req.QName)
	pipe := c.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, zMember(visibleAt, id))
	pipe.HSet(ctx, c.queueKey(req.QName), id, req.Message)
	pipe.HIncrBy(ctx, c.queueKey(req.QName), "totalsent", 1)
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("send message to %s: %w", req.QName, err)
	}

	if c.opt.Realtime {
		if err := c.rdb.Publish(ctx, c.realtimeChannel(req.QName), card.Val()).Err(); err != nil {
			c.opt.Logger.Debug("realtime publish failed", "queue", req.QName, "error", err)
		}
	}
	return id, nil
}

// ReceiveMessage returns the next visible message and hides it for vt
// seconds. It returns (nil, nil) when no message is visible.
func (c *Client) ReceiveMessage(ctx context.Context, req ReceiveMessageRequest) (*Message, error) {
	if err := validateQueueName(req.QName); err != nil {
		return nil, err
	}
	if req.VT != nil {
		if err := validateVisibilityTimeout(*req.VT); err != nil {
			return nil, err
		}
	}

	q, err := c.getQueue(ctx, req.QName)
	if err != nil {
		return nil, err
	}
	vt := q.vt
	if req.VT != nil {
		vt = *req.VT
	}

	nowMs := q.now.UnixMilli()
	res, err := receiveMessageScript.Run(ctx, c.rdb,
		[]string{c.messagesKey(req.QName), c.queueKey(req.QName)},
		nowMs, nowMs+vt*1000,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("receive message from %s: %w", req.QName, err)
	}
	return parseMessage(res)
}

// PopMessage receives the next visible message and deletes it in one step.
// It returns (nil, nil) when no message is visible.
func (c *Client) PopMessage(ctx context.Context, qname string) (*Message, error) {
	if err := validateQueueName(qname); err != nil {
		return nil, err
	}

	q, err := c.getQueue(ctx, qname)
	if err != nil {
		return nil, err
	}

	res, err := popMessageScript.Run(ctx, c.rdb,
		[]string{c.messagesKey(qname), c.queueKey(qname)},
		q.now.UnixMilli(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("pop message from %s: %w", qname, err)
	}
	return parseMessage(res)
}

// DeleteMessage removes message id from qname. It reports false when the
// message does not exist.
func (c *Client) DeleteMessage(ctx context.Context, qname, id string) (bool, error) {
	if err := validateQueueName(qname); err != nil {
		return false, err
	}
	if err := validateMessageID(id); err != nil {
		return false, err
	}

	key := c.queueKey(qname)
	pipe := c.rdb.TxPipeline()
	removed := pipe.ZRem(ctx, c.messagesKey(qname), id)
	fields := pipe.HDel(ctx, key, id, id+":rc", id+":fr")
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete message %s from %s: %w", id, qname, err)
	}
	return removed.Val() == 1 && fields.Val() > 0, nil
}

// ChangeMessageVisibility makes message id visible again vt seconds from
// now. It reports false when the message does not exist.
func (c *Client) ChangeMessageVisibility(ctx context.Context, qname, id string, vt int64) (bool, error) {
	if err := validateQueueName(qname); err != nil {
		return false, err
	}
	if err := validateMessageID(id); err != nil {
		return false, err
	}
	if err := validateVisibilityTimeout(vt); err != nil {
		return false, err
	}

	q, err := c.getQueue(ctx, qname)
	if err != nil {
		return false, err
	}

	changed, err := changeMessageVisibilityScript.Run(ctx, c.rdb,
		[]string{c.messagesKey(qname)},
		id, q.now.UnixMilli()+vt*1000,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("change visibility of %s in %s: %w", id, qname, err)
	}
	return changed == 1, nil
}

// parseMessage decodes the {id, body, rc, fr} reply of the receive scripts.
func parseMessage(res []interface{}) (*Message, error) {
	if len(res) == 0 {
		return nil, nil
	}
	if len(res) != 4 {
		return nil, fmt.Errorf("rsmq: unexpected script reply length %d", len(res))
	}

	id, _ := res[0].(string)
	body, _ := res[1].(string)
	rc, err := toInt64(res[2])
	if err != nil {
		return nil, fmt.Errorf("rsmq: receive count: %w", err)
	}
	fr, err := toInt64(res[3])
	if err != nil {
		return nil, fmt.Errorf("rsmq: first receive: %w", err)
	}

	return &Message{
		ID:      id,
		Message: body,
		RC:      rc,
		FR:      fr,
		Sent:    sentAt(id),
	}, nil
}

func zMember(score int64, member string) redis.Z {
	return redis.Z{Score: float64(score), Member: member}
}
