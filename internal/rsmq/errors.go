package rsmq

import (
	"errors"
	"fmt"
)

var (
	ErrQueueNotFound       = errors.New("rsmq: queue not found")
	ErrQueueExists         = errors.New("rsmq: queue exists")
	ErrMessageTooLong      = errors.New("rsmq: message too long")
	ErrInvalidQueueName    = errors.New("rsmq: invalid queue name")
	ErrInvalidMessageID    = errors.New("rsmq: invalid message id")
	ErrNoAttributeSupplied = errors.New("rsmq: no attribute supplied")
)

// ValidationError reports a numeric argument outside the range the queue
// layout accepts.
type ValidationError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (e *ValidationError) Error() string {
	if e.Field == "maxsize" {
		return fmt.Sprintf("rsmq: %s must be between %d and %d or -1, got %d", e.Field, e.Min, e.Max, e.Value)
	}
	return fmt.Sprintf("rsmq: %s must be between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}
