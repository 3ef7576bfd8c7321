package rsmq

import "regexp"

const (
	MinVisibilityTimeout = 0
	MaxVisibilityTimeout = 9999999
	MinDelay             = 0
	MaxDelay             = 9999999
	MinMaxSize           = 1024
	MaxMaxSize           = 65536
	// UnlimitedMaxSize disables the message size check.
	UnlimitedMaxSize = -1
)

var (
	queueNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,160}$`)
	messageIDRe = regexp.MustCompile(`^[a-zA-Z0-9:]{32}$`)
)

func validateQueueName(qname string) error {
	if !queueNameRe.MatchString(qname) {
		return ErrInvalidQueueName
	}
	return nil
}

func validateMessageID(id string) error {
	if !messageIDRe.MatchString(id) {
		return ErrInvalidMessageID
	}
	return nil
}

func validateVisibilityTimeout(vt int64) error {
	return validateRange("vt", vt, MinVisibilityTimeout, MaxVisibilityTimeout)
}

func validateDelay(delay int64) error {
	return validateRange("delay", delay, MinDelay, MaxDelay)
}

func validateMaxSize(maxsize int64) error {
	if maxsize == UnlimitedMaxSize {
		return nil
	}
	return validateRange("maxsize", maxsize, MinMaxSize, MaxMaxSize)
}

func validateRange(field string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return &ValidationError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}
