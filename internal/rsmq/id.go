package rsmq

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	idAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idRandomLength = 22
	idTimeLength   = 10
)

// newMessageID builds a 32 character id: the Redis server time in
// microseconds as base36 followed by 22 random alphanumerics.
func newMessageID(now time.Time) (string, error) {
	ts := strconv.FormatInt(now.UnixMicro(), 36)
	for len(ts) < idTimeLength {
		ts = "0" + ts
	}

	b := make([]byte, idRandomLength)
	alphabetLen := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return ts + string(b), nil
}

// sentAt decodes the millisecond send time embedded in a message id.
func sentAt(id string) int64 {
	if len(id) < idTimeLength {
		return 0
	}
	micros, err := strconv.ParseInt(id[:idTimeLength], 36, 64)
	if err != nil {
		return 0
	}
	return micros / 1000
}
