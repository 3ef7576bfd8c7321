package cli

import "errors"

// ErrFailure is returned by handlers after they printed a "No such queue"
// or "Failed to ..." line. The process exits 1 without printing it again.
var ErrFailure = errors.New("command failed")

// IsSilent reports whether err was already reported to the user.
func IsSilent(err error) bool {
	return errors.Is(err, ErrFailure)
}
