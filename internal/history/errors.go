package history

import "errors"

var (
	// ErrWindowMismatch is a precondition violation: the base and
	// feature commit windows do not share their oldest commit, so no
	// divergence point can be trusted. This indicates caller or window
	// misconfiguration and is never guessed around.
	ErrWindowMismatch = errors.New("base and feature windows do not share an oldest commit")

	// ErrDisconnectedHistory is a structural inconsistency: a feature
	// branch looks unmerged yet none of its commits has an ancestor link
	// into the base branch. It usually signals upstream data corruption
	// such as a truncated fetch window or a force-push.
	ErrDisconnectedHistory = errors.New("feature history disconnected from base")
)
