package pool

import "errors"

var (
	// ErrNotRunning is returned by Submit when the pool has not been started
	// yet or has already been shut down.
	ErrNotRunning = errors.New("pool: not running")

	// ErrAlreadyStarted is returned by Start when called more than once.
	ErrAlreadyStarted = errors.New("pool: already started")

	// ErrInvalidConfig is returned by the configuration setters when given a
	// non-positive value.
	ErrInvalidConfig = errors.New("pool: invalid configuration value")

	// ErrTypeMismatch is returned by Value's typed extraction methods when the
	// requested kind disagrees with the kind the value was published with.
	ErrTypeMismatch = errors.New("pool: type mismatch")
)
