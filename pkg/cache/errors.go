package cache

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// Remote backends retry network failures this many times, doubling the delay
// from retryDelay. Tests shorten the delay.
var (
	retryAttempts = 3
	retryDelay    = 200 * time.Millisecond
)
