package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrRateLimited           = errors.New("too many attempts")
	ErrIdempotencyInProgress = errors.New("request with this idempotency key is in progress")
	ErrNoTicket              = errors.New("no confirmed booking in this session")
)

type RateLimitedError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %s", e.Scope, e.RetryAfter)
}

func (e RateLimitedError) Is(target error) bool { return target == ErrRateLimited }
