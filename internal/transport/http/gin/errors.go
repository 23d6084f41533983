package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/service/booking"
	"github.com/kirinyoku/citybus/internal/service/location"
	"github.com/kirinyoku/citybus/internal/session"
)

func respondErr(c *gin.Context, err error) {
	respondErrView(c, err, session.View{})
}

// respondErrView maps service and flow errors to HTTP statuses. For refused
// flow events the body carries the screen the session stayed on.
func respondErrView(c *gin.Context, err error, view session.View) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	status, msg := http.StatusInternalServerError, "internal error"

	var rl booking.RateLimitedError

	switch {
	// booking service
	case errors.Is(err, booking.ErrSessionNotFound):
		status, msg = http.StatusNotFound, "session not found"
	case errors.As(err, &rl):
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
		status, msg = http.StatusTooManyRequests, "too many attempts"
	case errors.Is(err, booking.ErrIdempotencyInProgress):
		c.Header("Retry-After", "1")
		status, msg = http.StatusConflict, "idempotency key in progress"
	case errors.Is(err, booking.ErrNoTicket):
		status, msg = http.StatusConflict, "no confirmed booking"
	// flow
	case errors.Is(err, flow.ErrPhoneRequired),
		errors.Is(err, flow.ErrNameRequired),
		errors.Is(err, flow.ErrCodeRequired):
		status, msg = http.StatusBadRequest, unwrapAll(err).Error()
	case errors.Is(err, flow.ErrCodeRejected):
		status, msg = http.StatusUnauthorized, "verification code rejected"
	case errors.Is(err, flow.ErrUnknownBus):
		status, msg = http.StatusNotFound, "bus not found"
	case errors.Is(err, flow.ErrSeatUnavailable),
		errors.Is(err, flow.ErrNoSeatSelected),
		errors.Is(err, flow.ErrInvalidTransition):
		status, msg = http.StatusConflict, unwrapAll(err).Error()
	// location service
	case errors.Is(err, location.ErrStopNotFound):
		status, msg = http.StatusNotFound, "stop not found"
	case errors.Is(err, location.ErrInvalidCatalog):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		_ = c.Error(err)
	}

	c.JSON(status, ErrorResponse{Error: msg, Screen: string(view.Screen)})
}

// unwrapAll returns the innermost error so clients see the sentinel text
// without the op chain.
func unwrapAll(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
