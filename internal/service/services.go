package service

import (
	"log/slog"

	postgres "github.com/kirinyoku/citybus/internal/repository/postgres"
	redis "github.com/kirinyoku/citybus/internal/repository/redis"
	"github.com/kirinyoku/citybus/internal/service/booking"
	"github.com/kirinyoku/citybus/internal/service/location"
	"github.com/kirinyoku/citybus/internal/session"
)

type Services struct {
	Location *location.Service
	Booking  *booking.Service
	Sessions *session.Manager
}

type Config struct {
	Location location.Config
	Booking  booking.Config
	Sessions session.Options
}

// NewServices wires the services. Any store may be nil; the matching
// feature then falls back or switches off. The session manager reads its
// catalog through the location service.
func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	events *redis.TicketEvents,
	limiter *redis.SlidingWindowLimiter,
	idem *redis.IdempotencyStore,
	logger *slog.Logger,
	cfg Config,
) *Services {
	loc := location.New(store, cache, events, logger, cfg.Location)

	opts := cfg.Sessions
	opts.Source = loc
	if opts.Logger == nil {
		opts.Logger = logger
	}
	sessions := session.NewManager(opts)

	return &Services{
		Location: loc,
		Booking:  booking.New(sessions, limiter, idem, logger, cfg.Booking),
		Sessions: sessions,
	}
}
