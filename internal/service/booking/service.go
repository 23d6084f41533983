package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
	redisrepo "github.com/kirinyoku/citybus/internal/repository/redis"
	"github.com/kirinyoku/citybus/internal/session"
)

const authScope = "auth"

type Config struct {
	// IdemLockTTL bounds how long a confirm request may hold its key.
	IdemLockTTL time.Duration
}

// Service drives sessions on behalf of remote clients. Rate limiting and
// idempotency are skipped when their Redis stores are nil.
type Service struct {
	sessions *session.Manager
	limiter  *redisrepo.SlidingWindowLimiter
	idem     *redisrepo.IdempotencyStore
	logger   *slog.Logger
	cfg      Config
}

func New(
	sessions *session.Manager,
	limiter *redisrepo.SlidingWindowLimiter,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.IdemLockTTL <= 0 {
		cfg.IdemLockTTL = 30 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		sessions: sessions,
		limiter:  limiter,
		idem:     idem,
		logger:   logger,
		cfg:      cfg,
	}
}

// StartSession opens a session on the login screen.
func (s *Service) StartSession(ctx context.Context) session.View {
	return s.sessions.Open().View()
}

func (s *Service) Session(ctx context.Context, sessionID string) (session.View, error) {
	const op = "service.booking.Session"

	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return session.View{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	return c.View(), nil
}

// EndSession closes a session and cancels its pending timers.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	const op = "service.booking.EndSession"

	if !s.sessions.Close(sessionID) {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	return nil
}

// SubmitCredentials moves the session to the code step.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sessionID: ID of the session.
//   - rlKey: client key for the auth rate limiter; empty skips the check.
//   - mode: login or signup; empty keeps the current mode.
//   - name: display name, required for signup.
//   - phone: phone number, always required.
//
// Returns:
//   - session.View: the session after the event.
//   - error: flow.ErrPhoneRequired or flow.ErrNameRequired on missing fields.
//   - error: booking.ErrRateLimited if the client exceeded the auth limit.
func (s *Service) SubmitCredentials(
	ctx context.Context,
	sessionID, rlKey string,
	mode domain.AuthMode,
	name, phone string,
) (session.View, error) {
	const op = "service.booking.SubmitCredentials"

	if err := s.allow(ctx, rlKey); err != nil {
		return session.View{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.dispatch(ctx, op, sessionID, flow.SubmitCredentials{Mode: mode, Name: name, Phone: phone})
}

func (s *Service) ToggleMode(ctx context.Context, sessionID string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.ToggleMode", sessionID, flow.ToggleMode{})
}

// SubmitCode completes authentication and starts location discovery.
//
// Returns:
//   - error: flow.ErrCodeRequired for an empty code.
//   - error: flow.ErrCodeRejected if the code policy refuses it.
//   - error: booking.ErrRateLimited if the client exceeded the auth limit.
func (s *Service) SubmitCode(ctx context.Context, sessionID, rlKey, code string) (session.View, error) {
	const op = "service.booking.SubmitCode"

	if err := s.allow(ctx, rlKey); err != nil {
		return session.View{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.dispatch(ctx, op, sessionID, flow.SubmitCode{Code: code})
}

func (s *Service) BackToCredentials(ctx context.Context, sessionID string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.BackToCredentials", sessionID, flow.BackToCredentials{})
}

func (s *Service) SearchBuses(ctx context.Context, sessionID, query string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.SearchBuses", sessionID, flow.SearchBuses{Query: query})
}

func (s *Service) SelectBus(ctx context.Context, sessionID, busID string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.SelectBus", sessionID, flow.SelectBus{BusID: busID})
}

func (s *Service) ToggleSeat(ctx context.Context, sessionID string, number int) (session.View, error) {
	return s.dispatch(ctx, "service.booking.ToggleSeat", sessionID, flow.ToggleSeat{Number: number})
}

func (s *Service) ConfirmSeat(ctx context.Context, sessionID string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.ConfirmSeat", sessionID, flow.ConfirmSeat{})
}

func (s *Service) Back(ctx context.Context, sessionID string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.Back", sessionID, flow.Back{})
}

// ConfirmBooking starts payment processing for the reviewed seat. A repeated
// call with the same idemKey does not dispatch again and returns the current
// view of the session. When the idempotency store is unreachable the call is
// dispatched without it.
//
// Returns:
//   - session.View: the session, normally on the processing screen.
//   - error: booking.ErrIdempotencyInProgress if the same key is being served.
func (s *Service) ConfirmBooking(ctx context.Context, sessionID, idemKey string) (session.View, error) {
	const op = "service.booking.ConfirmBooking"

	if s.idem == nil || idemKey == "" {
		return s.dispatch(ctx, op, sessionID, flow.ConfirmBooking{})
	}

	key := redisrepo.KeyIdemBooking(sessionID, idemKey)
	log := s.logger.With(slog.String("session_id", sessionID))

	_, found, err := s.idem.GetResult(ctx, key)
	if err != nil {
		log.Warn("idempotency store unavailable", slog.Any("error", err))
		return s.dispatch(ctx, op, sessionID, flow.ConfirmBooking{})
	}
	if found {
		log.Debug("idempotent replay")
		return s.Session(ctx, sessionID)
	}

	ok, err := s.idem.AcquireLock(ctx, key, s.cfg.IdemLockTTL)
	if err != nil {
		log.Warn("idempotency store unavailable", slog.Any("error", err))
		return s.dispatch(ctx, op, sessionID, flow.ConfirmBooking{})
	}
	if !ok {
		view, err := s.Session(ctx, sessionID)
		if err != nil {
			return view, err
		}
		return view, fmt.Errorf("%s: %w", op, ErrIdempotencyInProgress)
	}

	view, err := s.dispatch(ctx, op, sessionID, flow.ConfirmBooking{})
	if err != nil {
		if relErr := s.idem.Release(ctx, key); relErr != nil {
			log.Warn("releasing idempotency key", slog.Any("error", relErr))
		}
		return view, err
	}

	// The stored body only marks the key as served; replays read the live view.
	payload, err := json.Marshal(view)
	if err != nil {
		log.Warn("encoding idempotent result", slog.Any("error", err))
		payload = nil
	}
	if err := s.idem.SaveResult(ctx, key, string(payload)); err != nil {
		log.Warn("saving idempotent result", slog.Any("error", err))
	}

	return view, nil
}

// Ticket renders the digital ticket of the confirmed booking.
//
// Returns:
//   - error: booking.ErrNoTicket before the booking is confirmed.
func (s *Service) Ticket(ctx context.Context, sessionID string) (string, error) {
	const op = "service.booking.Ticket"

	b, err := s.confirmed(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return b.TicketText(), nil
}

// ShareText renders the short share message of the confirmed booking.
func (s *Service) ShareText(ctx context.Context, sessionID string) (string, error) {
	const op = "service.booking.ShareText"

	b, err := s.confirmed(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return b.ShareText(), nil
}

// ReturnHome restarts the session from the login screen.
func (s *Service) ReturnHome(ctx context.Context, sessionID string) (session.View, error) {
	return s.dispatch(ctx, "service.booking.ReturnHome", sessionID, flow.ReturnHome{})
}

func (s *Service) confirmed(ctx context.Context, sessionID string) (domain.Booking, error) {
	view, err := s.Session(ctx, sessionID)
	if err != nil {
		return domain.Booking{}, err
	}

	if view.Screen != flow.ScreenConfirmed || view.Booking == nil {
		return domain.Booking{}, ErrNoTicket
	}

	return *view.Booking, nil
}

func (s *Service) dispatch(ctx context.Context, op, sessionID string, ev flow.Event) (session.View, error) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return session.View{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	view, err := c.Dispatch(ctx, ev)
	if err != nil {
		if errors.Is(err, session.ErrClosed) {
			return session.View{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}
		return view, fmt.Errorf("%s: %w", op, err)
	}

	return view, nil
}

func (s *Service) allow(ctx context.Context, rlKey string) error {
	if s.limiter == nil || rlKey == "" {
		return nil
	}

	ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
	if err != nil {
		// a broken limiter must not lock users out
		s.logger.Warn("rate limiter unavailable", slog.Any("error", err))
		return nil
	}
	if !ok {
		return RateLimitedError{Scope: authScope, RetryAfter: retry}
	}

	return nil
}
