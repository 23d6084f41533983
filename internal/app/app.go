package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/citybus/internal/catalog"
	"github.com/kirinyoku/citybus/internal/config"
	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/metrics"
	"github.com/kirinyoku/citybus/internal/postgres"
	"github.com/kirinyoku/citybus/internal/redis"
	postgresrepo "github.com/kirinyoku/citybus/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/citybus/internal/repository/redis"
	"github.com/kirinyoku/citybus/internal/service"
	"github.com/kirinyoku/citybus/internal/session"
	httpgin "github.com/kirinyoku/citybus/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	services   *service.Services
	events     *redisrepo.TicketEvents
	metrics    *metrics.Metrics

	pool *pgxpool.Pool
	rdb  *goredis.Client
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()
	a := &App{cfg: cfg, logger: logger, metrics: metrics.New()}

	// Initialize dependencies
	var store *postgresrepo.Store
	if pgCfg := postgresConfig(cfg.Postgres); pgCfg.Enabled() {
		pool, err := postgres.New(ctx, pgCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		a.pool = pool
		store = postgresrepo.NewStore(pool)
	} else {
		logger.Info("postgres not configured, serving the built-in stop")
	}

	var (
		cache   *redisrepo.Cache
		limiter *redisrepo.SlidingWindowLimiter
		idem    *redisrepo.IdempotencyStore
	)
	if rCfg := (redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); rCfg.Enabled() {
		rdb, err := redis.New(ctx, rCfg)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.rdb = rdb
		cache = redisrepo.New(rdb)
		a.events = redisrepo.NewTicketEvents(rdb)
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, redisrepo.KeyRateLimit("auth"), cfg.Redis.AuthRateLimit, time.Minute)
		idem = redisrepo.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	} else {
		logger.Info("redis not configured, cache, rate limit and ticket events are off")
	}

	// Initialize services
	a.services = service.NewServices(store, cache, a.events, limiter, idem, logger, service.Config{
		Sessions: session.Options{
			Env:    cfg.Flow.Env(),
			TTL:    cfg.Flow.SessionTTL,
			Hooks:  a.sessionHooks(),
			Logger: logger,
		},
	})
	a.metrics.TrackSessions(a.services.Sessions.Len)

	if cfg.Postgres.Seed && store != nil {
		if err := a.services.Location.Seed(ctx, catalog.Default()); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// Initialize Gin router
	router := httpgin.NewRouter(a.services, a.metrics, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Idle session eviction
	g.Go(func() error {
		return a.services.Sessions.Run(gCtx)
	})

	// Ticket event subscriber
	if a.events != nil {
		g.Go(func() error {
			err := a.events.Subscribe(gCtx, a.onTicketEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) sessionHooks() session.Hooks {
	return session.Hooks{
		OnTransition: func(_ string, from, to flow.Screen, _ string) {
			a.metrics.ObserveTransition(string(from), string(to))
		},
		OnBooking: func(ctx context.Context, sessionID string, b domain.Booking) {
			a.metrics.ObserveBooking(b.Bus.Number)
			if a.events == nil {
				return
			}
			if err := a.events.PublishBookingConfirmed(ctx, sessionID, b); err != nil {
				a.logger.Warn("ticket event publish failed",
					slog.String("booking_id", b.ID),
					slog.Any("error", err),
				)
			}
		},
	}
}

func (a *App) onTicketEvent(_ context.Context, ev redisrepo.TicketEvent) {
	a.metrics.ObserveTicketEvent(ev.Type)

	attrs := []any{slog.String("type", ev.Type)}
	switch ev.Type {
	case redisrepo.TicketBookingConfirmed:
		attrs = append(attrs,
			slog.String("booking_id", ev.BookingID),
			slog.String("bus", ev.BusNumber),
			slog.Int("seat", ev.Seat),
		)
	case redisrepo.TicketCatalogSeeded:
		attrs = append(attrs, slog.String("stop", ev.StopCode))
	}

	a.logger.Info("ticket event", attrs...)
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

func postgresConfig(c config.PostgresConfig) postgres.Config {
	return postgres.Config{
		Host:     c.Host,
		Port:     strconv.Itoa(c.Port),
		User:     c.User,
		Password: c.Password,
		DB:       c.Name,
		SSLMode:  c.SSLMode,
	}
}
