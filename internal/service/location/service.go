package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/citybus/internal/catalog"
	"github.com/kirinyoku/citybus/internal/clock"
	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/repository"
	postgresrepo "github.com/kirinyoku/citybus/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/citybus/internal/repository/redis"
	"github.com/kirinyoku/citybus/internal/uow"
)

type Config struct {
	StopCode string
	CacheTTL time.Duration
}

// Service serves the stop revealed by discovery. Without a store it falls
// back to the built-in stop; without a cache every call hits the store.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	events *redisrepo.TicketEvents
	uow    *uow.UoW
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	events *redisrepo.TicketEvents,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.StopCode == "" {
		cfg.StopCode = catalog.DefaultStopCode
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		store:  store,
		cache:  cache,
		events: events,
		clock:  clock.Real(),
		logger: logger,
		cfg:    cfg,
	}

	if store != nil {
		s.uow = uow.NewUoW(store)
	}

	return s
}

var _ catalog.Source = (*Service)(nil)

// Location returns the configured stop with its buses.
//
// Returns:
//   - domain.Location: the stop in display order.
//   - error: location.ErrStopNotFound if the stop has not been seeded.
func (s *Service) Location(ctx context.Context) (domain.Location, error) {
	const op = "service.location.Location"

	if s.store == nil {
		return catalog.Default(), nil
	}

	load := func(ctx context.Context) (domain.Location, error) {
		loc, err := s.store.Catalog().GetLocation(ctx, s.cfg.StopCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Location{}, ErrStopNotFound
			}
			return domain.Location{}, err
		}
		return *loc, nil
	}

	var (
		loc domain.Location
		err error
	)
	if s.cache != nil {
		loc, err = redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyLocation(s.cfg.StopCode), s.cfg.CacheTTL, load)
	} else {
		loc, err = load(ctx)
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	return loc, nil
}

// Seed writes loc as the configured stop, replacing its bus list in one
// transaction. The cached copy is dropped and a catalog_seeded event is
// published once the transaction commits.
//
// Returns:
//   - error: location.ErrInvalidCatalog if loc breaks a bus constraint.
func (s *Service) Seed(ctx context.Context, loc domain.Location) error {
	const op = "service.location.Seed"

	if err := Validate(loc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.store == nil {
		return fmt.Errorf("%s: no store configured", op)
	}

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Catalog().With(tx)

		stopID, err := repo.UpsertStop(ctx, s.cfg.StopCode, loc.Name, loc.Area)
		if err != nil {
			return err
		}

		if err := repo.ReplaceBuses(ctx, stopID, loc.Buses); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			if s.cache != nil {
				if err := s.cache.InvalidateLocation(ctx, s.cfg.StopCode); err != nil {
					s.logger.Warn("catalog cache invalidation failed", slog.Any("error", err))
				}
			}
			if s.events != nil {
				if err := s.events.PublishCatalogSeeded(ctx, s.cfg.StopCode, s.clock.Now()); err != nil {
					s.logger.Warn("catalog event publish failed", slog.Any("error", err))
				}
			}
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("catalog seeded",
		slog.String("stop", s.cfg.StopCode),
		slog.Int("buses", len(loc.Buses)),
	)

	return nil
}

// Validate checks the bus constraints of a location.
func Validate(loc domain.Location) error {
	if loc.Name == "" {
		return fmt.Errorf("%w: stop name is empty", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(loc.Buses))
	for _, b := range loc.Buses {
		switch {
		case b.ID == "":
			return fmt.Errorf("%w: bus %q has no id", ErrInvalidCatalog, b.Number)
		case seen[b.ID]:
			return fmt.Errorf("%w: duplicate bus id %q", ErrInvalidCatalog, b.ID)
		case b.ETAMinutes < 0:
			return fmt.Errorf("%w: bus %s has negative eta", ErrInvalidCatalog, b.ID)
		case b.Occupancy < 0 || b.Occupancy > 100:
			return fmt.Errorf("%w: bus %s occupancy %d out of range", ErrInvalidCatalog, b.ID, b.Occupancy)
		case b.Rating < 0 || b.Rating > 5:
			return fmt.Errorf("%w: bus %s rating %.1f out of range", ErrInvalidCatalog, b.ID, b.Rating)
		}
		switch b.Status {
		case domain.StatusOnTime, domain.StatusDelayed, domain.StatusEarly:
		default:
			return fmt.Errorf("%w: bus %s has unknown status %q", ErrInvalidCatalog, b.ID, b.Status)
		}
		seen[b.ID] = true
	}

	return nil
}
