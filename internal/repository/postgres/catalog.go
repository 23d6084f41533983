package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/repository"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetLocation loads a stop and its buses in display order.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - stopCode: code of the stop to load.
//
// Returns:
//   - *domain.Location: the stop with its buses.
//   - error: repository.ErrNotFound if the stop does not exist.
func (r *CatalogRepo) GetLocation(ctx context.Context, stopCode string) (*domain.Location, error) {
	const op = "postgres.CatalogRepo.GetLocation"

	db := r.handle()

	var stopID int64
	var loc domain.Location
	if err := db.QueryRow(ctx,
		`SELECT id, name, area
		 FROM stops
		 WHERE code = $1`,
		stopCode,
	).Scan(&stopID, &loc.Name, &loc.Area); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT bus_id, number, name, eta_minutes, status, occupancy, rating::float8, route
		 FROM stop_buses
		 WHERE stop_id = $1
		 ORDER BY position`,
		stopID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	buses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Bus, error) {
		var b domain.Bus
		var status string
		err := row.Scan(&b.ID, &b.Number, &b.Name, &b.ETAMinutes, &status, &b.Occupancy, &b.Rating, &b.Route)
		b.Status = domain.BusStatus(status)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	loc.Buses = buses

	return &loc, nil
}

// UpsertStop creates or renames a stop and returns its ID.
func (r *CatalogRepo) UpsertStop(ctx context.Context, stopCode, name, area string) (int64, error) {
	const op = "postgres.CatalogRepo.UpsertStop"

	var id int64
	if err := r.handle().QueryRow(ctx,
		`INSERT INTO stops(code, name, area)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, area = EXCLUDED.area
		 RETURNING id`,
		stopCode, name, area,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return id, nil
}

// ReplaceBuses swaps the bus list of a stop. Callers should run it inside
// a transaction so readers never see a partial list.
//
// Returns:
//   - error: repository.ErrConflict if two buses share an ID.
func (r *CatalogRepo) ReplaceBuses(ctx context.Context, stopID int64, buses []domain.Bus) error {
	const op = "postgres.CatalogRepo.ReplaceBuses"

	db := r.handle()

	if _, err := db.Exec(ctx, `DELETE FROM stop_buses WHERE stop_id = $1`, stopID); err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	if len(buses) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, b := range buses {
		batch.Queue(
			`INSERT INTO stop_buses(stop_id, position, bus_id, number, name, eta_minutes, status, occupancy, rating, route)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			stopID, i, b.ID, b.Number, b.Name, b.ETAMinutes, string(b.Status), b.Occupancy, b.Rating, b.Route,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		err = translateDBErr(err)
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("%s: duplicate bus id: %w", op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
