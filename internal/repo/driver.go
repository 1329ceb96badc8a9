package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var driverColumns = []string{
	"id", "user_id", "driver_name", "current_lat", "current_lng",
	"status", "work_status", "battery_level", "updated_at",
}

type driverRepo struct {
	postgresRepo
}

func NewDriverRepo(db *sqlx.DB) *driverRepo {
	return &driverRepo{newBase(db)}
}

// EnsureDriver creates the registry record for an identity unless one
// already exists, then returns the current record. The deliveries table
// carries a uniqueness constraint on user_id, so racing creators converge
// on a single row and the insert is idempotent.
func (r *driverRepo) EnsureDriver(ctx context.Context, userID, name string, lat, lng float64) (entities.Driver, error) {
	query, args := r.qb.Insert("deliveries").
		Columns("id", "user_id", "driver_name", "current_lat", "current_lng", "status", "work_status", "updated_at").
		Values(uuid.NewString(), userID, name, lat, lng,
			string(entities.PresenceAvailable), string(entities.DutyResting), time.Now()).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return entities.Driver{}, fmt.Errorf("failed to ensure driver: %w", err)
	}

	return r.GetByUserID(ctx, userID)
}

func (r *driverRepo) GetByID(ctx context.Context, driverID string) (entities.Driver, error) {
	query, args := r.qb.Select(driverColumns...).
		From("deliveries").
		Where(sq.Eq{"id": driverID}).
		MustSql()

	var driver Driver
	err := r.getContext(ctx, &driver, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Driver{}, entities.ErrDriverNotFound
	}
	if err != nil {
		return entities.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}
	return DriverToEntity(driver), nil
}

func (r *driverRepo) GetByUserID(ctx context.Context, userID string) (entities.Driver, error) {
	query, args := r.qb.Select(driverColumns...).
		From("deliveries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		Limit(1).
		MustSql()

	var driver Driver
	err := r.getContext(ctx, &driver, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Driver{}, entities.ErrDriverNotFound
	}
	if err != nil {
		return entities.Driver{}, fmt.Errorf("failed to get driver by user: %w", err)
	}
	return DriverToEntity(driver), nil
}

func (r *driverRepo) ListDrivers(ctx context.Context) ([]entities.Driver, error) {
	query, args := r.qb.Select(driverColumns...).
		From("deliveries").
		OrderBy("driver_name").
		MustSql()

	var drivers []Driver
	if err := r.selectContext(ctx, &drivers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	result := make([]entities.Driver, 0, len(drivers))
	for _, d := range drivers {
		result = append(result, DriverToEntity(d))
	}
	return result, nil
}

// UpdatePosition overwrites the driver's current position fields with the
// latest sample. Last write wins; no sequence number is kept.
func (r *driverRepo) UpdatePosition(ctx context.Context, driverID string, lat, lng float64, battery int, at time.Time) error {
	query, args := r.qb.Update("deliveries").
		Set("current_lat", lat).
		Set("current_lng", lng).
		Set("battery_level", nullInt32(battery)).
		Set("updated_at", at).
		Where(sq.Eq{"id": driverID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrDriverNotFound
	}
	return nil
}

// SetDutyStatus is a pure state transition: a resting driver may keep a
// stale position, nothing else is validated here.
func (r *driverRepo) SetDutyStatus(ctx context.Context, driverID string, status entities.DutyStatus) error {
	query, args := r.qb.Update("deliveries").
		Set("work_status", string(status)).
		Where(sq.Eq{"id": driverID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set duty status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrDriverNotFound
	}
	return nil
}

func (r *driverRepo) SetPresence(ctx context.Context, driverID string, presence entities.PresenceStatus) error {
	query, args := r.qb.Update("deliveries").
		Set("status", string(presence)).
		Where(sq.Eq{"id": driverID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrDriverNotFound
	}
	return nil
}

func (r *driverRepo) CountOnDuty(ctx context.Context) (int, error) {
	query, args := r.qb.Select("count(*)").
		From("deliveries").
		Where(sq.Eq{"work_status": string(entities.DutyActive)}).
		MustSql()

	var count int
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count on-duty drivers: %w", err)
	}
	return count, nil
}
