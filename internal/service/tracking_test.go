package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type positionWrite struct {
	driverID string
	lat, lng float64
	battery  int
}

// fakeDriverRepo is an in-memory driver registry keyed by user id.
type fakeDriverRepo struct {
	drivers map[string]entities.Driver

	ensureCalls int
	writes      []positionWrite
	updateErr   error
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[string]entities.Driver)}
}

func (r *fakeDriverRepo) EnsureDriver(_ context.Context, userID, name string, lat, lng float64) (entities.Driver, error) {
	r.ensureCalls++
	if d, ok := r.drivers[userID]; ok {
		return d, nil
	}
	d := entities.Driver{
		ID:     "drv-" + userID,
		UserID: userID,
		Name:   name,
		Lat:    lat,
		Lng:    lng,
		Duty:   entities.DutyResting,
	}
	r.drivers[userID] = d
	return d, nil
}

func (r *fakeDriverRepo) GetByID(_ context.Context, driverID string) (entities.Driver, error) {
	for _, d := range r.drivers {
		if d.ID == driverID {
			return d, nil
		}
	}
	return entities.Driver{}, entities.ErrDriverNotFound
}

func (r *fakeDriverRepo) GetByUserID(_ context.Context, userID string) (entities.Driver, error) {
	if d, ok := r.drivers[userID]; ok {
		return d, nil
	}
	return entities.Driver{}, entities.ErrDriverNotFound
}

func (r *fakeDriverRepo) ListDrivers(_ context.Context) ([]entities.Driver, error) {
	out := make([]entities.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDriverRepo) UpdatePosition(_ context.Context, driverID string, lat, lng float64, battery int, at time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for userID, d := range r.drivers {
		if d.ID == driverID {
			d.Lat, d.Lng, d.BatteryLevel, d.UpdatedAt = lat, lng, battery, at
			r.drivers[userID] = d
			r.writes = append(r.writes, positionWrite{driverID, lat, lng, battery})
			return nil
		}
	}
	return entities.ErrDriverNotFound
}

func (r *fakeDriverRepo) SetDutyStatus(_ context.Context, driverID string, status entities.DutyStatus) error {
	for userID, d := range r.drivers {
		if d.ID == driverID {
			d.Duty = status
			r.drivers[userID] = d
			return nil
		}
	}
	return entities.ErrDriverNotFound
}

func (r *fakeDriverRepo) SetPresence(_ context.Context, driverID string, presence entities.PresenceStatus) error {
	for userID, d := range r.drivers {
		if d.ID == driverID {
			d.Presence = presence
			r.drivers[userID] = d
			return nil
		}
	}
	return entities.ErrDriverNotFound
}

func testTrackingConfig() config.Tracking {
	return config.Tracking{
		FeedInterval:       5 * time.Second,
		MinPublishInterval: 0,
		DefaultLat:         -18.8792,
		DefaultLng:         47.5079,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrackingService_EnsureDriver(t *testing.T) {
	repo := newFakeDriverRepo()
	svc := service.NewTrackingService(discardLogger(), repo, testTrackingConfig())
	ctx := context.Background()

	first, err := svc.EnsureDriver(ctx, "u1", "Hery")
	require.NoError(t, err)

	second, err := svc.EnsureDriver(ctx, "u1", "Hery")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, repo.ensureCalls)
	assert.Len(t, repo.drivers, 1)
}

type trackingAPI interface {
	EnsureDriver(ctx context.Context, userID, name string) (entities.Driver, error)
	PublishPosition(ctx context.Context, userID string, sample entities.PositionSample) (service.PublishOutcome, error)
	SetDutyStatus(ctx context.Context, userID string, status entities.DutyStatus) (entities.Driver, error)
}

func TestTrackingService_PublishPosition(t *testing.T) {
	cfg := testTrackingConfig()
	sample := entities.PositionSample{Lat: -18.91, Lng: 47.52, Battery: 80, RecordedAt: time.Now()}

	setup := func(t *testing.T, duty entities.DutyStatus) (*fakeDriverRepo, trackingAPI, context.Context) {
		t.Helper()
		repo := newFakeDriverRepo()
		svc := service.NewTrackingService(discardLogger(), repo, cfg)
		ctx := context.Background()

		driver, err := svc.EnsureDriver(ctx, "u1", "Hery")
		require.NoError(t, err)
		require.NoError(t, repo.SetDutyStatus(ctx, driver.ID, duty))
		return repo, svc, ctx
	}

	t.Run("active driver publishes", func(t *testing.T) {
		repo, svc, ctx := setup(t, entities.DutyActive)

		outcome, err := svc.PublishPosition(ctx, "u1", sample)
		require.NoError(t, err)
		assert.Equal(t, service.PublishAccepted, outcome)
		require.Len(t, repo.writes, 1)
		assert.Equal(t, sample.Lat, repo.writes[0].lat)
		assert.Equal(t, sample.Lng, repo.writes[0].lng)
		assert.Equal(t, sample.Battery, repo.writes[0].battery)
	})

	t.Run("resting driver publishes nothing", func(t *testing.T) {
		repo, svc, ctx := setup(t, entities.DutyResting)

		before := repo.drivers["u1"]
		outcome, err := svc.PublishPosition(ctx, "u1", sample)
		require.NoError(t, err)
		assert.Equal(t, service.PublishResting, outcome)
		assert.Empty(t, repo.writes)
		// Going off duty never clears the stored position.
		assert.Equal(t, before, repo.drivers["u1"])
	})

	t.Run("gps denied falls back to default coordinate", func(t *testing.T) {
		repo, svc, ctx := setup(t, entities.DutyActive)

		denied := entities.PositionSample{GPSDenied: true, Battery: 50}
		outcome, err := svc.PublishPosition(ctx, "u1", denied)
		require.NoError(t, err)
		assert.Equal(t, service.PublishAccepted, outcome)
		require.Len(t, repo.writes, 1)
		assert.Equal(t, cfg.DefaultLat, repo.writes[0].lat)
		assert.Equal(t, cfg.DefaultLng, repo.writes[0].lng)
	})

	t.Run("zero coordinates fall back to default coordinate", func(t *testing.T) {
		repo, svc, ctx := setup(t, entities.DutyActive)

		outcome, err := svc.PublishPosition(ctx, "u1", entities.PositionSample{})
		require.NoError(t, err)
		assert.Equal(t, service.PublishAccepted, outcome)
		require.Len(t, repo.writes, 1)
		assert.Equal(t, cfg.DefaultLat, repo.writes[0].lat)
		assert.Equal(t, cfg.DefaultLng, repo.writes[0].lng)
	})

	t.Run("store failure is swallowed but reported in the outcome", func(t *testing.T) {
		repo, svc, ctx := setup(t, entities.DutyActive)
		repo.updateErr = errors.New("store down")

		outcome, err := svc.PublishPosition(ctx, "u1", sample)
		assert.NoError(t, err)
		assert.Equal(t, service.PublishFailed, outcome)
	})

	t.Run("unknown identity is an error", func(t *testing.T) {
		repo := newFakeDriverRepo()
		svc := service.NewTrackingService(discardLogger(), repo, cfg)

		outcome, err := svc.PublishPosition(context.Background(), "ghost", sample)
		assert.ErrorIs(t, err, entities.ErrDriverNotFound)
		assert.Equal(t, service.PublishFailed, outcome)
	})
}

func TestTrackingService_PublishPosition_Throttle(t *testing.T) {
	cfg := testTrackingConfig()
	cfg.MinPublishInterval = time.Minute

	repo := newFakeDriverRepo()
	svc := service.NewTrackingService(discardLogger(), repo, cfg)
	ctx := context.Background()

	driver, err := svc.EnsureDriver(ctx, "u1", "Hery")
	require.NoError(t, err)
	require.NoError(t, repo.SetDutyStatus(ctx, driver.ID, entities.DutyActive))

	sample := entities.PositionSample{Lat: -18.91, Lng: 47.52}

	first, err := svc.PublishPosition(ctx, "u1", sample)
	require.NoError(t, err)
	assert.Equal(t, service.PublishAccepted, first)

	second, err := svc.PublishPosition(ctx, "u1", sample)
	require.NoError(t, err)
	assert.Equal(t, service.PublishThrottled, second)
	assert.Len(t, repo.writes, 1)
}

func TestTrackingService_SetDutyStatus(t *testing.T) {
	repo := newFakeDriverRepo()
	svc := service.NewTrackingService(discardLogger(), repo, testTrackingConfig())
	ctx := context.Background()

	_, err := svc.EnsureDriver(ctx, "u1", "Hery")
	require.NoError(t, err)

	driver, err := svc.SetDutyStatus(ctx, "u1", entities.DutyActive)
	require.NoError(t, err)
	assert.Equal(t, entities.DutyActive, driver.Duty)
	assert.Equal(t, entities.DutyActive, repo.drivers["u1"].Duty)

	_, err = svc.SetDutyStatus(ctx, "u1", entities.DutyStatus("bogus"))
	assert.ErrorIs(t, err, entities.ErrInvalidDutyStatus)
}
