package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/rndrianasolo/commercepro/internal/entities"
)

type DriverRepo interface {
	EnsureDriver(ctx context.Context, userID, name string, lat, lng float64) (entities.Driver, error)
	GetByID(ctx context.Context, driverID string) (entities.Driver, error)
	GetByUserID(ctx context.Context, userID string) (entities.Driver, error)
	ListDrivers(ctx context.Context) ([]entities.Driver, error)
	UpdatePosition(ctx context.Context, driverID string, lat, lng float64, battery int, at time.Time) error
	SetDutyStatus(ctx context.Context, driverID string, status entities.DutyStatus) error
}

// PublishOutcome is the typed result of a position publish. Position writes
// are fire-and-forget: a failed write is never retried, but the outcome is
// logged and counted so a systemic publish failure stays visible.
type PublishOutcome string

const (
	PublishAccepted  PublishOutcome = "published"
	PublishResting   PublishOutcome = "resting"
	PublishThrottled PublishOutcome = "throttled"
	PublishFailed    PublishOutcome = "failed"
)

type trackingService struct {
	logger *slog.Logger
	repo   DriverRepo
	cfg    config.Tracking

	mu          sync.Mutex
	lastPublish map[string]time.Time
}

func NewTrackingService(logger *slog.Logger, repo DriverRepo, cfg config.Tracking) *trackingService {
	return &trackingService{
		logger:      logger.With(slog.String("service", "tracking")),
		repo:        repo,
		cfg:         cfg,
		lastPublish: make(map[string]time.Time),
	}
}

// EnsureDriver lazily creates the registry record for a driver-role
// identity on first access. Uniqueness on the identity is enforced by the
// store, so repeated or racing calls converge on the same record.
func (s *trackingService) EnsureDriver(ctx context.Context, userID, name string) (entities.Driver, error) {
	if name == "" {
		name = "Driver"
	}
	driver, err := s.repo.EnsureDriver(ctx, userID, name, s.cfg.DefaultLat, s.cfg.DefaultLng)
	if err != nil {
		return entities.Driver{}, fmt.Errorf("failed to ensure driver: %w", err)
	}
	s.logger.Debug("driver ensured", slog.String("driver_id", driver.ID), slog.String("user_id", userID))
	return driver, nil
}

// PublishPosition forwards a device position sample to the driver's own
// registry record. A resting driver publishes nothing; samples arriving
// faster than the configured minimum interval are dropped; a sample taken
// after a GPS permission failure falls back to the default coordinate
// rather than blocking driver operation. Each successful write doubles as
// the driver's heartbeat.
func (s *trackingService) PublishPosition(ctx context.Context, userID string, sample entities.PositionSample) (PublishOutcome, error) {
	driver, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		// No registry record yet: the caller must run the lazy-create path
		// first. Not a swallowed failure, the identity is simply unknown.
		return PublishFailed, err
	}

	if driver.Duty != entities.DutyActive {
		positionPublishes.WithLabelValues(string(PublishResting)).Inc()
		return PublishResting, nil
	}

	if !s.allowPublish(driver.ID) {
		positionPublishes.WithLabelValues(string(PublishThrottled)).Inc()
		return PublishThrottled, nil
	}

	lat, lng := sample.Lat, sample.Lng
	if sample.GPSDenied || !validCoordinates(lat, lng) {
		lat, lng = s.cfg.DefaultLat, s.cfg.DefaultLng
	}

	if err := s.repo.UpdatePosition(ctx, driver.ID, lat, lng, sample.Battery, time.Now()); err != nil {
		// Availability over durability: the write is dropped, the next
		// sample overwrites whatever state the store holds.
		s.logger.Error("position publish failed",
			slog.String("driver_id", driver.ID), slog.Any("error", err))
		positionPublishes.WithLabelValues(string(PublishFailed)).Inc()
		return PublishFailed, nil
	}

	positionPublishes.WithLabelValues(string(PublishAccepted)).Inc()
	return PublishAccepted, nil
}

func (s *trackingService) allowPublish(driverID string) bool {
	if s.cfg.MinPublishInterval <= 0 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if last, ok := s.lastPublish[driverID]; ok && now.Sub(last) < s.cfg.MinPublishInterval {
		return false
	}
	s.lastPublish[driverID] = now
	return true
}

// SetDutyStatus toggles on/off-duty for the identity's own record. It is a
// pure state transition: going resting neither clears the stored position
// nor forces the liveness classification offline before the staleness
// threshold elapses.
func (s *trackingService) SetDutyStatus(ctx context.Context, userID string, status entities.DutyStatus) (entities.Driver, error) {
	if !status.Valid() {
		return entities.Driver{}, entities.ErrInvalidDutyStatus
	}

	driver, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return entities.Driver{}, err
	}
	if err := s.repo.SetDutyStatus(ctx, driver.ID, status); err != nil {
		return entities.Driver{}, fmt.Errorf("failed to set duty status: %w", err)
	}

	s.logger.Info("duty status changed",
		slog.String("driver_id", driver.ID), slog.String("duty", string(status)))
	driver.Duty = status
	return driver, nil
}

// ListDrivers returns the whole registry. Role scoping is advisory: the
// dispatcher view consumes everything, a driver client is expected to read
// only its own record. Nothing is filtered server-side.
func (s *trackingService) ListDrivers(ctx context.Context) ([]entities.Driver, error) {
	return s.repo.ListDrivers(ctx)
}

func (s *trackingService) GetDriverByUserID(ctx context.Context, userID string) (entities.Driver, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 && (lat != 0 || lng != 0)
}
