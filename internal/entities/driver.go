package entities

import (
	"errors"
	"time"
)

type DutyStatus string

const (
	DutyActive  DutyStatus = "active"
	DutyResting DutyStatus = "resting"
)

func (s DutyStatus) Valid() bool {
	return s == DutyActive || s == DutyResting
}

type PresenceStatus string

const (
	PresenceAvailable PresenceStatus = "available"
	PresenceBusy      PresenceStatus = "busy"
	PresenceOffline   PresenceStatus = "offline"
)

// Driver is the shared registry record for a delivery driver. The record is
// created lazily on first access for a driver-role identity and is never
// deleted by this application. Position and duty fields are written by the
// driver's own device only; dispatcher views read them.
type Driver struct {
	ID           string
	UserID       string
	Name         string
	Lat          float64
	Lng          float64
	Duty         DutyStatus
	Presence     PresenceStatus
	BatteryLevel int
	UpdatedAt    time.Time
}

// PositionSample is an ephemeral GPS reading from a driver device. Samples
// are not persisted individually: the latest one overwrites the driver's
// current position fields.
type PositionSample struct {
	Lat        float64
	Lng        float64
	Accuracy   float64
	Battery    int
	RecordedAt time.Time

	// GPSDenied marks a sample produced after a permission or signal
	// failure; the publisher substitutes the configured default coordinate
	// instead of failing.
	GPSDenied bool
}

var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidDutyStatus  = errors.New("invalid duty status")
)
