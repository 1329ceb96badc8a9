package tracking

import (
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"
)

// Marker is the projection of one driver onto the supervision map.
type Marker struct {
	DriverID string   `json:"driver_id"`
	Name     string   `json:"name"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Duty     string   `json:"duty"`
	Liveness Liveness `json:"liveness"`
	Battery  int      `json:"battery,omitempty"`
}

// Board maintains a one-to-one mapping from driver id to map marker. It is
// not safe for concurrent use; the feed owns it from a single goroutine.
type Board struct {
	markers map[string]*Marker
}

func NewBoard() *Board {
	return &Board{markers: make(map[string]*Marker)}
}

// Reconcile replaces the board contents with the given registry snapshot:
// markers for vanished drivers are removed, missing ones created, surviving
// ones updated in place. Liveness is evaluated against the render time
// passed in, not the snapshot fetch time. After a pass the marker set size
// always equals the snapshot size.
func (b *Board) Reconcile(snapshot []entities.Driver, now time.Time) []Marker {
	seen := make(map[string]struct{}, len(snapshot))
	for _, d := range snapshot {
		seen[d.ID] = struct{}{}
	}
	for id := range b.markers {
		if _, ok := seen[id]; !ok {
			delete(b.markers, id)
		}
	}

	out := make([]Marker, 0, len(snapshot))
	for _, d := range snapshot {
		m, ok := b.markers[d.ID]
		if !ok {
			m = &Marker{DriverID: d.ID}
			b.markers[d.ID] = m
		}
		m.Name = d.Name
		m.Lat = d.Lat
		m.Lng = d.Lng
		m.Duty = string(d.Duty)
		m.Battery = d.BatteryLevel
		m.Liveness = Classify(d.UpdatedAt, now)
		out = append(out, *m)
	}
	return out
}

// Reset tears down every marker. Must be called before re-subscribing to
// the registry so a re-entered view never shows duplicate markers for the
// same driver.
func (b *Board) Reset() {
	b.markers = make(map[string]*Marker)
}

func (b *Board) Size() int {
	return len(b.markers)
}
