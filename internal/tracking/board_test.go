package tracking_test

import (
	"testing"
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func driver(id string, updatedAt time.Time) entities.Driver {
	return entities.Driver{
		ID:        id,
		Name:      "Driver " + id,
		Lat:       -18.9,
		Lng:       47.5,
		Duty:      entities.DutyActive,
		UpdatedAt: updatedAt,
	}
}

func markerIDs(markers []tracking.Marker) []string {
	ids := make([]string, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, m.DriverID)
	}
	return ids
}

func TestBoard_Reconcile(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("marker set follows the snapshot", func(t *testing.T) {
		board := tracking.NewBoard()

		first := board.Reconcile([]entities.Driver{
			driver("a", now), driver("b", now),
		}, now)
		assert.ElementsMatch(t, []string{"a", "b"}, markerIDs(first))
		assert.Equal(t, 2, board.Size())

		// a vanishes, c appears, b survives.
		second := board.Reconcile([]entities.Driver{
			driver("b", now), driver("c", now),
		}, now)
		assert.ElementsMatch(t, []string{"b", "c"}, markerIDs(second))
		assert.Equal(t, 2, board.Size())
	})

	t.Run("surviving marker is updated in place", func(t *testing.T) {
		board := tracking.NewBoard()

		board.Reconcile([]entities.Driver{driver("a", now)}, now)

		moved := driver("a", now)
		moved.Lat = -19.0
		moved.Lng = 47.6

		out := board.Reconcile([]entities.Driver{moved}, now)
		require.Len(t, out, 1)
		assert.Equal(t, -19.0, out[0].Lat)
		assert.Equal(t, 47.6, out[0].Lng)
		assert.Equal(t, 1, board.Size())
	})

	t.Run("liveness evaluated at render time", func(t *testing.T) {
		board := tracking.NewBoard()

		stale := driver("a", now.Add(-2*time.Minute))
		fresh := driver("b", now.Add(-10*time.Second))

		out := board.Reconcile([]entities.Driver{stale, fresh}, now)
		require.Len(t, out, 2)

		byID := make(map[string]tracking.Marker)
		for _, m := range out {
			byID[m.DriverID] = m
		}
		assert.Equal(t, tracking.Offline, byID["a"].Liveness)
		assert.Equal(t, tracking.Online, byID["b"].Liveness)

		// Same snapshot rendered later flips the fresh driver offline.
		later := board.Reconcile([]entities.Driver{stale, fresh}, now.Add(2*time.Minute))
		for _, m := range later {
			assert.Equal(t, tracking.Offline, m.Liveness)
		}
	})

	t.Run("empty snapshot clears the board", func(t *testing.T) {
		board := tracking.NewBoard()

		board.Reconcile([]entities.Driver{driver("a", now), driver("b", now)}, now)
		out := board.Reconcile(nil, now)

		assert.Empty(t, out)
		assert.Equal(t, 0, board.Size())
	})
}

func TestBoard_Reset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	board := tracking.NewBoard()

	board.Reconcile([]entities.Driver{driver("a", now)}, now)
	require.Equal(t, 1, board.Size())

	board.Reset()
	assert.Equal(t, 0, board.Size())

	// Re-subscribing after a reset never duplicates markers.
	out := board.Reconcile([]entities.Driver{driver("a", now)}, now)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, board.Size())
}
