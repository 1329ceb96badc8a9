package tracking_test

import (
	"testing"
	"time"

	"github.com/rndrianasolo/commercepro/internal/tracking"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		lastUpdate time.Time
		want       tracking.Liveness
	}{
		{
			name:       "fresh update is online",
			lastUpdate: now.Add(-time.Second),
			want:       tracking.Online,
		},
		{
			name:       "just under the threshold is online",
			lastUpdate: now.Add(-tracking.StaleThreshold + time.Millisecond),
			want:       tracking.Online,
		},
		{
			name:       "exactly at the threshold is offline",
			lastUpdate: now.Add(-tracking.StaleThreshold),
			want:       tracking.Offline,
		},
		{
			name:       "stale update is offline",
			lastUpdate: now.Add(-5 * time.Minute),
			want:       tracking.Offline,
		},
		{
			name:       "zero timestamp is offline",
			lastUpdate: time.Time{},
			want:       tracking.Offline,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tracking.Classify(tc.lastUpdate, now))
		})
	}
}

func TestClassify_SameRecordDifferentReaders(t *testing.T) {
	lastUpdate := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	early := lastUpdate.Add(30 * time.Second)
	late := lastUpdate.Add(90 * time.Second)

	assert.Equal(t, tracking.Online, tracking.Classify(lastUpdate, early))
	assert.Equal(t, tracking.Offline, tracking.Classify(lastUpdate, late))
}
