package tracking

import "time"

// StaleThreshold is the staleness cutoff for the online/offline judgment.
// A driver whose last position write is older than this is offline.
const StaleThreshold = 60 * time.Second

type Liveness string

const (
	Online  Liveness = "online"
	Offline Liveness = "offline"
)

// Classify derives liveness purely from the age of the last position write.
// Online iff now-lastUpdate is strictly under the threshold; exactly at the
// boundary is offline. Liveness is never stored: two readers evaluating the
// same record at different times may disagree. There is no hysteresis, so a
// driver flapping at the boundary may toggle between evaluations.
func Classify(lastUpdate, now time.Time) Liveness {
	if now.Sub(lastUpdate) < StaleThreshold {
		return Online
	}
	return Offline
}
