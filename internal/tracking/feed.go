package tracking

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"
)

type DriverLister interface {
	ListDrivers(ctx context.Context) ([]entities.Driver, error)
}

type Broadcaster interface {
	Broadcast(message []byte)
}

// Feed is the dispatcher-side subscription over the driver registry. The
// registry only promises that reads eventually reflect the latest committed
// rows, so the feed polls on a fixed interval, reconciles its marker board
// and pushes the resulting snapshot to every connected supervision client.
type Feed struct {
	logger   *slog.Logger
	registry DriverLister
	sink     Broadcaster
	board    *Board
	interval time.Duration
}

func NewFeed(logger *slog.Logger, registry DriverLister, sink Broadcaster, interval time.Duration) *Feed {
	return &Feed{
		logger:   logger.With(slog.String("worker", "tracking_feed")),
		registry: registry,
		sink:     sink,
		board:    NewBoard(),
		interval: interval,
	}
}

type snapshotMessage struct {
	Type    string   `json:"type"`
	Markers []Marker `json:"markers"`
}

// Start runs the polling loop until the context is cancelled. The board is
// torn down on exit, so a restarted feed never carries stale markers over.
func (f *Feed) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	defer f.board.Reset()

	f.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("tracking feed stopped")
			return nil
		case <-ticker.C:
			f.tick(ctx)
		}
	}
}

func (f *Feed) tick(ctx context.Context) {
	drivers, err := f.registry.ListDrivers(ctx)
	if err != nil {
		// Skip the tick: clients keep the previous snapshot and the next
		// successful poll converges them.
		f.logger.Error("failed to list drivers", slog.Any("error", err))
		feedPollErrors.Inc()
		return
	}

	markers := f.board.Reconcile(drivers, time.Now())

	msg, err := json.Marshal(snapshotMessage{Type: "drivers", Markers: markers})
	if err != nil {
		f.logger.Error("failed to marshal snapshot", slog.Any("error", err))
		return
	}
	f.sink.Broadcast(msg)
}
