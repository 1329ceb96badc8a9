package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

// Simulates a handful of driver devices walking around Antananarivo and
// publishing GPS samples to the position topic.

type Position struct {
	UserID     string  `json:"user_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Accuracy   float64 `json:"accuracy"`
	Battery    int     `json:"battery_level"`
	GPSDenied  bool    `json:"gps_denied"`
	RecordedAt int64   `json:"recorded_at"`
}

type device struct {
	userID   string
	lat, lng float64
	battery  int
}

func newFleet(n int) []*device {
	fleet := make([]*device, 0, n)
	for i := 0; i < n; i++ {
		fleet = append(fleet, &device{
			userID:  fmt.Sprintf("driver-%02d", i+1),
			lat:     -18.8792 + rand.Float64()*0.05 - 0.025,
			lng:     47.5079 + rand.Float64()*0.05 - 0.025,
			battery: 40 + rand.Intn(60),
		})
	}
	return fleet
}

func (d *device) sample() Position {
	d.lat += rand.Float64()*0.002 - 0.001
	d.lng += rand.Float64()*0.002 - 0.001
	if rand.Intn(50) == 0 && d.battery > 1 {
		d.battery--
	}

	return Position{
		UserID:     d.userID,
		Lat:        d.lat,
		Lng:        d.lng,
		Accuracy:   5 + rand.Float64()*20,
		Battery:    d.battery,
		GPSDenied:  rand.Intn(25) == 0,
		RecordedAt: time.Now().UnixMilli(),
	}
}

func main() {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		broker = "localhost:9092"
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "driver-positions"
	}

	writer := &kafka.Writer{
		Addr:  kafka.TCP(broker),
		Topic: topic,
	}
	defer writer.Close()

	fleet := newFleet(5)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, d := range fleet {
				p := d.sample()
				data, _ := json.Marshal(p)
				if err := writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
					log.Println("write failed:", err)
					continue
				}
				log.Printf("sample published user=%s lat=%.5f lng=%.5f", p.UserID, p.Lat, p.Lng)
			}
		case <-ctx.Done():
			return
		}
	}
}
