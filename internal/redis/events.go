package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// SweepEventsChannel carries sweep progress to every API instance.
const SweepEventsChannel = "sweep_events"

// Sweep event types.
const (
	EventSweepProgress = "sweep_progress"
	EventSweepDone     = "sweep_done"
	EventSweepFailed   = "sweep_failed"
)

type SweepEvent struct {
	Type    string `json:"type"`
	SweepID int64  `json:"sweep_id"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// PublishSweepEvent publishes ev and returns the number of subscribers that
// received it. A nil client publishes nothing.
func PublishSweepEvent(ctx context.Context, rdb *redis.Client, ev SweepEvent) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}
	return rdb.Publish(ctx, SweepEventsChannel, b).Result()
}
