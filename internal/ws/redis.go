package ws

import (
	"context"
	"encoding/json"
	"log"

	rstore "github.com/playmatatu/billiards/internal/redis"
	"github.com/redis/go-redis/v9"
)

// StartSweepEventSubscriber relays sweep_events from Redis to websocket
// rooms, so progress reaches clients connected to any API instance.
func StartSweepEventSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; sweep event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, rstore.SweepEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Println("[WS] sweep_events subscriber started")
		for msg := range ch {
			var ev rstore.SweepEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}
			relaySweepEvent(SweepHub, ev)
		}
		log.Println("[WS] sweep_events subscriber stopped")
	}()
}

func relaySweepEvent(h *Hub, ev rstore.SweepEvent) {
	room := SweepRoom(ev.SweepID)
	switch ev.Type {
	case rstore.EventSweepProgress, rstore.EventSweepDone, rstore.EventSweepFailed:
		h.Broadcast(room, Message{Type: ev.Type, Data: ev})
	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}
