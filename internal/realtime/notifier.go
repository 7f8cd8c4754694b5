package realtime

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "changes:"
	channelPattern = "changes:*"
)

// Notifier publishes change events into per-table Redis channels and lets the
// server subscribe to the combined feed. With a nil Redis client every method
// is a no-op, so a cache-less deployment still runs (without cross-process
// convergence).
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish sends a change event to its table channel.
func (n *Notifier) Publish(ctx context.Context, e Event) error {
	if n.rdb == nil {
		return nil
	}
	data, err := e.Encode()
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	channel := channelPrefix + string(e.Table)
	return n.rdb.Publish(ctx, channel, data).Err()
}

// StartSubscriber subscribes to the `changes:*` pattern and calls onEvent for
// each decoded message. The subscription is torn down when ctx is cancelled.
func (n *Notifier) StartSubscriber(ctx context.Context, onEvent func(Event)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, channelPattern)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in change subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					event, err := DecodeEvent([]byte(msg.Payload))
					if err != nil {
						log.Printf("discarding change message on %s: %v", msg.Channel, err)
						return
					}
					onEvent(event)
				}()
			}
		}
	}()

	return nil
}
