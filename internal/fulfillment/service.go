package fulfillment

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/venuegate/storefront/internal/kafka"
	"github.com/venuegate/storefront/internal/orders"
	"github.com/venuegate/storefront/internal/redisx"
)

// Service consumes placed orders: dedups replays, keeps the status cache warm
// and logs the order for the kitchen/box-office feed.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderPlaced is wired as the consumer handler.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil // ignore
	}

	// dedup via event id; replays are committed without re-processing
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	_ = s.Redis.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err()
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	log.Printf("order %s placed: %s (%s), %d line(s), total %.2f",
		p.OrderID, p.UserName, p.OrderType, len(p.Items), p.TotalAmount)
	return nil
}
