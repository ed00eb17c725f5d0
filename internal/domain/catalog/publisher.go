package catalog

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Publisher is handed to the write services as their change notifier. It
// publishes a ping on the Redis channel so every instance refreshes; without
// Redis (or when the publish fails) it falls back to notifying the local hub.
type Publisher struct {
	redis *redis.Client
	hub   *Hub
}

// NewPublisher creates catalog change publisher
func NewPublisher(redisClient *redis.Client, hub *Hub) *Publisher {
	return &Publisher{redis: redisClient, hub: hub}
}

// CatalogChanged signals that a catalog write committed
func (p *Publisher) CatalogChanged(ctx context.Context) {
	if p.redis != nil {
		err := p.redis.Publish(ctx, changeChannel, "changed").Err()
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("channel", changeChannel).
			Msg("Redis publish failed; notifying local subscribers only")
	}

	if p.hub != nil {
		p.hub.Notify(ctx)
	}
}
