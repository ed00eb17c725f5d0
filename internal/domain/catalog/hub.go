package catalog

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis channel carrying catalog change pings
const changeChannel = "catalog:changed"

// Hub fans catalog snapshots out to subscribers. Writers ping the hub (via
// the Publisher or Notify); the hub re-reads the catalog once and delivers
// the fresh snapshot to every registered callback. With Redis configured the
// ping travels through pub/sub so every instance refreshes.
type Hub struct {
	reader *Reader
	redis  *redis.Client
	pubsub *redis.PubSub

	mu     sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates the subscription hub. redisClient may be nil; change
// notifications are then delivered locally only.
func NewHub(reader *Reader, redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		reader: reader,
		redis:  redisClient,
		subs:   make(map[int]func(Snapshot)),
		ctx:    ctx,
		cancel: cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, changeChannel)
	}

	return h
}

// Run listens for change pings (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub == nil {
		return
	}

	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast()
		}
	}
}

// Subscribe registers fn and immediately delivers the current snapshot to it
// on the calling goroutine. The returned func deregisters; fn is never called
// after it returns.
func (h *Hub) Subscribe(fn func(Snapshot)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	fn(h.reader.Load(h.ctx))

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Notify re-reads the catalog and delivers the snapshot locally. Used as the
// change path when Redis is absent or a publish fails.
func (h *Hub) Notify(ctx context.Context) {
	h.broadcast()
}

func (h *Hub) broadcast() {
	snap := h.reader.Load(h.ctx)
	if snap.Err != nil {
		log.Warn().Err(snap.Err).Msg("Catalog reload failed; delivering error snapshot")
	}

	h.mu.Lock()
	fns := make([]func(Snapshot), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Shutdown stops the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
