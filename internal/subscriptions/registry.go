package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	leaseKeyPrefix      = "feed:sub:"    // current holder token: feed:sub:{uid}:{screen}
	cancelChannelPrefix = "feed:cancel:" // new holders announce themselves: feed:cancel:{uid}:{screen}
	DefaultTTL          = 10 * time.Minute
	releaseTimeout      = 2 * time.Second
)

var ErrInvalidScreen = errors.New("subscriptions: uid and screen are required")

// compare-and-delete
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// compare-and-extend
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Registry keeps at most one live feed per (user, screen) across every API
// instance. Acquiring a screen cancels whoever held it before.
type Registry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRegistry(client *redis.Client, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		client: client,
		ttl:    ttl,
	}
}

// Lease is one active subscription. Its context ends when the parent ends,
// when a newer lease takes the same screen, or on Release.
type Lease struct {
	ctx     context.Context
	token   string
	release func()
}

func (l *Lease) Context() context.Context { return l.ctx }

func (l *Lease) Token() string { return l.token }

// Release ends the lease. Safe to call more than once.
func (l *Lease) Release() { l.release() }

// Acquire takes the screen for uid, cancelling the previous holder.
func (r *Registry) Acquire(parent context.Context, uid, screen string) (*Lease, error) {
	uid, screen = strings.TrimSpace(uid), strings.TrimSpace(screen)
	if uid == "" || screen == "" {
		return nil, ErrInvalidScreen
	}

	key := leaseKey(uid, screen)
	channel := cancelChannel(uid, screen)
	token := uuid.New().String()

	pubsub := r.client.Subscribe(parent, channel)
	if _, err := pubsub.Receive(parent); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscriptions: subscribe %s: %w", channel, err)
	}

	if err := r.client.Set(parent, key, token, r.ttl).Err(); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscriptions: set %s: %w", key, err)
	}
	if err := r.client.Publish(parent, channel, token).Err(); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscriptions: publish %s: %w", channel, err)
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	go r.watch(ctx, cancel, pubsub, key, token, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			cancel()
			<-done

			rctx, rcancel := context.WithTimeout(context.WithoutCancel(parent), releaseTimeout)
			defer rcancel()
			if err := releaseScript.Run(rctx, r.client, []string{key}, token).Err(); err != nil {
				slog.Warn("subscription release failed", "key", key, "error", err)
			}
		})
	}

	return &Lease{ctx: ctx, token: token, release: release}, nil
}

// Holder returns the token currently holding the screen.
func (r *Registry) Holder(ctx context.Context, uid, screen string) (string, bool, error) {
	token, err := r.client.Get(ctx, leaseKey(uid, screen)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("subscriptions: get holder: %w", err)
	}
	return token, true, nil
}

func (r *Registry) watch(ctx context.Context, cancel context.CancelFunc, pubsub *redis.PubSub, key, token string, done chan<- struct{}) {
	defer close(done)
	defer pubsub.Close()
	defer cancel()

	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if msg.Payload != token && r.superseded(ctx, key, token) {
				slog.Debug("subscription superseded", "key", key)
				return
			}
		case <-ticker.C:
			ms := r.ttl.Milliseconds()
			if err := refreshScript.Run(ctx, r.client, []string{key}, token, ms).Err(); err != nil && ctx.Err() == nil {
				slog.Warn("subscription refresh failed", "key", key, "error", err)
			}
		}
	}
}

// superseded reports whether key no longer holds token. Overlapping acquires
// each see the other's announcement; only the one that lost the SET steps down.
func (r *Registry) superseded(ctx context.Context, key, token string) bool {
	current, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("subscription holder lookup failed", "key", key, "error", err)
		}
		return true
	}
	return current != token
}

func leaseKey(uid, screen string) string {
	return fmt.Sprintf("%s%s:%s", leaseKeyPrefix, uid, screen)
}

func cancelChannel(uid, screen string) string {
	return fmt.Sprintf("%s%s:%s", cancelChannelPrefix, uid, screen)
}
