package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-ordering-api/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisTracker stores the latest position under location:<staffId> with a TTL and fans
// updates out over the pub/sub channel of the same name.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisTracker(ctx context.Context, cfg RedisConfig, logger *zap.SugaredLogger) (*RedisTracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisTracker{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (t *RedisTracker) Close() error {
	return t.client.Close()
}

func (t *RedisTracker) Publish(ctx context.Context, loc models.StaffLocation) error {
	payload, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	k := key(loc.StaffID)
	pipe := t.client.TxPipeline()
	pipe.Set(ctx, k, payload, t.ttl)
	pipe.Publish(ctx, k, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish location: %w", err)
	}
	return nil
}

func (t *RedisTracker) Latest(ctx context.Context, staffID string) (*models.StaffLocation, error) {
	raw, err := t.client.Get(ctx, key(staffID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPosition
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	var loc models.StaffLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	return &loc, nil
}

func (t *RedisTracker) Subscribe(ctx context.Context, staffID string) (<-chan models.StaffLocation, func()) {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := t.client.Subscribe(ctx, key(staffID))
	out := make(chan models.StaffLocation, subscriberBuffer)

	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var loc models.StaffLocation
				if err := json.Unmarshal([]byte(msg.Payload), &loc); err != nil {
					t.logger.Warnw("dropping malformed location message", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- loc:
				default:
				}
			}
		}
	}()
	return out, cancel
}
