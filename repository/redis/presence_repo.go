package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/Poco-dev/todo-bot/domain"
	"github.com/Poco-dev/todo-bot/repository"
)

type presenceRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewPresenceRepository creates a Redis-backed last-active store.
func NewPresenceRepository(client *redislib.Client, ttl time.Duration) repository.PresenceRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &presenceRepository{
		client: client,
		prefix: "presence:",
		ttl:    ttl,
	}
}

func (r *presenceRepository) Touch(ctx context.Context, owner domain.Identity) error {
	if owner.IsZero() {
		return domain.ErrInvalidPayload
	}

	record := domain.Presence{
		UserID:   owner.ID,
		Username: owner.Username,
		LastSeen: time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key(owner.ID), payload, r.ttl).Err()
}

func (r *presenceRepository) key(id int64) string {
	return fmt.Sprintf("%s%d", r.prefix, id)
}
