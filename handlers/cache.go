package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"taskmaster-api/models"
)

const taskCacheTTL = 5 * time.Minute

// TaskCache is the narrow cache surface the task handlers need. Production
// wiring backs it with redis; a nil cache disables caching entirely.
type TaskCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) TaskCache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Cache keys carry the owner id, so one user's cached task can never be
// served to another.
func taskCacheKey(ownerID, taskID int) string {
	return fmt.Sprintf("task:%d:%d", ownerID, taskID)
}

func (h *Handler) cachedTask(r *http.Request, ownerID, taskID int) (*models.Task, bool) {
	if h.Cache == nil {
		return nil, false
	}
	value, err := h.Cache.Get(r.Context(), taskCacheKey(ownerID, taskID))
	if err != nil {
		return nil, false
	}
	task := &models.Task{}
	if err := json.Unmarshal([]byte(value), task); err != nil {
		return nil, false
	}
	return task, true
}

func (h *Handler) cacheTask(r *http.Request, task *models.Task) {
	if h.Cache == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	key := taskCacheKey(task.UserID, task.ID)
	if err := h.Cache.Set(r.Context(), key, string(data), taskCacheTTL); err != nil {
		h.logger().WithError(err).Warn("cache set failed")
	}
}

func (h *Handler) invalidateTask(r *http.Request, ownerID, taskID int) {
	if h.Cache == nil {
		return
	}
	key := taskCacheKey(ownerID, taskID)
	if err := h.Cache.Del(r.Context(), key); err != nil {
		h.logger().WithError(err).WithField("key", key).Warn("cache invalidation failed")
	}
}
