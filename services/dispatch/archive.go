package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fixmate/models"

	"github.com/go-redis/redis/v8"
)

const archiveKeyPrefix = "dispatch:result:"

// Archive keeps terminal session results in Redis with a TTL, so status and
// result lookups keep working after the in-memory session is evicted.
type Archive struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewArchive wires an archive over the given Redis client.
func NewArchive(client *redis.Client, ttl time.Duration) *Archive {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Archive{Client: client, TTL: ttl}
}

// Save stores the terminal result under the session id.
func (a *Archive) Save(ctx context.Context, res models.DispatchResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch result: %w", err)
	}
	if err := a.Client.Set(ctx, archiveKeyPrefix+res.SessionID, data, a.TTL).Err(); err != nil {
		return fmt.Errorf("failed to archive dispatch result: %w", err)
	}
	return nil
}

// Get retrieves an archived result; (nil, nil) when no entry exists.
func (a *Archive) Get(ctx context.Context, sessionID string) (*models.DispatchResult, error) {
	data, err := a.Client.Get(ctx, archiveKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archived dispatch result: %w", err)
	}
	var res models.DispatchResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("failed to parse archived dispatch result: %w", err)
	}
	return &res, nil
}
