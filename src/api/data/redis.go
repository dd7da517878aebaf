package data

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "session:"
	flashPrefix   = "flash:"

	// Flash notices sit in Redis only until the redirect target reads
	// them; anything older than this is abandoned.
	flashTTL = 10 * time.Minute
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// SetSession stores an admin session under an opaque session ID.
func SetSession(ctx context.Context, rdb *redis.Client, sid, username string, ttl time.Duration) error {
	return rdb.Set(ctx, sessionPrefix+sid, username, ttl).Err()
}

// GetSession returns the username bound to sid, or an error when the
// session is absent or expired.
func GetSession(ctx context.Context, rdb *redis.Client, sid string) (string, error) {
	return rdb.Get(ctx, sessionPrefix+sid).Result()
}

func DelSession(ctx context.Context, rdb *redis.Client, sid string) error {
	return rdb.Del(ctx, sessionPrefix+sid).Err()
}

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Level   string `json:"level"` // success, danger, warning, info
	Message string `json:"message"`
}

func PushFlash(ctx context.Context, rdb *redis.Client, id string, f Flash) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	key := flashPrefix + id
	if err := rdb.RPush(ctx, key, raw).Err(); err != nil {
		return err
	}
	return rdb.Expire(ctx, key, flashTTL).Err()
}

// PopFlashes drains and returns all pending notices for id. Reading
// consumes: a flash is shown exactly once.
func PopFlashes(ctx context.Context, rdb *redis.Client, id string) ([]Flash, error) {
	key := flashPrefix + id
	raws, err := rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, nil
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		return nil, err
	}
	flashes := make([]Flash, 0, len(raws))
	for _, raw := range raws {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
