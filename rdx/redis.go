package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is nil when Redis is not configured; callers must degrade gracefully.
var Conn *redis.Client

// Init connects to Redis when REDIS_ADDR is set. Returns false when Redis is
// not configured or unreachable, in which case Conn stays nil.
func Init() bool {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return false
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return false
	}

	Conn = client
	return true
}
