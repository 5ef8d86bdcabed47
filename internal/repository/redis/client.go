package redis

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to addr, which may be a host:port pair or a redis://
// URL. An empty addr or an unreachable server returns a nil client so the
// game runs without persistent scores.
func InitRedis(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		log.Println("[REDIS] REDIS_URL not set, persistent scores disabled")
		return nil
	}

	opts := &redis.Options{Addr: addr, Password: password, DB: 0}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("[REDIS] Warning: invalid REDIS_URL: %v. Persistent scores disabled.", err)
			return nil
		}
		if password != "" {
			parsed.Password = password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[REDIS] Warning: Could not connect to Redis: %v. Persistent scores disabled.", err)
		client.Close()
		return nil
	}

	log.Println("[REDIS] Connected successfully")
	return client
}
