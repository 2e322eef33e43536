// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"kozyol/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup;
// when it stays nil the results queue is simply disabled.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the game server pushes finished-round
// summaries onto, consumed by the historian.
var DefaultQueueName = "kozyol_rounds"

// RoundRecord is one finished round's summary as it travels through the
// results queue.
type RoundRecord struct {
	RoomCode    string              `json:"room_code"`
	Round       int                 `json:"round"`
	RoundScores map[models.Team]int `json:"round_scores"`
	TotalScores map[models.Team]int `json:"total_scores"`
	TricksWon   map[models.Team]int `json:"tricks_won"`
	Timestamp   int64               `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// Enabled reports whether a results queue is configured.
func Enabled() bool {
	return Rdb != nil
}

// PublishRoundResult serializes the record to JSON and pushes it onto the
// results queue. Other than the quick network send this never blocks game
// logic.
func PublishRoundResult(ctx context.Context, rec RoundRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal RoundRecord: %w", err)
	}

	queueName := getEnv("ROUNDS_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
