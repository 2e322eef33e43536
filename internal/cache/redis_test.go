// internal/cache/redis_test.go
package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kozyol/internal/models"
)

func TestEnabledWithoutConnection(t *testing.T) {
	Rdb = nil
	assert.False(t, Enabled())
}

func TestPublishRoundResult(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())

	require.NoError(t, ConnectRedis())
	require.True(t, Enabled())
	t.Cleanup(func() { Rdb = nil })

	rec := RoundRecord{
		RoomCode:    "abcd1234",
		Round:       3,
		RoundScores: map[models.Team]int{models.Team1: 70, models.Team2: 50},
		TotalScores: map[models.Team]int{models.Team1: 210, models.Team2: 150},
		TricksWon:   map[models.Team]int{models.Team1: 4, models.Team2: 2},
		Timestamp:   1700000000000,
	}
	require.NoError(t, PublishRoundResult(context.Background(), rec))

	items, err := mr.List(DefaultQueueName)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got RoundRecord
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, rec, got)
}

func TestPublishUsesQueueNameOverride(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("ROUNDS_QUEUE_NAME", "custom_rounds")

	require.NoError(t, ConnectRedis())
	t.Cleanup(func() { Rdb = nil })

	rec := RoundRecord{RoomCode: "ffff0000", Round: 1}
	require.NoError(t, PublishRoundResult(context.Background(), rec))

	items, err := mr.List("custom_rounds")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
