package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamArgs(t *testing.T) {
	occurred := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	args, err := streamArgs("board.post.events", 1000, PostEvent{
		Type:       PostLiked,
		PostID:     42,
		StockCode:  "005930",
		OccurredAt: occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, "board.post.events", args.Stream)
	assert.EqualValues(t, 1000, args.MaxLen)
	assert.True(t, args.Approx)

	values, ok := args.Values.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "post.liked", values["type"])

	var decoded PostEvent
	require.NoError(t, json.Unmarshal(values["payload"].([]byte), &decoded))
	assert.Equal(t, uint(42), decoded.PostID)
	assert.Equal(t, "005930", decoded.StockCode)
	assert.True(t, occurred.Equal(decoded.OccurredAt))
}

func TestStreamArgs_Uncapped(t *testing.T) {
	args, err := streamArgs("s", 0, PostEvent{Type: PostCreated, PostID: 1})
	require.NoError(t, err)
	assert.False(t, args.Approx)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), PostEvent{Type: PostDeleted}))
}
