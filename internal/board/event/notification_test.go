package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock-board/internal/entity"
	"stock-board/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *fakeNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, PostEvent) error { return p.err }

func TestNotificationPublisher_FiltersAndDelivers(t *testing.T) {
	notifier := &fakeNotifier{}
	pub := NewNotificationPublisher(notifier, nil, 10, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pub.Run(ctx)

	require.NoError(t, pub.Publish(ctx, PostEvent{Type: PostLiked, PostID: 1}))
	require.NoError(t, pub.Publish(ctx, PostEvent{Type: PostCreated, PostID: 2, Title: "Samsung", Sentiment: "bullish"}))

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	notifier.mu.Lock()
	assert.Contains(t, notifier.sent[0], "#2")
	assert.Contains(t, notifier.sent[0], "Samsung")
	notifier.mu.Unlock()
}

func TestNotificationPublisher_QueueFull(t *testing.T) {
	pub := NewNotificationPublisher(&fakeNotifier{}, []Type{PostCreated}, 1, logger.NewNop())

	require.NoError(t, pub.Publish(context.Background(), PostEvent{Type: PostCreated}))
	assert.ErrorIs(t, pub.Publish(context.Background(), PostEvent{Type: PostCreated}), ErrNotificationQueueFull)
}

func TestParseTypes(t *testing.T) {
	assert.Equal(t, []Type{PostCreated, PostLiked}, ParseTypes([]string{" post.created", "post.exploded", "post.liked"}))
	assert.Empty(t, ParseTypes(nil))
}

func TestMultiPublisher_AttemptsAll(t *testing.T) {
	notifier := &fakeNotifier{}
	notify := NewNotificationPublisher(notifier, nil, 10, logger.NewNop())
	boom := errors.New("redis down")

	err := NewMultiPublisher(failingPublisher{err: boom}, notify).Publish(context.Background(), PostEvent{Type: PostCreated})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, notify.queue, 1)
}

func TestNewPostEvent(t *testing.T) {
	code, name := "005930", "Samsung Electronics"
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))
	evt := NewPostEvent(PostUpdated, &entity.Post{
		ID:           5,
		Title:        "t",
		Author:       "a",
		StockCode:    &code,
		StockName:    &name,
		Sentiment:    entity.SentimentBearish,
		PositionType: entity.PositionSell,
		LikeCount:    3,
	}, at)

	assert.Equal(t, PostUpdated, evt.Type)
	assert.Equal(t, uint(5), evt.PostID)
	assert.Equal(t, "005930", evt.StockCode)
	assert.Equal(t, "Samsung Electronics", evt.StockName)
	assert.Equal(t, "bearish", evt.Sentiment)
	assert.Equal(t, 3, evt.LikeCount)
	assert.Equal(t, time.UTC, evt.OccurredAt.Location())
}
