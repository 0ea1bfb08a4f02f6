package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stock-board/internal/entity"
	"stock-board/pkg/common"

	"github.com/redis/go-redis/v9"
)

// Type names a post lifecycle event.
type Type string

const (
	PostCreated Type = "post.created"
	PostUpdated Type = "post.updated"
	PostDeleted Type = "post.deleted"
	PostLiked   Type = "post.liked"
	PostUnliked Type = "post.unliked"
)

// PostEvent is emitted after a post mutation has been persisted. It carries
// the post state as of the mutation.
type PostEvent struct {
	Type         Type      `json:"type"`
	PostID       uint      `json:"post_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	StockCode    string    `json:"stock_code,omitempty"`
	StockName    string    `json:"stock_name,omitempty"`
	Sentiment    string    `json:"sentiment"`
	PositionType string    `json:"position_type"`
	LikeCount    int       `json:"like_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewPostEvent snapshots post into an event of the given type.
func NewPostEvent(eventType Type, post *entity.Post, at time.Time) PostEvent {
	evt := PostEvent{
		Type:         eventType,
		PostID:       post.ID,
		Title:        post.Title,
		Author:       post.Author,
		Sentiment:    string(post.Sentiment),
		PositionType: string(post.PositionType),
		LikeCount:    post.LikeCount,
		OccurredAt:   at.UTC(),
	}
	if post.StockCode != nil {
		evt.StockCode = *post.StockCode
	}
	if post.StockName != nil {
		evt.StockName = *post.StockName
	}
	return evt
}

// Publisher delivers post events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event PostEvent) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, PostEvent) error { return nil }

// NewMultiPublisher fans every event out to all publishers. Every publisher
// is attempted and their errors are joined.
func NewMultiPublisher(publishers ...Publisher) Publisher {
	return multiPublisher(publishers)
}

type multiPublisher []Publisher

func (m multiPublisher) Publish(ctx context.Context, event PostEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewRedisStreamPublisher creates a Publisher that appends events to a Redis stream
// capped at maxLen entries (0 means uncapped).
func NewRedisStreamPublisher(client *redis.Client, maxLen int64) Publisher {
	return &redisStreamPublisher{
		client: client,
		stream: common.RedisStreamPostEvents,
		maxLen: maxLen,
	}
}

type redisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// Publish appends the event to the stream.
func (p *redisStreamPublisher) Publish(ctx context.Context, event PostEvent) error {
	args, err := streamArgs(p.stream, p.maxLen, event)
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func streamArgs(stream string, maxLen int64, event PostEvent) (*redis.XAddArgs, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal post event: %w", err)
	}
	return &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxLen,
		Approx: maxLen > 0,
		Values: map[string]interface{}{
			"type":    string(event.Type),
			"payload": payload,
		},
	}, nil
}
