package event

import (
	"context"
	"errors"
	"strings"

	"stock-board/pkg/logger"
	"stock-board/pkg/telegram"
)

// ErrNotificationQueueFull is returned when the notifier falls behind.
var ErrNotificationQueueFull = errors.New("notification queue is full")

// NotificationPublisher forwards selected events to a chat. Publish only
// enqueues; Run delivers in the background so slow chat APIs never hold up a
// request.
type NotificationPublisher struct {
	notifier telegram.Notifier
	types    map[Type]bool
	queue    chan PostEvent
	logger   *logger.Logger
}

// NewNotificationPublisher creates a publisher that notifies about the given
// event types, or only post.created when none are given.
func NewNotificationPublisher(notifier telegram.Notifier, types []Type, queueSize int, log *logger.Logger) *NotificationPublisher {
	if len(types) == 0 {
		types = []Type{PostCreated}
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	selected := make(map[Type]bool, len(types))
	for _, t := range types {
		selected[t] = true
	}
	return &NotificationPublisher{
		notifier: notifier,
		types:    selected,
		queue:    make(chan PostEvent, queueSize),
		logger:   log,
	}
}

// Publish implements Publisher.
func (p *NotificationPublisher) Publish(_ context.Context, event PostEvent) error {
	if !p.types[event.Type] {
		return nil
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrNotificationQueueFull
	}
}

// Run sends queued notifications until ctx is canceled.
func (p *NotificationPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-p.queue:
			if err := p.notifier.SendMessage(telegram.FormatPostMessage(postMessage(evt))); err != nil {
				p.logger.Warn("Failed to send post notification",
					logger.ErrorField(err),
					logger.StringField("type", string(evt.Type)),
					logger.Field("post_id", evt.PostID))
			}
		}
	}
}

func postMessage(evt PostEvent) telegram.PostMessage {
	return telegram.PostMessage{
		Kind:         strings.TrimPrefix(string(evt.Type), "post."),
		PostID:       evt.PostID,
		Title:        evt.Title,
		Author:       evt.Author,
		StockCode:    evt.StockCode,
		StockName:    evt.StockName,
		Sentiment:    evt.Sentiment,
		PositionType: evt.PositionType,
		LikeCount:    evt.LikeCount,
		At:           evt.OccurredAt,
	}
}

// ParseTypes converts configured names such as "post.created" into event
// types, skipping unknown names.
func ParseTypes(names []string) []Type {
	known := map[Type]bool{PostCreated: true, PostUpdated: true, PostDeleted: true, PostLiked: true, PostUnliked: true}
	var types []Type
	for _, name := range names {
		t := Type(strings.TrimSpace(name))
		if known[t] {
			types = append(types, t)
		}
	}
	return types
}
